package model

import "fmt"

// BrowserProfile describes one simulated browser under test.
//
// Identity for lookup purposes is the (Name, Version) pair: two profiles
// with the same name but different versions are distinct matrix rows and
// may resolve different feature-support verdicts.
type BrowserProfile struct {
	// Name is the browser family name ("Chrome", "Firefox", "Safari", ...).
	// Matching against the feature-support table is case-insensitive.
	Name string `json:"name" yaml:"name"`

	// Version is the browser version string ("120", "17.2"). Optional;
	// a version-less profile can only receive warnings from the feature
	// resolver, never hard incompatibility issues.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// UserAgentOverride, when set, is used verbatim as the client identity
	// for variant fetches instead of the built-in default for Name.
	UserAgentOverride string `json:"user_agent_override,omitempty" yaml:"user_agent,omitempty"`
}

// Key returns the browser's identity key used in verdict maps.
// A version-less profile keys on the bare name.
func (b BrowserProfile) Key() string {
	if b.Version == "" {
		return b.Name
	}
	return fmt.Sprintf("%s %s", b.Name, b.Version)
}

// Viewport is a device viewport size in CSS pixels.
type Viewport struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// DeviceProfile describes one simulated device under test.
type DeviceProfile struct {
	// Name is a human-readable device label ("Desktop", "iPhone 14", ...).
	Name string `json:"name" yaml:"name"`

	// Viewport is the device's viewport size. Width below 320 or height
	// below 480 is rejected at config validation.
	Viewport Viewport `json:"viewport" yaml:"viewport"`

	// UserAgentOverride, when set, takes precedence over the built-in
	// default user agent for Name when resolving the client identity.
	UserAgentOverride string `json:"user_agent_override,omitempty" yaml:"user_agent,omitempty"`
}
