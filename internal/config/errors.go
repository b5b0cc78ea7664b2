package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Any of these errors is fatal: the run never
// starts and no report is produced.
var (
	// ErrNoTargetURL is returned when no target URL is specified.
	ErrNoTargetURL = errors.New("no target URL specified")

	// ErrInvalidTargetURL is returned when the target is not a well-formed
	// absolute http(s) URL.
	ErrInvalidTargetURL = errors.New("invalid target URL: must be an absolute http or https URL")

	// ErrInvalidTimeout is returned when the timeout is outside the
	// accepted range of 1s to 120s.
	ErrInvalidTimeout = errors.New("invalid timeout: must be between 1s and 120s")

	// ErrViewportTooSmall is returned when a device viewport is below the
	// minimum of 320×480. Smaller viewports have no real-device analog and
	// produce meaningless overflow measurements.
	ErrViewportTooSmall = errors.New("invalid viewport: width must be >= 320 and height >= 480")

	// ErrEmptyBrowserName is returned when a browser profile has no name.
	ErrEmptyBrowserName = errors.New("invalid browser profile: name must not be empty")

	// ErrEmptyDeviceName is returned when a device profile has no name.
	ErrEmptyDeviceName = errors.New("invalid device profile: name must not be empty")
)
