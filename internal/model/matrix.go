package model

// MatrixCell is the compatibility verdict for one browser×device combination.
//
// The matrix is ordered browsers-outer, devices-inner, matching the input
// arrays; this ordering is a documented contract so reports are reproducible
// regardless of how the cells were computed.
type MatrixCell struct {
	// Browser is the browser half of the combination.
	Browser BrowserProfile `json:"browser"`

	// Device is the device half of the combination.
	Device DeviceProfile `json:"device"`

	// Compatible is true iff Issues is empty. Warnings never affect
	// compatibility, only visibility.
	Compatible bool `json:"compatible"`

	// Issues are hard incompatibilities for this combination.
	Issues []string `json:"issues"`

	// Warnings are advisory findings that could not be confirmed either way.
	Warnings []string `json:"warnings"`

	// SupportedFeatures lists required features confirmed as supported
	// for this cell's browser.
	SupportedFeatures []FeatureID `json:"supported_features"`

	// Signals are the page signals the verdict was derived from.
	Signals *PageSignals `json:"signals,omitempty"`
}

// Verdict is a single-dimension compatibility verdict, used for the
// per-browser and per-device passes when the full matrix is disabled.
type Verdict struct {
	// Name identifies the browser or device the verdict applies to.
	Name string `json:"name"`

	// Compatible is true iff Issues is empty.
	Compatible bool `json:"compatible"`

	// Issues are hard incompatibilities.
	Issues []string `json:"issues"`

	// Warnings are advisory findings.
	Warnings []string `json:"warnings"`
}

// CompatibleCount returns how many cells in the list are compatible.
func CompatibleCount(cells []MatrixCell) int {
	n := 0
	for _, c := range cells {
		if c.Compatible {
			n++
		}
	}
	return n
}
