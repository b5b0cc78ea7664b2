package feature

import (
	"strings"

	"github.com/nao1215/compatscan/internal/model"
)

// supportTable maps a feature to the minimum browser version that supports
// it, keyed by lowercase browser family name.
//
// Design decision: The table is a hand-maintained constant rather than a
// generated caniuse mirror. The extractor can only infer a handful of
// features from markup, so a full database would be dead weight; the table
// covers exactly the features the extractor emits. Browsers absent from a
// row are "unknown", never "unsupported".
var supportTable = map[model.FeatureID]map[string]string{
	"es-modules": {
		"chrome":  "61",
		"firefox": "60",
		"safari":  "11",
		"edge":    "16",
	},
	"responsive-images": {
		"chrome":  "38",
		"firefox": "38",
		"safari":  "9.1",
		"edge":    "16",
	},
	"picture-element": {
		"chrome":  "38",
		"firefox": "38",
		"safari":  "9.1",
		"edge":    "13",
	},
	"webp": {
		"chrome":  "32",
		"firefox": "65",
		"safari":  "14",
		"edge":    "18",
	},
	"avif": {
		"chrome":  "85",
		"firefox": "93",
		"safari":  "16.1",
	},
	"lazy-loading": {
		"chrome":  "77",
		"firefox": "75",
		"safari":  "15.4",
		"edge":    "79",
	},
}

// MinimumVersion returns the minimum version of the named browser that
// supports the feature. The second return value is false when the
// feature/browser pair has no entry, which callers must treat as unknown
// rather than unsupported.
func MinimumVersion(id model.FeatureID, browserName string) (string, bool) {
	row, ok := supportTable[id]
	if !ok {
		return "", false
	}
	min, ok := row[strings.ToLower(browserName)]
	return min, ok
}

// Known reports whether the feature has any entry in the support table.
func Known(id model.FeatureID) bool {
	_, ok := supportTable[id]
	return ok
}
