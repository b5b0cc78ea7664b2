package feature

import (
	"fmt"

	"github.com/nao1215/compatscan/internal/model"
)

// Resolution is the outcome of checking a browser against a list of
// required features.
type Resolution struct {
	// Issues are proven incompatibilities: the profile's version is
	// numerically below a known minimum.
	Issues []string

	// Warnings cover everything unprovable: unknown feature/browser
	// pairs and version-less profiles.
	Warnings []string

	// SupportedFeatures are the required features confirmed as supported.
	SupportedFeatures []model.FeatureID
}

// Resolve checks each required feature against the support table for the
// given browser profile.
//
// The rules, in order:
//   - no entry for the feature/browser pair → warning, never an issue
//   - profile has no version → warning (version-less profiles cannot be
//     judged, only flagged)
//   - profile version below the minimum → issue
//   - otherwise → supported
func Resolve(browser model.BrowserProfile, required []model.FeatureID) Resolution {
	res := Resolution{
		Issues:            make([]string, 0),
		Warnings:          make([]string, 0),
		SupportedFeatures: make([]model.FeatureID, 0),
	}

	for _, id := range required {
		min, ok := MinimumVersion(id, browser.Name)
		if !ok {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("cannot confirm %s support on %s: no support data", id, browser.Name))
			continue
		}

		if browser.Version == "" {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("cannot confirm %s support on %s: no version configured (requires %s+)",
					id, browser.Name, min))
			continue
		}

		if CompareVersions(browser.Version, min) < 0 {
			res.Issues = append(res.Issues,
				fmt.Sprintf("%s not supported on %s %s (requires %s+)",
					id, browser.Name, browser.Version, min))
			continue
		}

		res.SupportedFeatures = append(res.SupportedFeatures, id)
	}

	return res
}
