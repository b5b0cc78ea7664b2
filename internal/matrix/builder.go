package matrix

import (
	"fmt"

	"github.com/nao1215/compatscan/internal/feature"
	"github.com/nao1215/compatscan/internal/fetcher"
	"github.com/nao1215/compatscan/internal/model"
	"github.com/nao1215/compatscan/internal/signal"
)

// narrowViewportWidth is the width below which a page without a viewport
// meta tag renders at desktop scale and becomes unusable.
const narrowViewportWidth = 1024

// Builder computes compatibility verdicts from fetched variants.
type Builder struct {
	// variants maps client identities to their fetched page signals.
	variants map[fetcher.Identity]*model.PageSignals

	// featureDetection enables the feature-support pass per cell.
	featureDetection bool
}

// NewBuilder creates a Builder over the given variant cache. The cache must
// contain the baseline variant; a nil or incomplete cache degrades to
// empty-document signals rather than failing.
func NewBuilder(variants map[fetcher.Identity]*model.PageSignals, featureDetection bool) *Builder {
	if variants == nil {
		variants = make(map[fetcher.Identity]*model.PageSignals)
	}
	return &Builder{
		variants:         variants,
		featureDetection: featureDetection,
	}
}

// signalsFor resolves the applicable signals for one combination, falling
// back to the baseline fetch when no identity was resolvable, and to an
// empty document when even the baseline is missing.
func (b *Builder) signalsFor(browser model.BrowserProfile, device model.DeviceProfile) *model.PageSignals {
	id := fetcher.ResolveIdentity(browser, device)
	if s, ok := b.variants[id]; ok && s != nil {
		return s
	}
	if s, ok := b.variants[fetcher.Baseline]; ok && s != nil {
		return s
	}
	return signal.Extract("")
}

// Build computes the full matrix in the contract ordering: browsers outer,
// devices inner. A cell is compatible iff its issue list is empty; warnings
// never affect compatibility, only visibility.
func (b *Builder) Build(browsers []model.BrowserProfile, devices []model.DeviceProfile) []model.MatrixCell {
	cells := make([]model.MatrixCell, 0, len(browsers)*len(devices))

	for _, browser := range browsers {
		for _, device := range devices {
			signals := b.signalsFor(browser, device)

			issues := make([]string, 0, len(signals.Issues))
			issues = append(issues, signals.Issues...)
			warnings := make([]string, 0)
			supported := make([]model.FeatureID, 0)

			if b.featureDetection {
				res := feature.Resolve(browser, signals.RequiredFeatures)
				issues = append(issues, res.Issues...)
				warnings = append(warnings, res.Warnings...)
				supported = append(supported, res.SupportedFeatures...)
			}

			cells = append(cells, model.MatrixCell{
				Browser:           browser,
				Device:            device,
				Compatible:        len(issues) == 0,
				Issues:            issues,
				Warnings:          warnings,
				SupportedFeatures: supported,
				Signals:           signals,
			})
		}
	}

	return cells
}

// BrowserVerdicts computes the per-browser pass against the baseline
// signals: each browser's required-feature support plus the markup issues
// every engine sees.
func (b *Builder) BrowserVerdicts(browsers []model.BrowserProfile) []model.Verdict {
	baseline := b.signalsFor(model.BrowserProfile{}, model.DeviceProfile{})

	verdicts := make([]model.Verdict, 0, len(browsers))
	for _, browser := range browsers {
		issues := make([]string, 0)
		warnings := make([]string, 0)

		if b.featureDetection {
			res := feature.Resolve(browser, baseline.RequiredFeatures)
			issues = append(issues, res.Issues...)
			warnings = append(warnings, res.Warnings...)
		}

		if baseline.Resources.HasModuleScript && !baseline.Resources.HasNoModuleFallback {
			issues = append(issues, signal.IssueModuleNoFallback)
		}

		verdicts = append(verdicts, model.Verdict{
			Name:       browser.Key(),
			Compatible: len(issues) == 0,
			Issues:     issues,
			Warnings:   warnings,
		})
	}
	return verdicts
}

// DeviceVerdicts computes the per-device pass against the baseline signals.
// Viewport problems are issues only on narrow devices; on desktop widths a
// missing viewport meta degrades rendering quality, not usability, so it
// stays a warning there.
func (b *Builder) DeviceVerdicts(devices []model.DeviceProfile) []model.Verdict {
	baseline := b.signalsFor(model.BrowserProfile{}, model.DeviceProfile{})

	verdicts := make([]model.Verdict, 0, len(devices))
	for _, device := range devices {
		issues := make([]string, 0)
		warnings := make([]string, 0)

		if !baseline.Meta.HasViewport {
			if device.Viewport.Width < narrowViewportWidth {
				issues = append(issues, fmt.Sprintf("%s: page renders at desktop scale on %s (%dx%d)",
					signal.IssueMissingViewport, device.Name, device.Viewport.Width, device.Viewport.Height))
			} else {
				warnings = append(warnings, signal.IssueMissingViewport)
			}
		}

		if device.Viewport.Width < narrowViewportWidth && !baseline.Resources.HasResponsiveImages {
			warnings = append(warnings, fmt.Sprintf("no responsive images for %s", device.Name))
		}

		verdicts = append(verdicts, model.Verdict{
			Name:       device.Name,
			Compatible: len(issues) == 0,
			Issues:     issues,
			Warnings:   warnings,
		})
	}
	return verdicts
}

// FeatureSummary counts, for each feature required by any cell, how many
// cells confirmed support for it.
func FeatureSummary(cells []model.MatrixCell) map[model.FeatureID]int {
	summary := make(map[model.FeatureID]int)
	for _, cell := range cells {
		if cell.Signals == nil {
			continue
		}
		for _, id := range cell.Signals.RequiredFeatures {
			if _, ok := summary[id]; !ok {
				summary[id] = 0
			}
		}
		for _, id := range cell.SupportedFeatures {
			summary[id]++
		}
	}
	return summary
}
