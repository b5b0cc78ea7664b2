package model

// FeatureID identifies a web-platform feature in the support table
// ("es-modules", "webp", "lazy-loading", ...).
type FeatureID string

// MetaSignals holds document-level markup signals.
type MetaSignals struct {
	// HasViewport is true when a <meta name="viewport"> tag is present.
	HasViewport bool `json:"has_viewport"`

	// HasH1 is true when the document contains at least one <h1>.
	HasH1 bool `json:"has_h1"`

	// HasCharset is true when a charset declaration is present, either
	// <meta charset> or an http-equiv Content-Type with a charset.
	HasCharset bool `json:"has_charset"`

	// HasLang is true when <html> carries a well-formed BCP 47 lang tag.
	HasLang bool `json:"has_lang"`
}

// ResourceSignals holds signals about how the page loads its resources.
type ResourceSignals struct {
	// HasResponsiveImages is true when srcset or <picture> is used.
	HasResponsiveImages bool `json:"has_responsive_images"`

	// HasModuleScript is true when a <script type="module"> is present.
	HasModuleScript bool `json:"has_module_script"`

	// HasNoModuleFallback is true when a <script nomodule> accompanies
	// module scripts for legacy engines.
	HasNoModuleFallback bool `json:"has_nomodule_fallback"`

	// HasModernImageFormat is true when WebP or AVIF sources are referenced.
	HasModernImageFormat bool `json:"has_modern_image_format"`

	// HasLazyLoading is true when loading="lazy" is used on images or iframes.
	HasLazyLoading bool `json:"has_lazy_loading"`
}

// PageSignals is the structured result of statically analyzing one fetched
// page variant. It is a pure function of the markup: the same input markup
// always produces byte-identical signals, and extraction never fails.
// Empty or garbage markup yields a fully-populated record whose Issues list
// describes everything that is missing.
type PageSignals struct {
	// Meta holds document-level signals.
	Meta MetaSignals `json:"meta"`

	// Resources holds resource-loading signals.
	Resources ResourceSignals `json:"resources"`

	// PolyfillHint is true when the page appears to load a polyfill bundle,
	// which suggests the author already targets legacy engines.
	PolyfillHint bool `json:"polyfill_hint"`

	// RequiredFeatures lists the web-platform features the page depends on,
	// in the deterministic order the extractor detects them.
	RequiredFeatures []FeatureID `json:"required_features"`

	// Issues lists static compatibility problems found in the markup.
	Issues []string `json:"issues"`
}

// RequiresFeature reports whether the page depends on the given feature.
func (p *PageSignals) RequiresFeature(id FeatureID) bool {
	for _, f := range p.RequiredFeatures {
		if f == id {
			return true
		}
	}
	return false
}
