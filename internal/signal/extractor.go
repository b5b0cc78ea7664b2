package signal

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/language"

	"github.com/nao1215/compatscan/internal/model"
)

// Static issue messages. These strings are part of the report contract:
// they flow unchanged into matrix cells and recommendations, so tests and
// downstream consumers match on them.
const (
	// IssueMissingViewport is reported when no <meta name="viewport"> exists.
	IssueMissingViewport = "missing viewport meta tag"

	// IssueMissingH1 is reported when the document has no <h1>.
	IssueMissingH1 = "missing H1 heading"

	// IssueMissingCharset is reported when no charset declaration exists.
	IssueMissingCharset = "missing charset declaration"

	// IssueMissingLang is reported when <html> has no well-formed lang tag.
	IssueMissingLang = "missing or invalid lang attribute on <html>"

	// IssueModuleNoFallback is reported when module scripts have no
	// nomodule fallback for legacy engines.
	IssueModuleNoFallback = "module script without fallback"
)

// Web-platform features the extractor can infer from markup. Each maps to
// an entry in the feature-support table.
const (
	FeatureESModules        model.FeatureID = "es-modules"
	FeatureResponsiveImages model.FeatureID = "responsive-images"
	FeatureWebP             model.FeatureID = "webp"
	FeatureAVIF             model.FeatureID = "avif"
	FeatureLazyLoading      model.FeatureID = "lazy-loading"
	FeaturePictureElement   model.FeatureID = "picture-element"
)

// Extract analyzes raw markup and returns the page's compatibility signals.
//
// Extract never fails: goquery parses arbitrarily broken input into some
// document, and an unparseable or empty string simply yields a record with
// every "missing" issue set. Running Extract twice on identical markup
// yields identical signals.
func Extract(markup string) *model.PageSignals {
	signals := &model.PageSignals{
		RequiredFeatures: make([]model.FeatureID, 0),
		Issues:           make([]string, 0),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// goquery only errors on reader failures, which cannot happen
		// with a strings.Reader. Treat it like an empty document anyway.
		doc = nil
	}

	if doc != nil {
		signals.Meta = extractMeta(doc)
		signals.Resources = extractResources(doc)
		signals.PolyfillHint = detectPolyfill(doc)
	}

	signals.RequiredFeatures = requiredFeatures(signals.Resources)
	signals.Issues = staticIssues(signals)

	return signals
}

// extractMeta collects document-level signals.
func extractMeta(doc *goquery.Document) model.MetaSignals {
	meta := model.MetaSignals{
		HasViewport: doc.Find(`meta[name="viewport"]`).Length() > 0,
		HasH1:       doc.Find("h1").Length() > 0,
	}

	if doc.Find("meta[charset]").Length() > 0 {
		meta.HasCharset = true
	} else {
		// Legacy form: <meta http-equiv="Content-Type" content="...; charset=...">
		doc.Find(`meta[http-equiv]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			equiv, _ := s.Attr("http-equiv")
			content, _ := s.Attr("content")
			if strings.EqualFold(equiv, "Content-Type") && strings.Contains(strings.ToLower(content), "charset=") {
				meta.HasCharset = true
				return false
			}
			return true
		})
	}

	if lang, ok := doc.Find("html").Attr("lang"); ok && lang != "" {
		if _, err := language.Parse(lang); err == nil {
			meta.HasLang = true
		}
	}

	return meta
}

// extractResources collects resource-loading signals.
func extractResources(doc *goquery.Document) model.ResourceSignals {
	res := model.ResourceSignals{
		HasResponsiveImages: doc.Find("img[srcset], source[srcset]").Length() > 0 ||
			doc.Find("picture").Length() > 0,
		HasModuleScript:     hasScriptType(doc, "module"),
		HasNoModuleFallback: doc.Find("script[nomodule]").Length() > 0,
		HasLazyLoading:      doc.Find(`img[loading="lazy"], iframe[loading="lazy"]`).Length() > 0,
	}

	doc.Find("img[src], source[srcset], source[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		srcset, _ := s.Attr("srcset")
		typ, _ := s.Attr("type")
		combined := strings.ToLower(src + " " + srcset + " " + typ)
		if strings.Contains(combined, ".webp") || strings.Contains(combined, "image/webp") ||
			strings.Contains(combined, ".avif") || strings.Contains(combined, "image/avif") {
			res.HasModernImageFormat = true
			return false
		}
		return true
	})

	return res
}

// hasScriptType reports whether any script tag carries the given type value.
func hasScriptType(doc *goquery.Document, want string) bool {
	found := false
	doc.Find("script[type]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		typ, _ := s.Attr("type")
		if strings.EqualFold(strings.TrimSpace(typ), want) {
			found = true
			return false
		}
		return true
	})
	return found
}

// detectPolyfill reports whether the page appears to load a polyfill bundle.
// A polyfill hint means the author already targets legacy engines, which
// softens several feature warnings downstream.
func detectPolyfill(doc *goquery.Document) bool {
	found := false
	doc.Find("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if strings.Contains(strings.ToLower(src), "polyfill") {
			found = true
			return false
		}
		return true
	})
	return found
}

// requiredFeatures derives the feature dependency list from resource
// signals, in a fixed detection order so the output is deterministic.
func requiredFeatures(res model.ResourceSignals) []model.FeatureID {
	features := make([]model.FeatureID, 0)
	if res.HasModuleScript {
		features = append(features, FeatureESModules)
	}
	if res.HasResponsiveImages {
		features = append(features, FeatureResponsiveImages, FeaturePictureElement)
	}
	if res.HasModernImageFormat {
		features = append(features, FeatureWebP, FeatureAVIF)
	}
	if res.HasLazyLoading {
		features = append(features, FeatureLazyLoading)
	}
	return features
}

// staticIssues derives the issue list from the collected signals.
func staticIssues(s *model.PageSignals) []string {
	issues := make([]string, 0)
	if !s.Meta.HasViewport {
		issues = append(issues, IssueMissingViewport)
	}
	if !s.Meta.HasH1 {
		issues = append(issues, IssueMissingH1)
	}
	if !s.Meta.HasCharset {
		issues = append(issues, IssueMissingCharset)
	}
	if !s.Meta.HasLang {
		issues = append(issues, IssueMissingLang)
	}
	if s.Resources.HasModuleScript && !s.Resources.HasNoModuleFallback {
		issues = append(issues, IssueModuleNoFallback)
	}
	return issues
}
