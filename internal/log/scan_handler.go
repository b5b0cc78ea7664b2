package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// MaskValue replaces masked attribute values.
const MaskValue = "***REDACTED***"

// MaxValueLen is the longest attribute string emitted untruncated. Markup
// bodies and data URLs routinely exceed this; nothing useful lives past it.
const MaxValueLen = 512

// maskedKeys contains attribute keys whose values are always masked.
// These commonly carry credentials when callers inject custom headers
// into variant fetches.
var maskedKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"api_key":             true,
	"apikey":              true,
	"token":               true,
	"password":            true,
	"secret":              true,
}

// ScanHandler wraps an slog.Handler and shapes records for scan logging.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because it integrates seamlessly with standard slog APIs and works with
// any underlying handler (text, JSON, etc.).
type ScanHandler struct {
	// handler receives the shaped records.
	handler slog.Handler
}

// NewScanHandler creates a ScanHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewScanHandler(handler slog.Handler) *ScanHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &ScanHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *ScanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle shapes the record's attributes and passes it on.
func (h *ScanHandler) Handle(ctx context.Context, r slog.Record) error {
	shaped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		shaped.AddAttrs(h.shapeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, shaped)
}

// WithAttrs returns a new handler with the given attributes added, shaped.
func (h *ScanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	shaped := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		shaped[i] = h.shapeAttr(a)
	}
	return &ScanHandler{handler: h.handler.WithAttrs(shaped)}
}

// WithGroup returns a new handler with the given group name.
func (h *ScanHandler) WithGroup(name string) slog.Handler {
	return &ScanHandler{handler: h.handler.WithGroup(name)}
}

// shapeAttr masks credential keys and truncates oversized string values,
// recursively handling groups.
func (h *ScanHandler) shapeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		shaped := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			shaped[i] = h.shapeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(shaped...)}
	}

	if maskedKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		v := a.Value.String()
		if len(v) > MaxValueLen {
			return slog.String(a.Key, fmt.Sprintf("%s... (%d bytes truncated)", v[:MaxValueLen], len(v)-MaxValueLen))
		}
	}

	return a
}

// NewLogger creates a logger writing text records to stderr through a
// ScanHandler. Verbose enables debug-level output; otherwise only warnings
// and errors are emitted.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(NewScanHandler(base))
}
