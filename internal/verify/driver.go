package verify

import (
	"context"
	"errors"
	"time"

	"github.com/nao1215/compatscan/internal/model"
)

// ErrSessionClosed is returned when a session is used after Close.
var ErrSessionClosed = errors.New("browser session already closed")

// NavigateOptions configures one navigation within a session.
type NavigateOptions struct {
	// Viewport is the emulated viewport size.
	Viewport model.Viewport

	// UserAgent is the client identity to present, empty for the
	// browser's own.
	UserAgent string

	// Timeout bounds the navigation independently of sibling sessions.
	Timeout time.Duration
}

// Diagnostics holds the ground-truth measurements collected from a session
// after navigation.
type Diagnostics struct {
	// ScriptErrorCount is the number of uncaught exceptions observed.
	ScriptErrorCount int

	// ConsoleErrorCount is the number of console.error calls observed.
	ConsoleErrorCount int

	// FailedRequestCount is the number of sub-resource loads that failed.
	FailedRequestCount int

	// ScrollWidth and ScrollHeight are the document scroll dimensions.
	ScrollWidth  int
	ScrollHeight int

	// HasViewportMeta reports whether a viewport meta tag is present in
	// the live DOM.
	HasViewportMeta bool

	// H1Count is the number of <h1> elements in the live DOM.
	H1Count int

	// FirstContentfulPaintMS is the FCP timing in milliseconds, 0 when
	// not reported.
	FirstContentfulPaintMS float64
}

// Session is one isolated automated browser session. A session belongs to
// exactly one browser×device combination and must be closed by it.
type Session interface {
	// Navigate loads the target URL under the given emulation options.
	Navigate(ctx context.Context, url string, opts NavigateOptions) error

	// CollectDiagnostics gathers measurements from the loaded page.
	CollectDiagnostics(ctx context.Context) (*Diagnostics, error)

	// Screenshot captures a full-page screenshot. Callers treat a failure
	// as a missing screenshot, never as a fatal error.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close terminates the session and releases the underlying browser
	// resources. Safe to call exactly once; the verifier guarantees it
	// runs on every exit path.
	Close() error
}

// Driver launches browser sessions. A nil Driver passed to the verifier
// means the automation capability is absent in the running environment.
type Driver interface {
	// Launch starts a fresh, isolated session.
	Launch(ctx context.Context) (Session, error)
}
