package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

// TestRunStatus tests lifecycle state semantics.
func TestRunStatus(t *testing.T) {
	t.Parallel()

	t.Run("string forms", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			status RunStatus
			want   string
		}{
			{StatusPending, "pending"},
			{StatusRunning, "running"},
			{StatusCompleted, "completed"},
			{StatusFailed, "failed"},
			{StatusCancelled, "cancelled"},
			{RunStatus(99), "unknown"},
		}
		for _, tt := range tests {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("String(%d) = %q, want %q", tt.status, got, tt.want)
			}
		}
	})

	t.Run("terminal states", func(t *testing.T) {
		t.Parallel()

		for _, s := range []RunStatus{StatusCompleted, StatusFailed, StatusCancelled} {
			if !s.Terminal() {
				t.Errorf("expected %s to be terminal", s)
			}
		}
		for _, s := range []RunStatus{StatusPending, StatusRunning} {
			if s.Terminal() {
				t.Errorf("expected %s not to be terminal", s)
			}
		}
	})

	t.Run("marshals as string", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(StatusRunning)
		if err != nil {
			t.Fatalf("Marshal returned error: %v", err)
		}
		if string(data) != `"running"` {
			t.Errorf("marshaled = %s, want \"running\"", data)
		}
	})
}

// TestBrowserProfileKey tests the display key.
func TestBrowserProfileKey(t *testing.T) {
	t.Parallel()

	if got := (BrowserProfile{Name: "Chrome", Version: "120"}).Key(); got != "Chrome 120" {
		t.Errorf("Key() = %q, want %q", got, "Chrome 120")
	}
	if got := (BrowserProfile{Name: "Firefox"}).Key(); got != "Firefox" {
		t.Errorf("Key() = %q, want version-less name", got)
	}
}

// TestCompatReport tests report helpers.
func TestCompatReport(t *testing.T) {
	t.Parallel()

	t.Run("AddWarning skips duplicates", func(t *testing.T) {
		t.Parallel()

		report := NewCompatReport("run-1", "https://example.com")
		report.AddWarning("slow response")
		report.AddWarning("slow response")
		report.AddWarning("another warning")

		want := []string{"slow response", "another warning"}
		if !reflect.DeepEqual(report.Warnings, want) {
			t.Errorf("Warnings = %v, want %v", report.Warnings, want)
		}
	})

	t.Run("fatal error is not serialized", func(t *testing.T) {
		t.Parallel()

		report := NewCompatReport("run-1", "https://example.com")
		report.ErrorMessage = "boom"

		data, err := json.Marshal(report)
		if err != nil {
			t.Fatalf("Marshal returned error: %v", err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal returned error: %v", err)
		}
		if _, ok := decoded["error"]; ok {
			t.Error("did not expect raw error field in JSON")
		}
		if decoded["error_message"] != "boom" {
			t.Errorf("error_message = %v, want boom", decoded["error_message"])
		}
	})
}

// TestCompatibleCount tests matrix cell counting.
func TestCompatibleCount(t *testing.T) {
	t.Parallel()

	cells := []MatrixCell{
		{Compatible: true},
		{Compatible: false},
		{Compatible: true},
	}
	if got := CompatibleCount(cells); got != 2 {
		t.Errorf("CompatibleCount = %d, want 2", got)
	}
	if got := CompatibleCount(nil); got != 0 {
		t.Errorf("CompatibleCount(nil) = %d, want 0", got)
	}
}
