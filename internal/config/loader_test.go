package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestLoadProfileFile tests profile file loading.
func TestLoadProfileFile(t *testing.T) {
	t.Parallel()

	t.Run("loads named sets", func(t *testing.T) {
		t.Parallel()

		content := `
browsers:
  evergreen:
    - name: Chrome
      version: "120"
    - name: Firefox
      version: "121"
devices:
  handhelds:
    - name: iPhone SE
      viewport:
        width: 375
        height: 667
`
		path := filepath.Join(t.TempDir(), DefaultProfileFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		pf, err := LoadProfileFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		browsers, ok := pf.Browsers["evergreen"]
		if !ok {
			t.Fatal("expected browser set 'evergreen'")
		}
		if len(browsers) != 2 || browsers[0].Name != "Chrome" || browsers[0].Version != "120" {
			t.Errorf("unexpected browser set: %+v", browsers)
		}

		devices, ok := pf.Devices["handhelds"]
		if !ok {
			t.Fatal("expected device set 'handhelds'")
		}
		if len(devices) != 1 || devices[0].Viewport.Width != 375 {
			t.Errorf("unexpected device set: %+v", devices)
		}
	})

	t.Run("missing file returns ErrProfileFileNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadProfileFile(filepath.Join(t.TempDir(), "nope.yml"))
		if !errors.Is(err, ErrProfileFileNotFound) {
			t.Errorf("expected ErrProfileFileNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultProfileFile)
		if err := os.WriteFile(path, []byte("browsers: [not: valid"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadProfileFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("empty file yields initialized maps", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultProfileFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatal(err)
		}

		pf, err := LoadProfileFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pf.Browsers == nil || pf.Devices == nil {
			t.Error("expected initialized maps for empty file")
		}
	})
}

// TestFindProfileFile tests profile file discovery.
func TestFindProfileFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path wins when it exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("browsers: {}"), 0600); err != nil {
			t.Fatal(err)
		}

		if got := FindProfileFile(path); got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
	})

	t.Run("explicit missing path yields empty", func(t *testing.T) {
		t.Parallel()

		if got := FindProfileFile(filepath.Join(t.TempDir(), "missing.yml")); got != "" {
			t.Errorf("expected empty path, got %s", got)
		}
	})
}
