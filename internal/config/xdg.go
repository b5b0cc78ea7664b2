package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// XDGDataDir returns the XDG data directory for compatscan. The run-history
// database and saved screenshots live here by default.
// On Linux: ~/.local/share/compatscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for compatscan.
// On Linux: ~/.cache/compatscan
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}
