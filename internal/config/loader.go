package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/compatscan/internal/model"
)

// DefaultProfileFile is the default profile file name.
const DefaultProfileFile = ".compatscan.yml"

// ErrProfileFileNotFound is returned when the profile file does not exist.
var ErrProfileFileNotFound = errors.New("profile file not found")

// ProfileFile holds named browser/device profile sets loaded from YAML.
// Teams keep one file in the repository so CI invocations don't repeat
// viewport literals and UA overrides on every command line.
//
// Example:
//
//	browsers:
//	  evergreen:
//	    - name: Chrome
//	      version: "120"
//	    - name: Firefox
//	      version: "121"
//	devices:
//	  handhelds:
//	    - name: iPhone SE
//	      viewport: {width: 375, height: 667}
type ProfileFile struct {
	// Browsers maps a set name to its browser profiles.
	Browsers map[string][]model.BrowserProfile `yaml:"browsers"`

	// Devices maps a set name to its device profiles.
	Devices map[string][]model.DeviceProfile `yaml:"devices"`
}

// LoadProfileFile loads named profile sets from a YAML file.
// If the file does not exist, it returns ErrProfileFileNotFound. Callers
// should treat that as fatal only when the path was explicitly specified.
func LoadProfileFile(path string) (*ProfileFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProfileFileNotFound
		}
		return nil, err
	}

	var pf ProfileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}

	if pf.Browsers == nil {
		pf.Browsers = make(map[string][]model.BrowserProfile)
	}
	if pf.Devices == nil {
		pf.Devices = make(map[string][]model.DeviceProfile)
	}

	return &pf, nil
}

// FindProfileFile searches for the profile file in the following order:
//  1. If profilePath is specified, use it directly
//  2. Look for .compatscan.yml in the current directory
//  3. Look for .compatscan.yml in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindProfileFile(profilePath string) string {
	if profilePath != "" {
		if _, err := os.Stat(profilePath); err == nil {
			return profilePath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		candidate := filepath.Join(cwd, DefaultProfileFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidate := filepath.Join(home, DefaultProfileFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
