package autoload

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/leapstack-labs/notransitive/pkg/manifest"
)

// InstalledPackage is one entry of vendor/composer/installed.json.
type InstalledPackage struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	InstallPath string            `json:"install-path"`
	Autoload    manifest.Autoload `json:"autoload"`
}

// installedV2 is the Composer 2 layout: {"packages": [...], "dev": true}.
type installedV2 struct {
	Packages []InstalledPackage `json:"packages"`
}

// ReadInstalled parses installed.json in either the Composer 1 (top-level
// array) or Composer 2 (object with "packages") layout.
func ReadInstalled(path string) ([]InstalledPackage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read installed packages: %w", err)
	}

	var v2 installedV2
	if err := json.Unmarshal(data, &v2); err == nil {
		return v2.Packages, nil
	}

	var v1 []InstalledPackage
	if err := json.Unmarshal(data, &v1); err != nil {
		return nil, fmt.Errorf("parse installed packages: %w", err)
	}
	return v1, nil
}
