package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// FileName is the conventional manifest name at the project root.
const FileName = "composer.json"

// PathIn returns the manifest path inside the given project root.
func PathIn(root string) string {
	return filepath.Join(root, FileName)
}

// ErrNotObject is returned when the manifest parses as JSON but is not an object.
var ErrNotObject = errors.New("manifest is not a JSON object")

// Manifest is the subset of composer.json this tool understands.
type Manifest struct {
	Name        string
	Require     map[string]string
	RequireDev  map[string]string
	Autoload    Autoload
	AutoloadDev Autoload
	Config      Config
}

// Autoload describes a Composer autoload section.
type Autoload struct {
	PSR4     map[string]Paths `json:"psr-4"`
	PSR0     map[string]Paths `json:"psr-0"`
	Classmap []string         `json:"classmap"`
}

// Config holds the composer "config" keys that affect file layout.
type Config struct {
	VendorDir string `json:"vendor-dir"`
}

// Paths is an autoload target that Composer allows as a string or a list.
type Paths []string

// UnmarshalJSON accepts both "src/" and ["src/", "lib/"].
func (p *Paths) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*p = Paths{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("autoload path must be a string or list of strings: %w", err)
	}
	*p = many
	return nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes manifest contents. Sections with an unexpected shape are
// skipped so one malformed section never hides the others.
func Parse(data []byte) (*Manifest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if raw == nil {
		return nil, ErrNotObject
	}

	m := &Manifest{
		Require:    decodeRequirements(raw["require"]),
		RequireDev: decodeRequirements(raw["require-dev"]),
	}
	if v, ok := raw["name"]; ok {
		_ = json.Unmarshal(v, &m.Name)
	}
	if v, ok := raw["autoload"]; ok {
		_ = json.Unmarshal(v, &m.Autoload)
	}
	if v, ok := raw["autoload-dev"]; ok {
		_ = json.Unmarshal(v, &m.AutoloadDev)
	}
	if v, ok := raw["config"]; ok {
		_ = json.Unmarshal(v, &m.Config)
	}
	return m, nil
}

// decodeRequirements keeps every key of a require group. Constraints that
// are not strings are kept as their raw JSON text; only the keys matter
// for dependency membership.
func decodeRequirements(data json.RawMessage) map[string]string {
	if len(data) == 0 {
		return nil
	}
	var group map[string]json.RawMessage
	if err := json.Unmarshal(data, &group); err != nil {
		return nil
	}
	out := make(map[string]string, len(group))
	for name, constraint := range group {
		var s string
		if err := json.Unmarshal(constraint, &s); err != nil {
			s = string(constraint)
		}
		out[name] = s
	}
	return out
}
