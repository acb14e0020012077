// Package baseline records known diagnostics so that an existing project can
// adopt the linter and fail only on new violations.
package baseline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/notransitive/pkg/lint"
)

// DefaultFileName is the baseline file looked up in the project root.
const DefaultFileName = "notransitive-baseline.yaml"

// Version is the current file format version.
const Version = 1

// Entry is one suppressed diagnostic, counted per file.
type Entry struct {
	Rule    string `yaml:"rule" json:"rule"`
	Path    string `yaml:"path" json:"path"`
	Message string `yaml:"message" json:"message"`
	Count   int    `yaml:"count" json:"count"`
}

// Baseline is the on-disk set of suppressed diagnostics.
type Baseline struct {
	Version int     `yaml:"version" json:"version"`
	Entries []Entry `yaml:"entries" json:"entries"`
}

type key struct {
	rule, path, message string
}

// keyOf identifies a diagnostic independently of where the project is
// checked out: absolute paths under root inside the message become relative.
func keyOf(d lint.Diagnostic, root string) key {
	return key{d.RuleID, d.FilePath, relativeMessage(d.Message, root)}
}

func relativeMessage(msg, root string) string {
	prefix := strings.TrimSuffix(filepath.ToSlash(root), "/")
	if prefix == "" {
		return msg
	}
	return strings.ReplaceAll(msg, prefix+"/", "")
}

// Load reads a baseline file. A missing file yields an empty baseline.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from configuration
	if errors.Is(err, os.ErrNotExist) {
		return &Baseline{Version: Version}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}

	var b Baseline
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	if b.Version > Version {
		return nil, fmt.Errorf("baseline %s: unsupported version %d", path, b.Version)
	}
	return &b, nil
}

// FromDiagnostics builds a baseline covering every given diagnostic.
// Messages are recorded relative to root, the directory Composer metadata
// was loaded from.
func FromDiagnostics(diags []lint.Diagnostic, root string) *Baseline {
	counts := make(map[key]int)
	for _, d := range diags {
		counts[keyOf(d, root)]++
	}

	b := &Baseline{Version: Version, Entries: make([]Entry, 0, len(counts))}
	for k, n := range counts {
		b.Entries = append(b.Entries, Entry{Rule: k.rule, Path: k.path, Message: k.message, Count: n})
	}
	sort.Slice(b.Entries, func(i, j int) bool {
		a, c := b.Entries[i], b.Entries[j]
		if a.Path != c.Path {
			return a.Path < c.Path
		}
		if a.Rule != c.Rule {
			return a.Rule < c.Rule
		}
		return a.Message < c.Message
	})
	return b
}

// Save writes the baseline as YAML.
func (b *Baseline) Save(path string) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write baseline: %w", err)
	}
	return nil
}

// Len returns the number of suppressed occurrences.
func (b *Baseline) Len() int {
	n := 0
	for _, e := range b.Entries {
		n += e.Count
	}
	return n
}

// Filter removes baselined occurrences from diags. Each entry suppresses at
// most Count matching diagnostics; extra occurrences are kept. Messages are
// compared relative to root, as FromDiagnostics records them.
func (b *Baseline) Filter(diags []lint.Diagnostic, root string) (kept []lint.Diagnostic, suppressed int) {
	if b == nil || len(b.Entries) == 0 {
		return diags, 0
	}

	remaining := make(map[key]int, len(b.Entries))
	for _, e := range b.Entries {
		remaining[key{e.Rule, e.Path, e.Message}] += e.Count
	}

	for _, d := range diags {
		k := keyOf(d, root)
		if remaining[k] > 0 {
			remaining[k]--
			suppressed++
			continue
		}
		kept = append(kept, d)
	}
	return kept, suppressed
}
