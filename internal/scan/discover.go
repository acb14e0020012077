package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"vendor":       true,
	".git":         true,
	"node_modules": true,
}

// Discover returns the PHP files under opts.Paths, relative to opts.Root and
// slash separated, sorted and deduplicated.
func Discover(opts Options) ([]string, error) {
	opts = opts.withDefaults()

	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(abs string) {
		rel := relativeTo(opts.Root, abs)
		if seen[rel] || excluded(opts.Exclude, rel) {
			return
		}
		seen[rel] = true
		files = append(files, rel)
	}

	for _, p := range opts.Paths {
		start := p
		if !filepath.IsAbs(start) {
			start = filepath.Join(opts.Root, start)
		}

		info, err := os.Stat(start)
		if err != nil {
			return nil, fmt.Errorf("scan path %s: %w", p, err)
		}
		if !info.IsDir() {
			if isPHP(start) {
				add(start)
			}
			continue
		}

		err = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != start && (skipDirs[d.Name()] || excluded(opts.Exclude, relativeTo(opts.Root, path))) {
					return filepath.SkipDir
				}
				return nil
			}
			if isPHP(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func isPHP(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".php")
}

func excluded(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// relativeTo returns path relative to root when it lies inside it,
// otherwise the cleaned path. Either way the result is slash separated.
func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(filepath.Clean(path))
}
