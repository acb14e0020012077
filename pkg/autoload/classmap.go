package autoload

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// classmapExtensions are the file types Composer scans for classmap entries.
var classmapExtensions = map[string]bool{".php": true, ".inc": true, ".hh": true}

var (
	namespaceDecl = regexp.MustCompile(`(?mi)^[ \t]*namespace[ \t]+([\pL_][\pL\pN_\\]*)[ \t]*[;{]`)
	classDecl     = regexp.MustCompile(`(?mi)^[ \t]*(?:(?:abstract|final|readonly)[ \t]+)*(?:class|interface|trait|enum)[ \t]+([\pL_][\pL\pN_]*)`)
)

// classmapSource is one classmap entry: a file or a directory to scan.
type classmapSource struct {
	path string // slash separated, never cleaned
	pkg  string
}

func (ix *Index) addClassmap(entries []string, base, pkg string) {
	for _, e := range entries {
		ix.classmapSources = append(ix.classmapSources, classmapSource{path: joinDir(base, e), pkg: pkg})
	}
}

// classmapLookup returns the file declaring name in a classmap source. The
// classmap is built on first use. Callers hold ix.mu.
func (ix *Index) classmapLookup(name string) (string, bool) {
	if ix.classmap == nil {
		ix.classmap = ix.buildClassmap()
	}
	file, ok := ix.classmap[strings.ToLower(name)]
	return file, ok
}

// buildClassmap scans every classmap source. The first declaration of a
// class wins; later ones are logged as ambiguous.
func (ix *Index) buildClassmap() map[string]string {
	classes := make(map[string]string)
	for _, src := range ix.classmapSources {
		for _, file := range classmapFiles(src.path) {
			data, err := os.ReadFile(filepath.FromSlash(file)) //nolint:gosec // G304: path comes from Composer metadata
			if err != nil {
				ix.logger.Debug("skip classmap file", slog.String("file", file), slog.Any("error", err))
				continue
			}
			for _, class := range declaredClasses(string(data)) {
				key := strings.ToLower(class)
				if prev, ok := classes[key]; ok {
					ix.logger.Debug("ambiguous class in classmap",
						slog.String("class", class), slog.String("used", prev), slog.String("ignored", file))
					continue
				}
				classes[key] = file
			}
		}
	}
	ix.logger.Debug("classmap built", slog.Int("sources", len(ix.classmapSources)), slog.Int("classes", len(classes)))
	return classes
}

// classmapFiles lists the PHP files of a classmap entry in a stable order.
// Paths keep the entry's uncleaned prefix.
func classmapFiles(entry string) []string {
	info, err := os.Stat(filepath.FromSlash(entry))
	if err != nil {
		return nil
	}
	if !info.IsDir() {
		return []string{entry}
	}

	var files []string
	_ = filepath.WalkDir(filepath.FromSlash(entry), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !classmapExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, relErr := filepath.Rel(filepath.FromSlash(entry), path)
		if relErr != nil {
			return nil
		}
		files = append(files, entry+"/"+filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(files)
	return files
}

// declaredClasses returns the fully qualified classes, interfaces, traits
// and enums declared in PHP source, in order.
func declaredClasses(source string) []string {
	namespaces := namespaceDecl.FindAllStringSubmatchIndex(source, -1)

	var classes []string
	for _, m := range classDecl.FindAllStringSubmatchIndex(source, -1) {
		name := source[m[2]:m[3]]
		ns := ""
		for _, n := range namespaces {
			if n[0] > m[0] {
				break
			}
			ns = source[n[2]:n[3]]
		}
		if ns != "" {
			name = ns + `\` + name
		}
		classes = append(classes, name)
	}
	return classes
}
