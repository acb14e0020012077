package autoload

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/notransitive/pkg/manifest"
)

type mappingKind int

const (
	psr4 mappingKind = iota
	psr0
)

// mapping is one namespace prefix to directory entry.
type mapping struct {
	kind   mappingKind
	prefix string
	dir    string // slash separated, never cleaned
	pkg    string // owning package; empty for the project itself
}

type resolution struct {
	file  string
	known bool
}

// Index resolves class names to defining files. It is safe for concurrent use.
type Index struct {
	root      string
	vendorDir string
	mappings  []mapping
	packages  []InstalledPackage
	logger    *slog.Logger

	classmapSources []classmapSource

	mu       sync.Mutex
	cache    map[string]resolution
	classmap map[string]string // lowercased class -> file; nil until first scan
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger used while loading.
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) { ix.logger = logger }
}

// Load builds an index for the project rooted at root. Missing or broken
// Composer metadata is logged and leaves the index with fewer known classes;
// it never fails.
func Load(root string, opts ...Option) *Index {
	ix := &Index{
		root:   strings.TrimSuffix(filepath.ToSlash(root), "/"),
		logger: slog.New(slog.DiscardHandler),
		cache:  make(map[string]resolution),
	}
	for _, opt := range opts {
		opt(ix)
	}

	m, err := manifest.Load(manifest.PathIn(root))
	if err != nil {
		ix.logger.Debug("project manifest unavailable", slog.String("root", root), slog.Any("error", err))
		m = &manifest.Manifest{}
	}

	ix.vendorDir = ix.resolveVendorDir(m.Config.VendorDir)
	ix.addAutoload(m.Autoload, ix.root, "")
	ix.addAutoload(m.AutoloadDev, ix.root, "")

	installedPath := ix.vendorDir + "/composer/installed.json"
	pkgs, err := ReadInstalled(installedPath)
	if err != nil {
		ix.logger.Info("no installed packages found; only project classes resolve",
			slog.String("path", installedPath), slog.Any("error", err))
	}
	ix.packages = pkgs
	for _, pkg := range pkgs {
		ix.addAutoload(pkg.Autoload, ix.packageBase(pkg), pkg.Name)
	}

	// Longest prefix wins, matching Composer's lookup order.
	sort.SliceStable(ix.mappings, func(i, j int) bool {
		a, b := ix.mappings[i], ix.mappings[j]
		if len(a.prefix) != len(b.prefix) {
			return len(a.prefix) > len(b.prefix)
		}
		if (a.pkg == "") != (b.pkg == "") {
			return a.pkg == ""
		}
		if a.prefix != b.prefix {
			return a.prefix < b.prefix
		}
		return a.dir < b.dir
	})

	ix.logger.Debug("autoload index built",
		slog.Int("packages", len(pkgs)),
		slog.Int("mappings", len(ix.mappings)),
		slog.Int("classmap_sources", len(ix.classmapSources)))
	return ix
}

func (ix *Index) resolveVendorDir(configured string) string {
	if configured == "" {
		configured = "vendor"
	}
	configured = strings.TrimSuffix(filepath.ToSlash(configured), "/")
	if filepath.IsAbs(configured) {
		return configured
	}
	return ix.root + "/" + configured
}

// packageBase mirrors Composer's $vendorDir . '/composer/' . install-path.
func (ix *Index) packageBase(pkg InstalledPackage) string {
	installPath := filepath.ToSlash(pkg.InstallPath)
	if installPath == "" {
		installPath = "../" + pkg.Name
	}
	if filepath.IsAbs(installPath) {
		return strings.TrimSuffix(installPath, "/")
	}
	return ix.vendorDir + "/composer/" + strings.TrimSuffix(installPath, "/")
}

func (ix *Index) addAutoload(a manifest.Autoload, base, pkg string) {
	for prefix, dirs := range a.PSR4 {
		for _, d := range dirs {
			ix.mappings = append(ix.mappings, mapping{kind: psr4, prefix: prefix, dir: joinDir(base, d), pkg: pkg})
		}
	}
	for prefix, dirs := range a.PSR0 {
		for _, d := range dirs {
			ix.mappings = append(ix.mappings, mapping{kind: psr0, prefix: prefix, dir: joinDir(base, d), pkg: pkg})
		}
	}
	ix.addClassmap(a.Classmap, base, pkg)
}

func joinDir(base, dir string) string {
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	if dir == "" || dir == "." {
		return base
	}
	return base + "/" + dir
}

// HasClass reports whether name is a built-in class or resolves to a file.
func (ix *Index) HasClass(name string) bool {
	return ix.resolve(name).known
}

// DefiningFile returns the file that defines name. Built-in classes are
// known but have no file.
func (ix *Index) DefiningFile(name string) (string, bool) {
	r := ix.resolve(name)
	return r.file, r.file != ""
}

// Packages returns the packages read from installed.json.
func (ix *Index) Packages() []InstalledPackage {
	return ix.packages
}

func (ix *Index) resolve(name string) resolution {
	name = strings.TrimPrefix(strings.TrimSpace(name), `\`)
	if name == "" {
		return resolution{}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if r, ok := ix.cache[name]; ok {
		return r
	}

	r := ix.lookup(name)
	ix.cache[name] = r
	return r
}

func (ix *Index) lookup(name string) resolution {
	if IsBuiltin(name) {
		return resolution{known: true}
	}
	// Composer consults the classmap before the PSR mappings.
	if len(ix.classmapSources) > 0 {
		if file, ok := ix.classmapLookup(name); ok {
			return resolution{file: file, known: true}
		}
	}
	for _, m := range ix.mappings {
		if !strings.HasPrefix(name, m.prefix) {
			continue
		}
		var candidate string
		switch m.kind {
		case psr4:
			candidate = m.dir + "/" + strings.ReplaceAll(name[len(m.prefix):], `\`, "/") + ".php"
		case psr0:
			candidate = m.dir + "/" + psr0Path(name)
		}
		if fileExists(candidate) {
			return resolution{file: candidate, known: true}
		}
	}
	return resolution{}
}

// psr0Path maps Vendor\Pkg\Some_Class to Vendor/Pkg/Some/Class.php.
func psr0Path(name string) string {
	ns, class := "", name
	if idx := strings.LastIndex(name, `\`); idx >= 0 {
		ns, class = name[:idx+1], name[idx+1:]
	}
	return strings.ReplaceAll(ns, `\`, "/") + strings.ReplaceAll(class, "_", "/") + ".php"
}

func fileExists(path string) bool {
	info, err := os.Stat(filepath.FromSlash(path))
	return err == nil && !info.IsDir()
}
