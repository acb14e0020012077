package classify

import (
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/leapstack-labs/notransitive/pkg/manifest"
)

// Sentinel marks a path that lives in Composer's dependency storage.
// It must equal manifest.MarkerPrefix.
const Sentinel = manifest.MarkerPrefix

// packagePattern captures the vendor and package segments after Sentinel.
var packagePattern = regexp.MustCompile(`vendor/composer/\.\./([^/]+/[^/]+)`)

// Classifier answers whether a class definition file belongs to a primary dependency.
// It is safe for concurrent use.
type Classifier struct {
	cache  *DependencyCache
	logger *slog.Logger
}

// Option configures a Classifier.
type Option func(*options)

type options struct {
	load   manifest.Loader
	logger *slog.Logger
}

// WithLoader replaces the manifest loader, e.g. to count loads in tests.
func WithLoader(load manifest.Loader) Option {
	return func(o *options) { o.load = load }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a Classifier reading the manifest at manifestPath.
func New(manifestPath string, opts ...Option) *Classifier {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &Classifier{
		cache:  NewDependencyCache(manifestPath, o.load, o.logger),
		logger: o.logger,
	}
}

// NewForWorkingDir creates a Classifier for the composer.json in the
// process working directory, which is treated as the project root.
func NewForWorkingDir(opts ...Option) *Classifier {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	return New(manifest.PathIn(root), opts...)
}

// Cache exposes the memoized dependency set.
func (c *Classifier) Cache() *DependencyCache {
	return c.cache
}

// IsPrimary reports whether the file at path belongs to the project itself
// or to a package declared in the manifest. It returns false only when the
// path lies under Sentinel, names a package, and that package is not declared.
func (c *Classifier) IsPrimary(path string) bool {
	path = NormalizePath(path)

	// Project-owned files never pass through the dependency storage root,
	// so the manifest is not needed for them.
	if !strings.Contains(path, Sentinel) {
		return true
	}

	deps := c.cache.Get()

	id, ok := ExtractPackage(path)
	if !ok {
		c.logger.Debug("unrecognized dependency path, treating as primary", slog.String("path", path))
		return true
	}

	return deps.Has(id)
}

// ExtractPackage returns the normalized identifier of the package that
// owns path, or false when path does not have the expected shape.
func ExtractPackage(path string) (string, bool) {
	m := packagePattern.FindStringSubmatch(NormalizePath(path))
	if m == nil {
		return "", false
	}
	return manifest.Identifier(m[1]), true
}

// NormalizePath rewrites Windows separators so matching sees "/" only.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
