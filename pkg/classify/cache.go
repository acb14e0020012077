package classify

import (
	"log/slog"
	"sync"

	"github.com/leapstack-labs/notransitive/pkg/manifest"
)

// DependencyCache memoizes the manifest-derived dependency set for the
// lifetime of one analysis run. The set is computed at most once, on the
// first Get, and never invalidated; Reset exists for test isolation.
type DependencyCache struct {
	manifestPath string
	load         manifest.Loader
	logger       *slog.Logger

	mu     sync.Mutex
	set    manifest.DependencySet
	loaded bool
}

// NewDependencyCache creates a cache that loads manifestPath with load on first use.
func NewDependencyCache(manifestPath string, load manifest.Loader, logger *slog.Logger) *DependencyCache {
	if load == nil {
		load = manifest.LoadPrimaryDependencies
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DependencyCache{
		manifestPath: manifestPath,
		load:         load,
		logger:       logger,
	}
}

// Get returns the dependency set, computing it on the first call.
// The empty set is memoized like any other result.
func (c *DependencyCache) Get() manifest.DependencySet {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		c.set = c.load(c.manifestPath)
		c.loaded = true
		c.logger.Debug("loaded primary dependencies",
			slog.String("manifest", c.manifestPath),
			slog.Int("count", c.set.Len()))
	}
	return c.set
}

// Loaded reports whether the set has been computed.
func (c *DependencyCache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Prime stores set as if it had been loaded from the manifest.
func (c *DependencyCache) Prime(set manifest.DependencySet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set = set
	c.loaded = true
}

// Reset forgets the memoized set so the next Get reloads the manifest.
func (c *DependencyCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set = manifest.DependencySet{}
	c.loaded = false
}

// ManifestPath returns the manifest this cache reads.
func (c *DependencyCache) ManifestPath() string {
	return c.manifestPath
}
