package uasset

import (
	"slices"
	"sync"
)

// ImportCache maps normalized package paths to loaded packages.
//
// One cache is shared by an archive, its clones and every package loaded
// while resolving their imports. A package is inserted as soon as its header
// is parsed, before any of its exports are deserialized, so cyclic imports
// find the package already present instead of loading it again.
type ImportCache struct {
	mu       sync.Mutex
	packages map[string]*Package
}

func NewImportCache() *ImportCache {
	return &ImportCache{packages: make(map[string]*Package)}
}

func (c *ImportCache) Get(path string) (*Package, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.packages[path]
	return p, ok
}

// Put stores pkg under path unless a package is already cached there, and
// returns the cached package.
func (c *ImportCache) Put(path string, pkg *Package) *Package {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.packages[path]; ok {
		return p
	}
	c.packages[path] = pkg
	return pkg
}

func (c *ImportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.packages)
}

// Paths returns the cached paths in sorted order.
func (c *ImportCache) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.packages))
	for p := range c.packages {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Clear drops every cached package.
func (c *ImportCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.packages)
}
