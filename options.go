package uasset

import "log/slog"

type readConfig struct {
	limits   Limits
	provider Provider
	cache    *ImportCache
	registry *ClassRegistry
	logger   *slog.Logger
}

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{limits: defaultLimits()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.limits = cfg.limits.withDefaults()
	if cfg.cache == nil {
		cfg.cache = NewImportCache()
	}
	if cfg.registry == nil {
		cfg.registry = DefaultClassRegistry
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// inherited returns options that make a foreign package share this
// configuration, including the import cache.
func (c readConfig) inherited() []ReadOption {
	return []ReadOption{
		WithReadLimits(c.limits),
		WithProvider(c.provider),
		WithImportCache(c.cache),
		WithClassRegistry(c.registry),
		WithLogger(c.logger),
	}
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithProvider sets the provider used to load packages referenced by imports.
// Without a provider every import resolves to nil.
func WithProvider(p Provider) ReadOption {
	return func(c *readConfig) { c.provider = p }
}

// WithImportCache shares an import cache between packages. Packages loaded
// while resolving imports always share the cache of the package that
// referenced them.
func WithImportCache(ic *ImportCache) ReadOption {
	return func(c *readConfig) { c.cache = ic }
}

func WithClassRegistry(r *ClassRegistry) ReadOption {
	return func(c *readConfig) { c.registry = r }
}

// WithLogger sets the logger for unresolved references and other soft
// failures. If nil, a discard logger is used.
func WithLogger(l *slog.Logger) ReadOption {
	return func(c *readConfig) { c.logger = l }
}

type writeConfig struct {
	bigEndian       bool
	splitExports    bool
	licenseeVersion int32
	folderName      string
	packageFlags    uint32
}

type WriteOption func(*writeConfig)

// WithBigEndian writes every segment in big-endian byte order.
func WithBigEndian(v bool) WriteOption {
	return func(c *writeConfig) { c.bigEndian = v }
}

// WithSplitExports controls whether export data goes to a separate export
// segment (the default) or follows the header in a single segment.
func WithSplitExports(v bool) WriteOption {
	return func(c *writeConfig) { c.splitExports = v }
}

func WithFolderName(name string) WriteOption {
	return func(c *writeConfig) { c.folderName = name }
}

func WithPackageFlags(flags uint32) WriteOption {
	return func(c *writeConfig) { c.packageFlags = flags }
}

func WithLicenseeVersion(v int32) WriteOption {
	return func(c *writeConfig) { c.licenseeVersion = v }
}
