package uasset

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
)

var packageExtensions = []string{".uasset", ".umap"}

// FSProvider serves packages from an fs.FS. Files are indexed once by their
// case-folded path without extension, so lookups are case-insensitive.
// Segment files may be stored compressed with a codec suffix, for example
// "Hero.uexp.zst".
//
// FSProvider is safe for concurrent use. Concurrent reads of the same
// package are de-duplicated.
type FSProvider struct {
	fsys   fs.FS
	game   string
	limits Limits
	logger *slog.Logger
	files  map[string]map[string]string // folded path -> extension -> file name
	reads  singleflight.Group
}

type ProviderOption func(*FSProvider)

// WithGameName maps "/Game/" paths to "<name>/Content/".
func WithGameName(name string) ProviderOption {
	return func(p *FSProvider) { p.game = name }
}

func WithProviderLimits(l Limits) ProviderOption {
	return func(p *FSProvider) { p.limits = l }
}

func WithProviderLogger(l *slog.Logger) ProviderOption {
	return func(p *FSProvider) { p.logger = l }
}

// NewFSProvider walks fsys and indexes every package segment file.
func NewFSProvider(fsys fs.FS, opts ...ProviderOption) (*FSProvider, error) {
	p := &FSProvider{
		fsys:   fsys,
		limits: defaultLimits(),
		files:  make(map[string]map[string]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.limits = p.limits.withDefaults()
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		stored, _ := SplitCompressionSuffix(name)
		ext := strings.ToLower(path.Ext(stored))
		if !isSegmentExt(ext) {
			return nil
		}
		key := foldPath(strings.TrimSuffix(stored, path.Ext(stored)))
		m := p.files[key]
		if m == nil {
			m = make(map[string]string)
			p.files[key] = m
		}
		if prev, ok := m[ext]; ok {
			p.logger.Warn("duplicate package segment", slog.String("kept", prev), slog.String("ignored", name))
			return nil
		}
		m[ext] = name
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index package files: %w", err)
	}
	return p, nil
}

func isSegmentExt(ext string) bool {
	switch ext {
	case ".uasset", ".umap", ".uexp", ".ubulk", ".uptnl":
		return true
	}
	return false
}

// FixPath normalizes a package path into the key used for lookups and
// caching: slashes are forward, the leading slash and any package extension
// are dropped, "/Game/" is mapped to the game content directory and the
// result is case-folded.
func (p *FSProvider) FixPath(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\\", "/")
	s = strings.TrimPrefix(s, "/")
	if p.game != "" {
		if rest, ok := cutPrefixFold(s, "Game/"); ok {
			s = p.game + "/Content/" + rest
		}
	}
	if dot := strings.LastIndexByte(s, '.'); dot > strings.LastIndexByte(s, '/') {
		s = s[:dot]
	}
	return foldPath(s)
}

// foldPath case-folds s. A Caser keeps state, so one is made per call.
func foldPath(s string) string {
	return cases.Fold().String(s)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// Paths returns the normalized paths of every indexed package.
func (p *FSProvider) Paths() []string {
	var out []string
	for k, m := range p.files {
		if packageFile(m) != "" {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

func packageFile(m map[string]string) string {
	for _, ext := range packageExtensions {
		if f, ok := m[ext]; ok {
			return f
		}
	}
	return ""
}

// Segments reads every segment file of the package at path.
func (p *FSProvider) Segments(s string) (Segments, error) {
	key := p.FixPath(s)
	v, err, _ := p.reads.Do(key, func() (any, error) {
		return p.readSegments(key)
	})
	if err != nil {
		return Segments{}, err
	}
	seg, _ := v.(Segments)
	return seg, nil
}

func (p *FSProvider) readSegments(key string) (Segments, error) {
	m, ok := p.files[key]
	if !ok || packageFile(m) == "" {
		return Segments{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	var seg Segments
	var err error
	if seg.Header, err = p.readFile(packageFile(m)); err != nil {
		return Segments{}, err
	}
	optional := []struct {
		kind PayloadType
		dst  *[]byte
	}{
		{PayloadExports, &seg.Exports},
		{PayloadBulk, &seg.Bulk},
		{PayloadOptionalBulk, &seg.OptionalBulk},
	}
	for _, o := range optional {
		name, ok := m[o.kind.Extension()]
		if !ok {
			continue
		}
		if *o.dst, err = p.readFile(name); err != nil {
			return Segments{}, err
		}
	}
	return seg, nil
}

func (p *FSProvider) readFile(name string) ([]byte, error) {
	b, err := fs.ReadFile(p.fsys, name)
	if err != nil {
		return nil, err
	}
	_, comp := SplitCompressionSuffix(name)
	out, err := DecompressSegment(comp, b, p.limits.MaxSegmentUncompressed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// LoadPackage reads and opens the package at path.
func (p *FSProvider) LoadPackage(s string, opts ...ReadOption) (*Package, error) {
	seg, err := p.Segments(s)
	if err != nil {
		return nil, err
	}
	opts = append([]ReadOption{WithProvider(p), WithLogger(p.logger), WithReadLimits(p.limits)}, opts...)
	return Open(s, seg, opts...)
}
