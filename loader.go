package uasset

import (
	"fmt"
	"log/slog"
)

// Provider locates and opens packages referenced by imports.
//
// LoadPackage must forward opts to Open so that the loaded package shares
// the import cache and configuration of the package that referenced it.
// It returns an error wrapping ErrNotFound when path does not exist.
type Provider interface {
	FixPath(path string) string
	LoadPackage(path string, opts ...ReadOption) (*Package, error)
}

// LoadObject returns the object idx refers to. Null yields nil. An export is
// deserialized on first access and memoized. An import that cannot be
// resolved yields nil and a logged warning; only an out-of-range index or a
// corrupt export body is returned as an error.
func (a *AssetArchive) LoadObject(idx PackageIndex) (Object, error) {
	if a.pkg == nil {
		return nil, a.fail(fmt.Sprintf("load %s without a package", idx), ErrUnresolved)
	}
	r, err := a.pkg.ResolveIndex(idx)
	if err != nil {
		return nil, fmt.Errorf("load %s in %s: %w", idx, a.pkg.Name, err)
	}
	switch r.Kind {
	case IndexExport:
		return a.LoadExport(r.Export)
	case IndexImport:
		return a.LoadImport(r.Import), nil
	}
	return nil, nil
}

// LoadExport returns the memoized object of e.
func (a *AssetArchive) LoadExport(e *ObjectExport) (Object, error) {
	if e == nil {
		return nil, nil
	}
	return e.Object()
}

// LoadImport finds the export imp refers to in its owning package. Every
// failure is soft: it is logged and nil is returned.
func (a *AssetArchive) LoadImport(imp *ObjectImport) Object {
	if imp == nil || a.pkg == nil {
		return nil
	}
	log := a.pkg.logger().With(
		slog.String("package", a.pkg.Name),
		slog.String("import", imp.ObjectName.Text()),
		slog.String("class", imp.ClassName.Text()),
	)
	if a.pkg.cfg.provider == nil {
		log.Warn("import not resolved: no provider", slog.Any("err", ErrUnresolved))
		return nil
	}
	path, ok := a.pkg.ImportPackagePath(imp)
	if !ok {
		log.Warn("import not resolved: outer chain does not reach a package", slog.Any("err", ErrUnresolved))
		return nil
	}
	pkg, err := a.LoadPackage(path)
	if err != nil {
		log.Warn("failed to load referenced import", slog.String("path", path), slog.Any("err", err))
		return nil
	}
	e := pkg.FindExport(imp.ClassName.Text(), imp.ObjectName.Text())
	if e == nil {
		log.Warn("couldn't resolve package index in external package", slog.String("path", path), slog.Any("err", ErrUnresolved))
		return nil
	}
	obj, err := e.Object()
	if err != nil {
		log.Warn("failed to deserialize referenced export", slog.String("path", path), slog.Any("err", err))
		return nil
	}
	return obj
}

// LoadPackage returns the package at path, consulting the import cache
// before asking the provider.
func (a *AssetArchive) LoadPackage(path string) (*Package, error) {
	if a.pkg == nil || a.pkg.cfg.provider == nil {
		return nil, fmt.Errorf("%w: no provider to load %q", ErrUnresolved, path)
	}
	cfg := a.pkg.cfg
	key := cfg.provider.FixPath(path)
	if pkg, ok := cfg.cache.Get(key); ok {
		return pkg, nil
	}
	pkg, err := cfg.provider.LoadPackage(path, cfg.inherited()...)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return cfg.cache.Put(key, pkg), nil
}

// ImportCache returns the cache shared by this archive session.
func (a *AssetArchive) ImportCache() *ImportCache {
	if a.pkg == nil {
		return nil
	}
	return a.pkg.cfg.cache
}

// ClearImportCache drops every package loaded through this session.
func (a *AssetArchive) ClearImportCache() {
	if c := a.ImportCache(); c != nil {
		c.Clear()
	}
}

// LoadObjectAs is LoadObject followed by a type check. A resolved object of
// another type yields the zero value without error.
func LoadObjectAs[T Object](a *AssetArchive, idx PackageIndex) (T, error) {
	var zero T
	obj, err := a.LoadObject(idx)
	if err != nil || obj == nil {
		return zero, err
	}
	t, ok := obj.(T)
	if !ok {
		return zero, nil
	}
	return t, nil
}

// LoadImportAs is LoadImport followed by a type check.
func LoadImportAs[T Object](a *AssetArchive, imp *ObjectImport) T {
	t, _ := a.LoadImport(imp).(T)
	return t
}

// LoadExportAs is LoadExport followed by a type check.
func LoadExportAs[T Object](a *AssetArchive, e *ObjectExport) (T, error) {
	var zero T
	obj, err := a.LoadExport(e)
	if err != nil || obj == nil {
		return zero, err
	}
	t, ok := obj.(T)
	if !ok {
		return zero, nil
	}
	return t, nil
}
