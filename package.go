package uasset

import (
	"fmt"
	"log/slog"
)

// Package is one parsed asset: its name map, import and export tables, and
// the archive holding export data.
//
// The tables are immutable once Open returns, so a Package may be read from
// several sessions. Export memoization is guarded per export.
type Package struct {
	Name    string
	Summary PackageSummary
	Names   *NameTable
	Imports []*ObjectImport
	Exports []*ObjectExport

	littleEndian bool
	ar           *AssetArchive
	cfg          readConfig
}

// Open parses the header segment of a package and binds its export data and
// bulk payloads. Export objects are deserialized lazily.
//
// When a provider is configured, the package is inserted into the import
// cache under its normalized name before Open returns.
func Open(name string, seg Segments, opts ...ReadOption) (*Package, error) {
	cfg := newReadConfig(opts)
	pkg := &Package{
		Name:         name,
		Names:        NewNameTable(),
		littleEndian: true,
		cfg:          cfg,
	}

	h := NewAssetArchive(seg.Header, pkg, 0, 0)
	sum, err := readSummary(h)
	if err != nil {
		return nil, err
	}
	pkg.Summary = sum
	pkg.littleEndian = h.LittleEndian()
	if err := validateSummary(sum, len(seg.Header), cfg.limits); err != nil {
		return nil, err
	}

	if err := h.Seek(int(sum.NameOffset)); err != nil {
		return nil, err
	}
	for range sum.NameCount {
		e, err := readNameEntry(h)
		if err != nil {
			return nil, err
		}
		pkg.Names.add(e)
	}

	if err := h.Seek(int(sum.ImportOffset)); err != nil {
		return nil, err
	}
	pkg.Imports = make([]*ObjectImport, 0, sum.ImportCount)
	for range sum.ImportCount {
		imp, err := readImport(h)
		if err != nil {
			return nil, err
		}
		pkg.Imports = append(pkg.Imports, imp)
	}

	if err := h.Seek(int(sum.ExportOffset)); err != nil {
		return nil, err
	}
	pkg.Exports = make([]*ObjectExport, 0, sum.ExportCount)
	for range sum.ExportCount {
		exp, err := readExport(h)
		if err != nil {
			return nil, err
		}
		exp.pkg = pkg
		pkg.Exports = append(pkg.Exports, exp)
	}

	if len(seg.Exports) > 0 {
		pkg.ar = NewAssetArchive(seg.Exports, pkg, len(seg.Header), 0)
	} else {
		pkg.ar = NewAssetArchive(seg.Header, pkg, 0, 0)
	}
	exportDataSize := len(seg.Exports)
	if seg.Bulk != nil {
		bulk := NewAssetArchive(seg.Bulk, pkg, len(seg.Header), exportDataSize)
		if err := pkg.ar.Attach(PayloadBulk, bulk); err != nil {
			return nil, err
		}
	}
	if seg.OptionalBulk != nil {
		opt := NewAssetArchive(seg.OptionalBulk, pkg, len(seg.Header), exportDataSize)
		if err := pkg.ar.Attach(PayloadOptionalBulk, opt); err != nil {
			return nil, err
		}
	}

	if err := validatePackage(pkg); err != nil {
		return nil, err
	}
	if cfg.provider != nil {
		cfg.cache.Put(cfg.provider.FixPath(name), pkg)
	}
	return pkg, nil
}

func readSummary(ar *AssetArchive) (PackageSummary, error) {
	var s PackageSummary
	tag, err := ar.ReadUint32()
	if err != nil {
		return s, err
	}
	switch tag {
	case PackageTag:
	case packageTagSwapped:
		ar.SetLittleEndian(!ar.LittleEndian())
		tag = PackageTag
	default:
		return s, fmt.Errorf("%w: 0x%08X", ErrInvalidTag, tag)
	}
	s.Tag = tag

	fields := []*int32{&s.LegacyFileVersion, &s.FileVersionUE4, &s.FileVersionLicensee, &s.TotalHeaderSize}
	for _, f := range fields {
		if *f, err = ar.ReadInt32(); err != nil {
			return s, err
		}
	}
	if s.FolderName, err = ar.ReadFString(); err != nil {
		return s, err
	}
	if s.PackageFlags, err = ar.ReadUint32(); err != nil {
		return s, err
	}
	fields = []*int32{&s.NameCount, &s.NameOffset, &s.ImportCount, &s.ImportOffset, &s.ExportCount, &s.ExportOffset}
	for _, f := range fields {
		if *f, err = ar.ReadInt32(); err != nil {
			return s, err
		}
	}
	if s.BulkDataStartOffset, err = ar.ReadInt64(); err != nil {
		return s, err
	}
	return s, nil
}

func readNameEntry(ar *AssetArchive) (NameEntry, error) {
	var e NameEntry
	var err error
	if e.Text, err = ar.ReadFString(); err != nil {
		return e, err
	}
	if e.NonCaseHash, err = ar.ReadUint16(); err != nil {
		return e, err
	}
	if e.CaseHash, err = ar.ReadUint16(); err != nil {
		return e, err
	}
	return e, nil
}

func readImport(ar *AssetArchive) (*ObjectImport, error) {
	var imp ObjectImport
	var err error
	if imp.ClassPackage, err = ar.ReadName(); err != nil {
		return nil, err
	}
	if imp.ClassName, err = ar.ReadName(); err != nil {
		return nil, err
	}
	if imp.OuterIndex, err = ar.ReadPackageIndex(); err != nil {
		return nil, err
	}
	if imp.ObjectName, err = ar.ReadName(); err != nil {
		return nil, err
	}
	return &imp, nil
}

func readExport(ar *AssetArchive) (*ObjectExport, error) {
	var exp ObjectExport
	var err error
	for _, f := range []*PackageIndex{&exp.ClassIndex, &exp.SuperIndex, &exp.TemplateIndex, &exp.OuterIndex} {
		if *f, err = ar.ReadPackageIndex(); err != nil {
			return nil, err
		}
	}
	if exp.ObjectName, err = ar.ReadName(); err != nil {
		return nil, err
	}
	if exp.ObjectFlags, err = ar.ReadUint32(); err != nil {
		return nil, err
	}
	if exp.SerialSize, err = ar.ReadInt64(); err != nil {
		return nil, err
	}
	if exp.SerialOffset, err = ar.ReadInt64(); err != nil {
		return nil, err
	}
	return &exp, nil
}

func (p *Package) LittleEndian() bool { return p.littleEndian }

// Archive returns a fresh archive over the export data of p.
func (p *Package) Archive() *AssetArchive { return p.ar.Clone() }

func (p *Package) Provider() Provider       { return p.cfg.provider }
func (p *Package) ImportCache() *ImportCache { return p.cfg.cache }

func (p *Package) logger() *slog.Logger { return p.cfg.logger }

// ResolveIndex maps idx onto the import and export tables of p.
func (p *Package) ResolveIndex(idx PackageIndex) (Resolved, error) {
	return ResolveIndex(idx, p.Imports, p.Exports)
}

// IndexName returns the object name idx refers to.
func (p *Package) IndexName(idx PackageIndex) (Name, bool) {
	r, err := p.ResolveIndex(idx)
	if err != nil {
		return Name{}, false
	}
	switch r.Kind {
	case IndexImport:
		return r.Import.ObjectName, true
	case IndexExport:
		return r.Export.ObjectName, true
	}
	return Name{}, false
}

// FindExport returns the first export whose class and object name match.
func (p *Package) FindExport(className, objectName string) *ObjectExport {
	for _, e := range p.Exports {
		if e.ClassName() == className && e.ObjectName.Text() == objectName {
			return e
		}
	}
	return nil
}

// ImportPackagePath walks the outer chain of imp to the package-level import
// and returns its name. It reports false when imp is itself a package, when
// the chain leaves the import table, or when it does not terminate.
func (p *Package) ImportPackagePath(imp *ObjectImport) (string, bool) {
	cur := imp
	for range len(p.Imports) + 1 {
		if cur.OuterIndex.IsNull() {
			if cur == imp {
				return "", false
			}
			return cur.ObjectName.Text(), true
		}
		if !cur.OuterIndex.IsImport() {
			return "", false
		}
		r, err := p.ResolveIndex(cur.OuterIndex)
		if err != nil {
			return "", false
		}
		cur = r.Import
	}
	return "", false
}
