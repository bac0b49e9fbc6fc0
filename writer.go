package uasset

import (
	"fmt"
	"strconv"
	"strings"
)

// ArchiveWriter serializes export bodies. Names written through it are
// interned into the package name map being built.
type ArchiveWriter struct {
	Cursor

	names    *NameTable
	bulk     *Cursor
	optional *Cursor
	tail     *Cursor
}

func newArchiveWriter(b *Builder) *ArchiveWriter {
	return &ArchiveWriter{
		Cursor:   Cursor{littleEndian: !b.cfg.bigEndian},
		names:    b.names,
		bulk:     b.bulk,
		optional: b.optional,
		tail:     b.tail,
	}
}

// WriteName interns s and writes its (index, number) pair. A trailing
// "_<n>" suffix becomes instance number n+1.
func (w *ArchiveWriter) WriteName(s string) {
	base, number := splitNameNumber(s)
	w.WriteNamePair(w.names.Intern(base), number)
}

// WriteNamePair writes a raw (index, number) pair.
func (w *ArchiveWriter) WriteNamePair(index, number int32) {
	w.WriteInt32(index)
	w.WriteInt32(number)
}

// splitNameNumber splits "Foo_3" into ("Foo", 4). Suffixes with a leading
// zero stay part of the base.
func splitNameNumber(s string) (string, int32) {
	i := strings.LastIndexByte(s, '_')
	if i <= 0 || i == len(s)-1 {
		return s, 0
	}
	digits := s[i+1:]
	if len(digits) > 1 && digits[0] == '0' {
		return s, 0
	}
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil || n < 0 || n >= 1<<31-1 {
		return s, 0
	}
	return s[:i], int32(n + 1)
}

// Builder assembles the segments of a package.
type Builder struct {
	names    *NameTable
	imports  []builderImport
	exports  []builderExport
	bulk     *Cursor
	optional *Cursor
	tail     *Cursor
	cfg      writeConfig
}

type builderImport struct {
	classPackage string
	className    string
	outer        PackageIndex
	objectName   string
}

type builderExport struct {
	objectName string
	class      PackageIndex
	super      PackageIndex
	template   PackageIndex
	outer      PackageIndex
	flags      uint32
	body       Serializer
}

func NewBuilder(opts ...WriteOption) *Builder {
	cfg := writeConfig{splitExports: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	le := !cfg.bigEndian
	return &Builder{
		names:    NewNameTable(),
		bulk:     &Cursor{littleEndian: le},
		optional: &Cursor{littleEndian: le},
		tail:     &Cursor{littleEndian: le},
		cfg:      cfg,
	}
}

func (b *Builder) Names() *NameTable { return b.names }

// AddImport appends an import and returns its index.
func (b *Builder) AddImport(classPackage, className string, outer PackageIndex, objectName string) PackageIndex {
	b.imports = append(b.imports, builderImport{classPackage, className, outer, objectName})
	return ImportIndex(len(b.imports) - 1)
}

// AddPackageImport appends the package-level import for path.
func (b *Builder) AddPackageImport(path string) PackageIndex {
	return b.AddImport("/Script/CoreUObject", "Package", 0, path)
}

// AddClassImport appends a native class import, e.g. ("/Script/Engine", "Texture2D").
func (b *Builder) AddClassImport(scriptPackage, className string) PackageIndex {
	outer := b.AddPackageImport(scriptPackage)
	return b.AddImport("/Script/CoreUObject", "Class", outer, className)
}

// AddExport appends an export whose body is written by body.
func (b *Builder) AddExport(objectName string, class PackageIndex, body Serializer) PackageIndex {
	b.exports = append(b.exports, builderExport{objectName: objectName, class: class, body: body})
	return ExportIndex(len(b.exports) - 1)
}

// SetExportOuter changes the outer of a previously added export.
func (b *Builder) SetExportOuter(export, outer PackageIndex) {
	b.exports[export.Slot()].outer = outer
}

func (b *Builder) internName(s string) {
	base, _ := splitNameNumber(s)
	b.names.Intern(base)
}

func (b *Builder) checkIndex(idx PackageIndex) error {
	if (idx.IsImport() && idx.Slot() >= len(b.imports)) || (idx.IsExport() && idx.Slot() >= len(b.exports)) {
		return fmt.Errorf("%w: %s", ErrIndexOutOfRange, idx)
	}
	return nil
}

// Build serializes every export and writes the header. Serial offsets are
// patched in once the header size is known.
func (b *Builder) Build() (Segments, error) {
	for _, imp := range b.imports {
		if err := b.checkIndex(imp.outer); err != nil {
			return Segments{}, fmt.Errorf("import %s outer: %w", imp.objectName, err)
		}
	}
	for _, e := range b.exports {
		for _, idx := range []PackageIndex{e.class, e.super, e.template, e.outer} {
			if err := b.checkIndex(idx); err != nil {
				return Segments{}, fmt.Errorf("export %s: %w", e.objectName, err)
			}
		}
	}

	le := !b.cfg.bigEndian
	data := &Cursor{littleEndian: le}
	offsets := make([]int, len(b.exports))
	sizes := make([]int, len(b.exports))
	for i, e := range b.exports {
		w := newArchiveWriter(b)
		if e.body != nil {
			if err := e.body.Serialize(w); err != nil {
				return Segments{}, fmt.Errorf("serialize export %s: %w", e.objectName, err)
			}
		}
		offsets[i] = data.Size()
		sizes[i] = w.Size()
		data.WriteBytes(w.Bytes())
	}
	bulkStart := data.Size()
	data.WriteBytes(b.tail.Bytes())

	// Every table name must be interned before the name map is written.
	for _, imp := range b.imports {
		b.internName(imp.classPackage)
		b.internName(imp.className)
		b.internName(imp.objectName)
	}
	for _, e := range b.exports {
		b.internName(e.objectName)
	}

	hw := &ArchiveWriter{Cursor: Cursor{littleEndian: le}, names: b.names}

	hw.WriteUint32(PackageTag)
	hw.WriteInt32(LegacyFileVersion)
	hw.WriteInt32(FileVersionUE4)
	hw.WriteInt32(b.cfg.licenseeVersion)
	totalHeaderPos := hw.Pos()
	hw.WriteInt32(0)
	hw.WriteFString(b.cfg.folderName)
	hw.WriteUint32(b.cfg.packageFlags)
	tablePos := hw.Pos()
	for range 6 {
		hw.WriteInt32(0)
	}
	bulkStartPos := hw.Pos()
	hw.WriteInt64(0)

	nameOffset := hw.Pos()
	for _, n := range b.names.Entries() {
		hw.WriteFString(n.Text)
		hw.WriteUint16(n.NonCaseHash)
		hw.WriteUint16(n.CaseHash)
	}
	importOffset := hw.Pos()
	for _, imp := range b.imports {
		hw.WriteName(imp.classPackage)
		hw.WriteName(imp.className)
		hw.WritePackageIndex(imp.outer)
		hw.WriteName(imp.objectName)
	}
	exportOffset := hw.Pos()
	serialPos := make([]int, len(b.exports))
	for i, e := range b.exports {
		hw.WritePackageIndex(e.class)
		hw.WritePackageIndex(e.super)
		hw.WritePackageIndex(e.template)
		hw.WritePackageIndex(e.outer)
		hw.WriteName(e.objectName)
		hw.WriteUint32(e.flags)
		hw.WriteInt64(int64(sizes[i]))
		serialPos[i] = hw.Pos()
		hw.WriteInt64(0)
	}
	headerSize := hw.Size()

	patch := func(pos int, write func()) error {
		if err := hw.Seek(pos); err != nil {
			return err
		}
		write()
		return nil
	}
	table := []int{len(b.names.Entries()), nameOffset, len(b.imports), importOffset, len(b.exports), exportOffset}
	if err := patch(tablePos, func() {
		for _, v := range table {
			hw.WriteInt32(int32(v))
		}
	}); err != nil {
		return Segments{}, err
	}
	if err := patch(totalHeaderPos, func() { hw.WriteInt32(int32(headerSize)) }); err != nil {
		return Segments{}, err
	}
	if err := patch(bulkStartPos, func() { hw.WriteInt64(int64(headerSize + bulkStart)) }); err != nil {
		return Segments{}, err
	}
	for i, pos := range serialPos {
		if err := patch(pos, func() { hw.WriteInt64(int64(headerSize + offsets[i])) }); err != nil {
			return Segments{}, err
		}
	}

	var seg Segments
	if b.cfg.splitExports {
		seg.Header = hw.Bytes()
		seg.Exports = data.Bytes()
	} else {
		seg.Header = append(hw.Bytes(), data.Bytes()...)
	}
	if b.bulk.Size() > 0 {
		seg.Bulk = b.bulk.Bytes()
	}
	if b.optional.Size() > 0 {
		seg.OptionalBulk = b.optional.Bytes()
	}
	return seg, nil
}
