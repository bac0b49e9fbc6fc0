package uasset

import (
	"fmt"
	"maps"
)

// AssetArchive is a Cursor bound to one Package.
//
// Offsets stored in the format count from the start of the header segment
// even when the bytes live in a later physical segment. An archive knows the
// sizes of the segments preceding its own bytes and translates between such
// relative offsets and its local ones.
//
// Clones share bytes, package, attached payloads and import cache but have
// their own position and byte order.
type AssetArchive struct {
	Cursor

	pkg            *Package
	headerSize     int
	exportDataSize int
	payloads       map[PayloadType]*AssetArchive
}

// NewAssetArchive binds data to pkg. headerSize and exportDataSize are the
// sizes of the segments that precede data in the logical stream.
func NewAssetArchive(data []byte, pkg *Package, headerSize, exportDataSize int) *AssetArchive {
	a := &AssetArchive{
		Cursor:         Cursor{data: data, littleEndian: true},
		pkg:            pkg,
		headerSize:     headerSize,
		exportDataSize: exportDataSize,
		payloads:       make(map[PayloadType]*AssetArchive),
	}
	if pkg != nil {
		a.name = pkg.Name
		a.maxString = pkg.cfg.limits.MaxStringLen
		a.littleEndian = pkg.littleEndian
	}
	return a
}

func (a *AssetArchive) Package() *Package      { return a.pkg }
func (a *AssetArchive) HeaderSize() int        { return a.headerSize }
func (a *AssetArchive) ExportDataSize() int    { return a.exportDataSize }
func (a *AssetArchive) ToLocal(rel int) int    { return rel - a.headerSize - a.exportDataSize }
func (a *AssetArchive) ToRelative(pos int) int { return pos + a.headerSize + a.exportDataSize }
func (a *AssetArchive) RelativePos() int       { return a.ToRelative(a.pos) }

// SeekRelative moves to a relative offset.
func (a *AssetArchive) SeekRelative(rel int) error {
	return a.Seek(a.ToLocal(rel))
}

// Clone returns an archive with an independent position over the same bytes.
func (a *AssetArchive) Clone() *AssetArchive {
	c := *a
	c.payloads = maps.Clone(a.payloads)
	return &c
}

// Attach registers a payload segment. Attaching a kind twice is an error and
// leaves the first attachment in place.
func (a *AssetArchive) Attach(kind PayloadType, payload *AssetArchive) error {
	if _, ok := a.payloads[kind]; ok {
		return a.fail(fmt.Sprintf("attach %s", kind), ErrDuplicatePayload)
	}
	a.payloads[kind] = payload
	return nil
}

// Payload returns the attached segment of the given kind.
func (a *AssetArchive) Payload(kind PayloadType) (*AssetArchive, error) {
	p, ok := a.payloads[kind]
	if !ok {
		return nil, a.fail(fmt.Sprintf("%s is needed to parse the current package", kind), ErrMissingPayload)
	}
	return p, nil
}

func (a *AssetArchive) HasPayload(kind PayloadType) bool {
	_, ok := a.payloads[kind]
	return ok
}

func (a *AssetArchive) names() *NameTable {
	if a.pkg == nil {
		return &NameTable{}
	}
	return a.pkg.Names
}

// ReadName reads an (index, number) pair and resolves it immediately.
func (a *AssetArchive) ReadName() (Name, error) {
	start := a.pos
	index, err := a.ReadInt32()
	if err != nil {
		return Name{}, err
	}
	number, err := a.ReadInt32()
	if err != nil {
		a.pos = start
		return Name{}, err
	}
	n, err := a.names().Name(index, number)
	if err != nil {
		a.pos = start
		return Name{}, a.fail(fmt.Sprintf("read name %d/%d, name map size %d", index, number, a.names().Len()), ErrNameOutOfRange)
	}
	return n, nil
}
