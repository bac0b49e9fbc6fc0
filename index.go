package uasset

import "fmt"

// PackageIndex references an object of a package. Zero is null, a positive
// value n is export slot n-1 and a negative value n is import slot -n-1.
type PackageIndex int32

// IndexKind discriminates the three cases of a PackageIndex.
type IndexKind uint8

const (
	IndexNull IndexKind = iota
	IndexImport
	IndexExport
)

func (k IndexKind) String() string {
	switch k {
	case IndexNull:
		return "null"
	case IndexImport:
		return "import"
	case IndexExport:
		return "export"
	}
	return fmt.Sprintf("IndexKind(%d)", uint8(k))
}

func ImportIndex(slot int) PackageIndex { return PackageIndex(-slot - 1) }
func ExportIndex(slot int) PackageIndex { return PackageIndex(slot + 1) }

func (i PackageIndex) IsNull() bool   { return i == 0 }
func (i PackageIndex) IsImport() bool { return i < 0 }
func (i PackageIndex) IsExport() bool { return i > 0 }

func (i PackageIndex) Kind() IndexKind {
	switch {
	case i < 0:
		return IndexImport
	case i > 0:
		return IndexExport
	}
	return IndexNull
}

// Slot returns the zero-based table slot. It is -1 for the null index.
func (i PackageIndex) Slot() int {
	switch {
	case i < 0:
		return int(-int64(i) - 1)
	case i > 0:
		return int(i) - 1
	}
	return -1
}

func (i PackageIndex) String() string {
	if i.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%s#%d", i.Kind(), i.Slot())
}

// ObjectImport is a reference to an object defined by another package.
type ObjectImport struct {
	ClassPackage Name
	ClassName    Name
	OuterIndex   PackageIndex
	ObjectName   Name
}

// Resolved is the result of resolving a PackageIndex against a package.
// At most one of Import and Export is set.
type Resolved struct {
	Kind   IndexKind
	Slot   int
	Import *ObjectImport
	Export *ObjectExport
}

// ResolveIndex maps idx onto the given tables without any I/O.
func ResolveIndex(idx PackageIndex, imports []*ObjectImport, exports []*ObjectExport) (Resolved, error) {
	r := Resolved{Kind: idx.Kind(), Slot: idx.Slot()}
	switch r.Kind {
	case IndexImport:
		if r.Slot >= len(imports) {
			return Resolved{}, fmt.Errorf("%w: import %d of %d", ErrIndexOutOfRange, r.Slot, len(imports))
		}
		r.Import = imports[r.Slot]
	case IndexExport:
		if r.Slot >= len(exports) {
			return Resolved{}, fmt.Errorf("%w: export %d of %d", ErrIndexOutOfRange, r.Slot, len(exports))
		}
		r.Export = exports[r.Slot]
	}
	return r, nil
}
