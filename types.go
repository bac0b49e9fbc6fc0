package uasset

import "fmt"

const (
	// PackageTag opens every header segment. Reading the byte-swapped value
	// means the package was written big-endian.
	PackageTag        uint32 = 0x9E2A83C1
	packageTagSwapped uint32 = 0xC1832A9E

	LegacyFileVersion int32 = -7
	FileVersionUE4    int32 = 522
)

// PayloadType names an auxiliary segment attached to an archive.
type PayloadType uint8

const (
	PayloadExports PayloadType = iota + 1
	PayloadBulk
	PayloadOptionalBulk
)

func (p PayloadType) String() string {
	switch p {
	case PayloadExports:
		return "UEXP"
	case PayloadBulk:
		return "UBULK"
	case PayloadOptionalBulk:
		return "UPTNL"
	}
	return fmt.Sprintf("PayloadType(%d)", uint8(p))
}

// Extension returns the sibling file extension holding the payload.
func (p PayloadType) Extension() string {
	switch p {
	case PayloadExports:
		return ".uexp"
	case PayloadBulk:
		return ".ubulk"
	case PayloadOptionalBulk:
		return ".uptnl"
	}
	return ""
}

// BulkDataFlags describe where a bulk payload lives and how it is stored.
type BulkDataFlags uint32

const (
	BulkPayloadAtEndOfFile           BulkDataFlags = 0x0001
	BulkCompressedZlib               BulkDataFlags = 0x0002
	BulkUnused                       BulkDataFlags = 0x0020
	BulkForceInlinePayload           BulkDataFlags = 0x0040
	BulkPayloadInSeparateFile        BulkDataFlags = 0x0100
	BulkSerializeCompressedBitWindow BulkDataFlags = 0x0200
	BulkOptionalPayload              BulkDataFlags = 0x0800
)

func (f BulkDataFlags) Has(flag BulkDataFlags) bool { return f&flag != 0 }

// PackageSummary is the fixed part of a header segment.
type PackageSummary struct {
	Tag                 uint32
	LegacyFileVersion   int32
	FileVersionUE4      int32
	FileVersionLicensee int32
	TotalHeaderSize     int32
	FolderName          string
	PackageFlags        uint32
	NameCount           int32
	NameOffset          int32
	ImportCount         int32
	ImportOffset        int32
	ExportCount         int32
	ExportOffset        int32
	BulkDataStartOffset int64
}

// Segments holds the raw bytes of one package. Exports may be empty, in
// which case export data lives in the header segment.
type Segments struct {
	Header       []byte
	Exports      []byte
	Bulk         []byte
	OptionalBulk []byte
}
