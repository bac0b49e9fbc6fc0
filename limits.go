package uasset

type Limits struct {
	MaxNames               int
	MaxImports             int
	MaxExports             int
	MaxStringLen           int    // characters, including the terminator
	MaxSerialSize          int64  // bytes of a single export
	MaxBulkDataSize        int64  // bytes of a single bulk payload after inflation
	MaxSegmentUncompressed uint64 // bytes of a segment file after decompression
}

func defaultLimits() Limits {
	return Limits{
		MaxNames:               1 << 20,
		MaxImports:             1 << 20,
		MaxExports:             1 << 20,
		MaxStringLen:           1 << 16,
		MaxSerialSize:          1 << 30, // 1 GiB
		MaxBulkDataSize:        1 << 30, // 1 GiB
		MaxSegmentUncompressed: 2 << 30, // 2 GiB
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxNames == 0 {
		l.MaxNames = d.MaxNames
	}
	if l.MaxImports == 0 {
		l.MaxImports = d.MaxImports
	}
	if l.MaxExports == 0 {
		l.MaxExports = d.MaxExports
	}
	if l.MaxStringLen == 0 {
		l.MaxStringLen = d.MaxStringLen
	}
	if l.MaxSerialSize == 0 {
		l.MaxSerialSize = d.MaxSerialSize
	}
	if l.MaxBulkDataSize == 0 {
		l.MaxBulkDataSize = d.MaxBulkDataSize
	}
	if l.MaxSegmentUncompressed == 0 {
		l.MaxSegmentUncompressed = d.MaxSegmentUncompressed
	}
	return l
}
