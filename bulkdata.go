package uasset

import "fmt"

type BulkDataHeader struct {
	Flags        BulkDataFlags
	ElementCount int32 // bytes after inflation
	SizeOnDisk   int32
	OffsetInFile int64
}

// ByteBulkData is a bulk payload whose bytes may live inline, at the end of
// the export data, or in a sibling bulk segment.
type ByteBulkData struct {
	Header BulkDataHeader
	Data   []byte
}

// ReadBulkData reads a bulk data header at the archive position and loads
// its payload. The archive is left just past the header, or past the inline
// payload when there is one.
func ReadBulkData(ar *AssetArchive) (*ByteBulkData, error) {
	var h BulkDataHeader
	flags, err := ar.ReadUint32()
	if err != nil {
		return nil, err
	}
	h.Flags = BulkDataFlags(flags)
	if h.ElementCount, err = ar.ReadInt32(); err != nil {
		return nil, err
	}
	if h.SizeOnDisk, err = ar.ReadInt32(); err != nil {
		return nil, err
	}
	if h.OffsetInFile, err = ar.ReadInt64(); err != nil {
		return nil, err
	}
	bd := &ByteBulkData{Header: h}

	limit := defaultLimits().MaxBulkDataSize
	if ar.pkg != nil {
		limit = ar.pkg.cfg.limits.MaxBulkDataSize
	}
	if h.ElementCount < 0 || h.SizeOnDisk < 0 || h.OffsetInFile < 0 {
		return nil, ar.fail("read bulk data header", ErrInvalidPayload)
	}
	if int64(h.ElementCount) > limit || int64(h.SizeOnDisk) > limit {
		return nil, ar.fail(fmt.Sprintf("bulk data of %d bytes", max(h.ElementCount, h.SizeOnDisk)), ErrLimitExceeded)
	}
	if h.Flags.Has(BulkUnused) || h.SizeOnDisk == 0 {
		return bd, nil
	}
	if h.Flags.Has(BulkSerializeCompressedBitWindow) {
		return nil, ar.fail("bulk data with platform compression", ErrInvalidPayload)
	}

	var raw []byte
	switch {
	case h.Flags.Has(BulkOptionalPayload):
		raw, err = readBulkPayload(ar, PayloadOptionalBulk, h)
	case h.Flags.Has(BulkPayloadInSeparateFile):
		raw, err = readBulkPayload(ar, PayloadBulk, h)
	case h.Flags.Has(BulkPayloadAtEndOfFile):
		c := ar.Clone()
		var start int64
		if ar.pkg != nil {
			start = ar.pkg.Summary.BulkDataStartOffset
		}
		if err = c.SeekRelative(int(start + h.OffsetInFile)); err == nil {
			raw, err = c.ReadBytes(int(h.SizeOnDisk))
		}
	default:
		raw, err = ar.ReadBytes(int(h.SizeOnDisk))
	}
	if err != nil {
		return nil, err
	}

	if h.Flags.Has(BulkCompressedZlib) {
		out, err := zlibDecompress(raw, uint64(h.ElementCount))
		if err != nil {
			return nil, fmt.Errorf("%w: inflate bulk data: %v", ErrInvalidPayload, err)
		}
		if len(out) != int(h.ElementCount) {
			return nil, fmt.Errorf("%w: inflated %d bytes, expected %d", ErrInvalidPayload, len(out), h.ElementCount)
		}
		raw = out
	}
	bd.Data = raw
	return bd, nil
}

func readBulkPayload(ar *AssetArchive, kind PayloadType, h BulkDataHeader) ([]byte, error) {
	p, err := ar.Payload(kind)
	if err != nil {
		return nil, err
	}
	c := p.Clone()
	if err := c.Seek(int(h.OffsetInFile)); err != nil {
		return nil, err
	}
	return c.ReadBytes(int(h.SizeOnDisk))
}

// WriteBulkData writes a bulk data header and places data according to
// flags. Exactly one of BulkOptionalPayload, BulkPayloadInSeparateFile,
// BulkPayloadAtEndOfFile or none (inline) selects the location.
func (w *ArchiveWriter) WriteBulkData(flags BulkDataFlags, data []byte) error {
	if flags.Has(BulkSerializeCompressedBitWindow) {
		return fmt.Errorf("%w: platform compression is not supported", ErrInvalidPayload)
	}
	if flags.Has(BulkUnused) {
		w.WriteUint32(uint32(flags))
		w.WriteInt32(0)
		w.WriteInt32(0)
		w.WriteInt64(0)
		return nil
	}
	stored := data
	if flags.Has(BulkCompressedZlib) {
		c, err := zlibCompress(data)
		if err != nil {
			return err
		}
		stored = c
	}
	w.WriteUint32(uint32(flags))
	w.WriteInt32(int32(len(data)))
	w.WriteInt32(int32(len(stored)))

	var dst *Cursor
	switch {
	case flags.Has(BulkOptionalPayload):
		dst = w.optional
	case flags.Has(BulkPayloadInSeparateFile):
		dst = w.bulk
	case flags.Has(BulkPayloadAtEndOfFile):
		dst = w.tail
	}
	if dst == nil {
		w.WriteInt64(0)
		w.WriteBytes(stored)
		return nil
	}
	w.WriteInt64(int64(dst.Size()))
	if err := dst.Seek(dst.Size()); err != nil {
		return err
	}
	dst.WriteBytes(stored)
	return nil
}
