package uasset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texturePackage(t *testing.T, flags BulkDataFlags, mip []byte, opts ...WriteOption) Segments {
	t.Helper()
	b := NewBuilder(opts...)
	class := b.AddClassImport("/Script/Engine", ClassTexture2D)
	b.AddExport("T_Icon", class, &Texture2D{
		SizeX:       4,
		SizeY:       2,
		PixelFormat: "PF_B8G8R8A8",
		Mip:         &ByteBulkData{Header: BulkDataHeader{Flags: flags}, Data: mip},
	})
	return mustBuild(t, b)
}

func loadTexture(t *testing.T, seg Segments) (*Texture2D, error) {
	t.Helper()
	pkg := mustOpen(t, "T_Icon", seg)
	return LoadExportAs[*Texture2D](pkg.Archive(), pkg.Exports[0])
}

func TestBulkDataLocations(t *testing.T) {
	mip := bytes.Repeat([]byte{0x10, 0x20, 0x30, 0xFF}, 8)
	cases := []struct {
		name  string
		flags BulkDataFlags
		opts  []WriteOption
		check func(t *testing.T, seg Segments)
	}{
		{"inline", BulkForceInlinePayload, nil, func(t *testing.T, seg Segments) {
			assert.Nil(t, seg.Bulk)
		}},
		{"end of file", BulkPayloadAtEndOfFile, nil, func(t *testing.T, seg Segments) {
			assert.Nil(t, seg.Bulk)
			assert.True(t, bytes.HasSuffix(seg.Exports, mip))
		}},
		{"end of file unsplit", BulkPayloadAtEndOfFile, []WriteOption{WithSplitExports(false)}, func(t *testing.T, seg Segments) {
			assert.Empty(t, seg.Exports)
			assert.True(t, bytes.HasSuffix(seg.Header, mip))
		}},
		{"end of file big-endian", BulkPayloadAtEndOfFile, []WriteOption{WithBigEndian(true)}, nil},
		{"separate file", BulkPayloadInSeparateFile, nil, func(t *testing.T, seg Segments) {
			assert.Equal(t, mip, seg.Bulk)
		}},
		{"optional", BulkPayloadInSeparateFile | BulkOptionalPayload, nil, func(t *testing.T, seg Segments) {
			assert.Nil(t, seg.Bulk)
			assert.Equal(t, mip, seg.OptionalBulk)
		}},
		{"zlib inline", BulkCompressedZlib, nil, nil},
		{"zlib separate file", BulkCompressedZlib | BulkPayloadInSeparateFile, nil, func(t *testing.T, seg Segments) {
			assert.NotEqual(t, mip, seg.Bulk)
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			seg := texturePackage(t, c.flags, mip, c.opts...)
			if c.check != nil {
				c.check(t, seg)
			}
			tex, err := loadTexture(t, seg)
			require.NoError(t, err)
			require.NotNil(t, tex)
			assert.Equal(t, int32(4), tex.SizeX)
			assert.Equal(t, int32(2), tex.SizeY)
			assert.Equal(t, "PF_B8G8R8A8", tex.PixelFormat)
			require.NotNil(t, tex.Mip)
			assert.Equal(t, c.flags, tex.Mip.Header.Flags)
			assert.Equal(t, int32(len(mip)), tex.Mip.Header.ElementCount)
			assert.Equal(t, mip, tex.Mip.Data)
		})
	}
}

func TestBulkDataMissingPayload(t *testing.T) {
	seg := texturePackage(t, BulkPayloadInSeparateFile, []byte{1, 2, 3})
	seg.Bulk = nil
	_, err := loadTexture(t, seg)
	require.ErrorIs(t, err, ErrMissingPayload)
	assert.Contains(t, err.Error(), "UBULK is needed to parse the current package")

	seg = texturePackage(t, BulkOptionalPayload, []byte{1, 2, 3})
	seg.OptionalBulk = nil
	_, err = loadTexture(t, seg)
	require.ErrorIs(t, err, ErrMissingPayload)
}

func TestBulkDataTruncatedPayload(t *testing.T) {
	seg := texturePackage(t, BulkPayloadInSeparateFile, []byte{1, 2, 3, 4})
	seg.Bulk = seg.Bulk[:2]
	_, err := loadTexture(t, seg)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestBulkDataUnusedAndEmpty(t *testing.T) {
	b := NewBuilder()
	class := b.AddClassImport("/Script/Engine", ClassTexture2D)
	b.AddExport("NoMip", class, &Texture2D{SizeX: 1, SizeY: 1, PixelFormat: "PF_G8"})
	b.AddExport("EmptyMip", class, &Texture2D{SizeX: 1, SizeY: 1, PixelFormat: "PF_G8", Mip: &ByteBulkData{}})
	pkg := mustOpen(t, "Textures", mustBuild(t, b))

	for _, e := range pkg.Exports {
		tex, err := LoadExportAs[*Texture2D](pkg.Archive(), e)
		require.NoError(t, err)
		require.NotNil(t, tex.Mip)
		assert.Empty(t, tex.Mip.Data)
	}
}

func TestBulkDataRejectsBadHeaders(t *testing.T) {
	cases := []struct {
		name   string
		header func(w *ArchiveWriter)
		want   error
	}{
		{"negative size", func(w *ArchiveWriter) {
			w.WriteUint32(0)
			w.WriteInt32(1)
			w.WriteInt32(-1)
			w.WriteInt64(0)
		}, ErrInvalidPayload},
		{"platform compression", func(w *ArchiveWriter) {
			w.WriteUint32(uint32(BulkSerializeCompressedBitWindow))
			w.WriteInt32(1)
			w.WriteInt32(1)
			w.WriteInt64(0)
		}, ErrInvalidPayload},
		{"too large", func(w *ArchiveWriter) {
			w.WriteUint32(0)
			w.WriteInt32(1 << 30)
			w.WriteInt32(1<<30 + 1)
			w.WriteInt64(0)
		}, ErrLimitExceeded},
		{"bad zlib", func(w *ArchiveWriter) {
			w.WriteUint32(uint32(BulkCompressedZlib))
			w.WriteInt32(4)
			w.WriteInt32(2)
			w.WriteInt64(0)
			w.WriteBytes([]byte{0xDE, 0xAD})
		}, ErrInvalidPayload},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := &ArchiveWriter{Cursor: Cursor{littleEndian: true}, names: NewNameTable()}
			c.header(w)
			_, err := ReadBulkData(NewAssetArchive(w.Bytes(), nil, 0, 0))
			require.ErrorIs(t, err, c.want)
		})
	}
}

func TestWriteBulkDataRejectsPlatformCompression(t *testing.T) {
	w := newArchiveWriter(NewBuilder())
	err := w.WriteBulkData(BulkSerializeCompressedBitWindow, []byte{1})
	require.ErrorIs(t, err, ErrInvalidPayload)
}
