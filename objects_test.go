package uasset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearColorRGBA8(t *testing.T) {
	cases := []struct {
		in   LinearColor
		want [4]uint8
	}{
		{LinearColor{}, [4]uint8{0, 0, 0, 0}},
		{LinearColor{R: 1, G: 1, B: 1, A: 1}, [4]uint8{255, 255, 255, 255}},
		{LinearColor{R: 0.5, G: 0.25, B: 2, A: -1}, [4]uint8{128, 64, 255, 0}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.in.RGBA8())
	}
}

func TestLinearColorRoundTrip(t *testing.T) {
	w := newArchiveWriter(NewBuilder(WithBigEndian(true)))
	in := LinearColor{R: 0.1, G: 0.2, B: 0.3, A: 1}
	in.Write(w)

	ar := NewAssetArchive(w.Bytes(), nil, 0, 0)
	ar.SetLittleEndian(false)
	got, err := ReadLinearColor(ar)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	_, err = ReadLinearColor(NewAssetArchive(w.Bytes()[:12], nil, 0, 0))
	require.ErrorIs(t, err, ErrOutOfRange)
}

func offerPackages(t *testing.T) *memProvider {
	t.Helper()
	mp := newMemProvider()

	tb := NewBuilder()
	class := tb.AddClassImport("/Script/Engine", ClassTexture2D)
	tb.AddExport("T_Details", class, &Texture2D{
		SizeX:       2,
		SizeY:       2,
		PixelFormat: "PF_B8G8R8A8",
		Mip: &ByteBulkData{
			Header: BulkDataHeader{Flags: BulkPayloadInSeparateFile},
			Data:   []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		},
	})
	mp.add("/Game/Textures/T_Details", mustBuild(t, tb))

	ob := NewBuilder()
	offerClass := ob.AddClassImport("/FortniteGame", ClassMtxOfferData)
	texPkg := ob.AddPackageImport("/Game/Textures/T_Details")
	details := ob.AddImport("/Script/Engine", ClassTexture2D, texPkg, "T_Details")
	ob.AddExport("Offer", offerClass, &MtxOfferData{OfferID: "v2:/offer-1", DetailsImage: details})
	mp.add("/Game/Offers/Offer", mustBuild(t, ob))
	return mp
}

func TestMtxOfferDataTextures(t *testing.T) {
	mp := offerPackages(t)
	pkg, err := mp.LoadPackage("/Game/Offers/Offer", WithProvider(mp))
	require.NoError(t, err)

	offer, err := LoadExportAs[*MtxOfferData](pkg.Archive(), pkg.Exports[0])
	require.NoError(t, err)
	require.NotNil(t, offer)
	assert.Equal(t, "v2:/offer-1", offer.OfferID)
	assert.True(t, offer.TileImage.IsNull())

	tex, err := offer.DetailsTexture()
	require.NoError(t, err)
	require.NotNil(t, tex)
	assert.Equal(t, "T_Details", tex.Name())
	assert.Equal(t, int32(2), tex.SizeX)
	assert.Len(t, tex.Mip.Data, 16)

	again, err := offer.DetailsTexture()
	require.NoError(t, err)
	assert.Same(t, tex, again)
	assert.Equal(t, 1, mp.loadCount("/Game/Textures/T_Details"))

	tile, err := offer.TileTexture()
	require.NoError(t, err)
	assert.Nil(t, tile)
}

func TestMtxOfferDataUnbound(t *testing.T) {
	_, err := (&MtxOfferData{}).DetailsTexture()
	require.ErrorIs(t, err, ErrUnresolved)
}

func TestMaterialInstanceLocalParent(t *testing.T) {
	b := NewBuilder()
	class := b.AddClassImport("/Script/Engine", ClassMaterialInstanceConstant)
	base := b.AddExport("M_Base", class, &MaterialInstance{
		ScalarParameters: []ScalarParameter{{Name: "Metallic", Value: 1}},
	})
	b.AddExport("M_Child", class, &MaterialInstance{
		ParentIndex:      base,
		VectorParameters: []VectorParameter{{Name: "Tint_1", Value: LinearColor{B: 1, A: 1}}},
	})
	pkg := mustOpen(t, "Materials", mustBuild(t, b))

	child, err := LoadObjectAs[*MaterialInstance](pkg.Archive(), ExportIndex(1))
	require.NoError(t, err)
	require.NotNil(t, child)
	parent := child.ParentInstance()
	require.NotNil(t, parent)
	assert.Equal(t, "M_Base", parent.Name())
	assert.Nil(t, parent.Parent)
	assert.Equal(t, "Metallic", parent.ScalarParameters[0].Name)

	tint, ok := child.VectorParameter("Tint_1")
	require.True(t, ok)
	assert.Equal(t, [4]uint8{0, 0, 255, 255}, tint.RGBA8())
	_, ok = child.VectorParameter("Missing")
	assert.False(t, ok)

	direct, err := LoadObjectAs[*MaterialInstance](pkg.Archive(), base)
	require.NoError(t, err)
	assert.Same(t, parent, direct)
}

func TestMaterialInstanceRejectsHugeCount(t *testing.T) {
	b := NewBuilder()
	class := b.AddClassImport("/Script/Engine", ClassMaterialInstanceConstant)
	b.AddExport("M_Bad", class, SerializerFunc(func(w *ArchiveWriter) error {
		w.WritePackageIndex(0)
		w.WriteInt32(1 << 20)
		w.WriteInt32(0)
		return nil
	}))
	pkg := mustOpen(t, "Bad", mustBuild(t, b))
	_, err := pkg.Exports[0].Object()
	require.ErrorIs(t, err, ErrOutOfRange)
}
