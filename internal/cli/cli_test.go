package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/logicossoftware/go-uasset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootFlag, gameFlag, formatFlag, logLevelFlag = "", "", "text", ""
	codecFlag, outFlag = "zstd", ""
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func writeSegments(t *testing.T, dir, name string, seg uasset.Segments) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	files := map[string][]byte{".uasset": seg.Header, ".uexp": seg.Exports, ".ubulk": seg.Bulk}
	for ext, b := range files {
		if b == nil {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+ext), b, 0o644))
	}
}

func testRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	tb := uasset.NewBuilder()
	class := tb.AddClassImport("/Script/Engine", uasset.ClassTexture2D)
	tb.AddExport("T_Tile", class, &uasset.Texture2D{
		SizeX:       8,
		SizeY:       8,
		PixelFormat: "PF_DXT1",
		Mip: &uasset.ByteBulkData{
			Header: uasset.BulkDataHeader{Flags: uasset.BulkPayloadInSeparateFile},
			Data:   make([]byte, 2048),
		},
	})
	seg, err := tb.Build()
	require.NoError(t, err)
	writeSegments(t, dir, "MyGame/Content/Textures/T_Tile", seg)

	ob := uasset.NewBuilder(uasset.WithFolderName("/Game/Offers"))
	offerClass := ob.AddClassImport("/FortniteGame", uasset.ClassMtxOfferData)
	texPkg := ob.AddPackageImport("/Game/Textures/T_Tile")
	tile := ob.AddImport("/Script/Engine", uasset.ClassTexture2D, texPkg, "T_Tile")
	ob.AddExport("Offer", offerClass, &uasset.MtxOfferData{OfferID: "offer-7", TileImage: tile})
	seg, err = ob.Build()
	require.NoError(t, err)
	writeSegments(t, dir, "MyGame/Content/Offers/Offer", seg)
	return dir
}

func TestInspectJSON(t *testing.T) {
	root := testRoot(t)
	out, err := run(t, "inspect", "/Game/Offers/Offer", "--root", root, "--game", "MyGame", "-f", "json")
	require.NoError(t, err)

	var r packageReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "/Game/Offers", r.FolderName)
	assert.Equal(t, "little-endian", r.ByteOrder)
	require.Len(t, r.Exports, 1)
	assert.Equal(t, "Offer", r.Exports[0].ObjectName)
	assert.Equal(t, uasset.ClassMtxOfferData, r.Exports[0].ClassName)
	require.Len(t, r.Imports, 4)
	assert.Equal(t, "T_Tile", r.Imports[3].ObjectName)
	assert.Equal(t, "/Game/Textures/T_Tile", r.Imports[3].PackagePath)
	assert.Positive(t, r.ExportDataSize)
}

func TestInspectText(t *testing.T) {
	root := testRoot(t)
	out, err := run(t, "inspect", "/Game/Textures/T_Tile", "-r", root, "-g", "MyGame")
	require.NoError(t, err)
	assert.Contains(t, out, "Package:     /Game/Textures/T_Tile")
	assert.Contains(t, out, "T_Tile")
	assert.Contains(t, out, "Texture2D")
}

func TestResolveImport(t *testing.T) {
	root := testRoot(t)
	out, err := run(t, "resolve", "-r", root, "-g", "MyGame", "-f", "json", "--", "/Game/Offers/Offer", "-4")
	require.NoError(t, err)

	var r objectReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.True(t, r.Resolved)
	assert.Equal(t, "T_Tile", r.Name)
	assert.Equal(t, "texture", r.Type)
	assert.Equal(t, "/Game/Textures/T_Tile", r.Package)
	assert.EqualValues(t, 2048, r.Details["mip_bytes"])
}

func TestResolveExportText(t *testing.T) {
	root := testRoot(t)
	out, err := run(t, "resolve", "/Game/Offers/Offer", "1", "-r", root, "-g", "MyGame")
	require.NoError(t, err)
	assert.Contains(t, out, "export#0: FortMtxOfferData Offer")
	assert.Contains(t, out, "offer_id: offer-7")
}

func TestResolveUnresolvedImport(t *testing.T) {
	root := testRoot(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "MyGame/Content/Textures")))
	out, err := run(t, "resolve", "-r", root, "-g", "MyGame", "--", "/Game/Offers/Offer", "-4")
	require.NoError(t, err)
	assert.Contains(t, out, "import#3: unresolved")
}

func TestResolveErrors(t *testing.T) {
	root := testRoot(t)
	_, err := run(t, "resolve", "/Game/Offers/Offer", "99", "-r", root, "-g", "MyGame")
	require.ErrorIs(t, err, uasset.ErrIndexOutOfRange)
	_, err = run(t, "resolve", "/Game/Offers/Offer", "x", "-r", root)
	require.Error(t, err)
	_, err = run(t, "inspect", "/Game/Missing", "-r", root, "-g", "MyGame")
	require.ErrorIs(t, err, uasset.ErrNotFound)
	_, err = run(t, "inspect", "/Game/Offers/Offer", "-r", root, "-f", "yaml")
	require.Error(t, err)
}

func TestPackUnpack(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Hero.uexp")
	data := bytes.Repeat([]byte("export data "), 100)
	require.NoError(t, os.WriteFile(src, data, 0o644))

	for _, codec := range []string{"zlib", "zstd", "lz4", "brotli"} {
		out, err := run(t, "pack", src, "--codec", codec)
		require.NoError(t, err, codec)
		assert.Contains(t, out, "wrote")

		comp, err := uasset.ParseCompression(codec)
		require.NoError(t, err)
		packed := src + comp.Suffix()
		restored := filepath.Join(dir, "restored-"+codec)
		_, err = run(t, "unpack", packed, "-o", restored)
		require.NoError(t, err, codec)
		got, err := os.ReadFile(restored)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}

	_, err := run(t, "pack", src, "--codec", "none")
	require.Error(t, err)
	_, err = run(t, "unpack", src)
	require.Error(t, err)
}
