package uasset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameTableBounds(t *testing.T) {
	nt := NewNameTable()
	nt.Intern("None")
	nt.Intern("Hero")
	nt.Intern("Hat")

	_, err := nt.Resolve(int32(nt.Len()), 0)
	require.ErrorIs(t, err, ErrNameOutOfRange)
	_, err = nt.Resolve(-1, 0)
	require.ErrorIs(t, err, ErrNameOutOfRange)
	_, err = nt.Resolve(0, -1)
	require.ErrorIs(t, err, ErrNameOutOfRange)

	s, err := nt.Resolve(int32(nt.Len()-1), 0)
	require.NoError(t, err)
	assert.Equal(t, "Hat", s)
}

func TestNameTableIntern(t *testing.T) {
	nt := NewNameTable()
	a := nt.Intern("A")
	b := nt.Intern("B")
	assert.Equal(t, a, nt.Intern("A"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, nt.Len())

	i, ok := nt.Lookup("B")
	assert.True(t, ok)
	assert.Equal(t, b, i)
	_, ok = nt.Lookup("C")
	assert.False(t, ok)
	assert.Equal(t, 2, nt.Len(), "Lookup must not intern")
}

func TestNameText(t *testing.T) {
	nt := NewNameTable()
	idx := nt.Intern("Foo")
	cases := []struct {
		number int32
		want   string
	}{
		{0, "Foo"},
		{1, "Foo_0"},
		{2, "Foo_1"},
		{11, "Foo_10"},
	}
	for _, c := range cases {
		n, err := nt.Name(idx, c.number)
		require.NoError(t, err)
		assert.Equal(t, c.want, n.Text())
		assert.Equal(t, "Foo", n.Base())
	}
}

func TestNameIsNone(t *testing.T) {
	nt := NewNameTable()
	none := nt.Intern("None")
	n, err := nt.Name(none, 0)
	require.NoError(t, err)
	assert.True(t, n.IsNone())
	n, err = nt.Name(none, 1)
	require.NoError(t, err)
	assert.False(t, n.IsNone())
	assert.True(t, Name{}.IsNone())
}

func TestNameEqualAcrossTables(t *testing.T) {
	a, b := NewNameTable(), NewNameTable()
	b.Intern("Other")
	na, err := a.Name(a.Intern("Hero"), 2)
	require.NoError(t, err)
	nb, err := b.Name(b.Intern("Hero"), 2)
	require.NoError(t, err)
	assert.NotEqual(t, na.Index, nb.Index)
	assert.True(t, na.Equal(nb))
}

func TestSplitNameNumber(t *testing.T) {
	cases := []struct {
		in     string
		base   string
		number int32
	}{
		{"Foo", "Foo", 0},
		{"Foo_0", "Foo", 1},
		{"Foo_3", "Foo", 4},
		{"Foo_03", "Foo_03", 0},
		{"Foo_", "Foo_", 0},
		{"_3", "_3", 0},
		{"Foo_Bar", "Foo_Bar", 0},
		{"A_B_12", "A_B", 13},
		{"Foo_99999999999", "Foo_99999999999", 0},
	}
	for _, c := range cases {
		base, number := splitNameNumber(c.in)
		assert.Equal(t, c.base, base, c.in)
		assert.Equal(t, c.number, number, c.in)
	}
}

func TestWriteNameRoundTrip(t *testing.T) {
	nt := NewNameTable()
	w := &ArchiveWriter{Cursor: Cursor{littleEndian: true}, names: nt}
	w.WriteName("Mesh_7")
	w.WriteName("Mesh")

	ar := NewAssetArchive(w.Bytes(), &Package{Names: nt, cfg: newReadConfig(nil)}, 0, 0)
	n, err := ar.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "Mesh_7", n.Text())
	n2, err := ar.ReadName()
	require.NoError(t, err)
	assert.Equal(t, n.Index, n2.Index)
	assert.Equal(t, "Mesh", n2.Text())
	assert.Equal(t, 1, nt.Len())
}
