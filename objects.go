package uasset

import "fmt"

const (
	ClassMaterialInstanceConstant = "MaterialInstanceConstant"
	ClassMtxOfferData             = "FortMtxOfferData"
	ClassTexture2D                = "Texture2D"
)

// MaterialInstance overrides parameters of a parent material. The parent is
// resolved while the instance is deserialized.
type MaterialInstance struct {
	ObjectBase
	ParentIndex      PackageIndex
	Parent           Object
	VectorParameters []VectorParameter
	ScalarParameters []ScalarParameter
}

type VectorParameter struct {
	Name  string
	Value LinearColor
}

type ScalarParameter struct {
	Name  string
	Value float32
}

func (m *MaterialInstance) Deserialize(ar *AssetArchive, validPos int) error {
	var err error
	if m.ParentIndex, err = ar.ReadPackageIndex(); err != nil {
		return err
	}
	n, err := readCount(ar, validPos, 24)
	if err != nil {
		return err
	}
	m.VectorParameters = make([]VectorParameter, n)
	for i := range m.VectorParameters {
		name, err := ar.ReadName()
		if err != nil {
			return err
		}
		v, err := ReadLinearColor(ar)
		if err != nil {
			return err
		}
		m.VectorParameters[i] = VectorParameter{Name: name.Text(), Value: v}
	}
	if n, err = readCount(ar, validPos, 12); err != nil {
		return err
	}
	m.ScalarParameters = make([]ScalarParameter, n)
	for i := range m.ScalarParameters {
		name, err := ar.ReadName()
		if err != nil {
			return err
		}
		v, err := ar.ReadFloat32()
		if err != nil {
			return err
		}
		m.ScalarParameters[i] = ScalarParameter{Name: name.Text(), Value: v}
	}
	m.Parent, err = ar.LoadObject(m.ParentIndex)
	return err
}

func (m *MaterialInstance) Serialize(w *ArchiveWriter) error {
	w.WritePackageIndex(m.ParentIndex)
	w.WriteInt32(int32(len(m.VectorParameters)))
	for _, p := range m.VectorParameters {
		w.WriteName(p.Name)
		p.Value.Write(w)
	}
	w.WriteInt32(int32(len(m.ScalarParameters)))
	for _, p := range m.ScalarParameters {
		w.WriteName(p.Name)
		w.WriteFloat32(p.Value)
	}
	return nil
}

// ParentInstance returns the parent when it is itself a material instance.
func (m *MaterialInstance) ParentInstance() *MaterialInstance {
	p, _ := m.Parent.(*MaterialInstance)
	return p
}

func (m *MaterialInstance) VectorParameter(name string) (LinearColor, bool) {
	for _, p := range m.VectorParameters {
		if p.Name == name {
			return p.Value, true
		}
	}
	return LinearColor{}, false
}

// MtxOfferData describes a store offer. Its images are resolved on demand.
type MtxOfferData struct {
	ObjectBase
	OfferID      string
	DetailsImage PackageIndex
	TileImage    PackageIndex
}

func (o *MtxOfferData) Deserialize(ar *AssetArchive, validPos int) error {
	var err error
	if o.OfferID, err = ar.ReadFString(); err != nil {
		return err
	}
	if o.DetailsImage, err = ar.ReadPackageIndex(); err != nil {
		return err
	}
	o.TileImage, err = ar.ReadPackageIndex()
	return err
}

func (o *MtxOfferData) Serialize(w *ArchiveWriter) error {
	w.WriteFString(o.OfferID)
	w.WritePackageIndex(o.DetailsImage)
	w.WritePackageIndex(o.TileImage)
	return nil
}

func (o *MtxOfferData) DetailsTexture() (*Texture2D, error) { return o.texture(o.DetailsImage) }
func (o *MtxOfferData) TileTexture() (*Texture2D, error)    { return o.texture(o.TileImage) }

func (o *MtxOfferData) texture(idx PackageIndex) (*Texture2D, error) {
	e := o.Export()
	if e == nil || e.Package() == nil {
		return nil, fmt.Errorf("%w: offer is not bound to a package", ErrUnresolved)
	}
	return LoadObjectAs[*Texture2D](e.Package().Archive(), idx)
}

// Texture2D holds the dimensions and the top mip of a texture.
type Texture2D struct {
	ObjectBase
	SizeX       int32
	SizeY       int32
	PixelFormat string
	Mip         *ByteBulkData
}

func (t *Texture2D) Deserialize(ar *AssetArchive, validPos int) error {
	var err error
	if t.SizeX, err = ar.ReadInt32(); err != nil {
		return err
	}
	if t.SizeY, err = ar.ReadInt32(); err != nil {
		return err
	}
	pf, err := ar.ReadName()
	if err != nil {
		return err
	}
	t.PixelFormat = pf.Text()
	t.Mip, err = ReadBulkData(ar)
	return err
}

func (t *Texture2D) Serialize(w *ArchiveWriter) error {
	w.WriteInt32(t.SizeX)
	w.WriteInt32(t.SizeY)
	w.WriteName(t.PixelFormat)
	if t.Mip == nil {
		return w.WriteBulkData(BulkUnused, nil)
	}
	return w.WriteBulkData(t.Mip.Header.Flags, t.Mip.Data)
}

// readCount reads an element count and rejects counts that cannot fit in
// the remaining body when each element takes at least elemSize bytes.
func readCount(ar *AssetArchive, validPos, elemSize int) (int, error) {
	n, err := ar.ReadInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 || int(n)*elemSize > validPos-ar.Pos() {
		return 0, ar.fail(fmt.Sprintf("element count %d", n), ErrOutOfRange)
	}
	return int(n), nil
}
