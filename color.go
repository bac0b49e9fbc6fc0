package uasset

// LinearColor is a linear, 32-bit per component floating point RGBA color.
type LinearColor struct {
	R, G, B, A float32
}

func ReadLinearColor(c *AssetArchive) (LinearColor, error) {
	var lc LinearColor
	for _, f := range []*float32{&lc.R, &lc.G, &lc.B, &lc.A} {
		v, err := c.ReadFloat32()
		if err != nil {
			return LinearColor{}, err
		}
		*f = v
	}
	return lc, nil
}

func (lc LinearColor) Write(w *ArchiveWriter) {
	w.WriteFloat32(lc.R)
	w.WriteFloat32(lc.G)
	w.WriteFloat32(lc.B)
	w.WriteFloat32(lc.A)
}

// RGBA8 quantizes the color to 8 bits per channel, clamping to [0, 1].
func (lc LinearColor) RGBA8() [4]uint8 {
	q := func(v float32) uint8 {
		switch {
		case v <= 0:
			return 0
		case v >= 1:
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return [4]uint8{q(lc.R), q(lc.G), q(lc.B), q(lc.A)}
}
