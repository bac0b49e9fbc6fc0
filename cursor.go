package uasset

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Cursor reads and writes primitive values over a byte buffer.
//
// Clones share the underlying bytes but keep their own position and byte
// order. Writes past the end of the buffer extend it; the extension is only
// visible to the cursor that wrote it.
type Cursor struct {
	data         []byte
	pos          int
	littleEndian bool
	name         string
	maxString    int
}

// NewCursor returns a little-endian cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data, littleEndian: true}
}

func (c *Cursor) order() binary.ByteOrder {
	if c.littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (c *Cursor) fail(op string, err error) error {
	return &ArchiveError{Op: op, Pos: c.pos, Size: len(c.data), Package: c.name, Err: err}
}

func (c *Cursor) Pos() int           { return c.pos }
func (c *Cursor) Size() int          { return len(c.data) }
func (c *Cursor) Bytes() []byte      { return c.data }
func (c *Cursor) LittleEndian() bool { return c.littleEndian }
func (c *Cursor) Remaining() int     { return len(c.data) - c.pos }

func (c *Cursor) SetLittleEndian(v bool) { c.littleEndian = v }

// Seek moves to an absolute offset. Seeking to Size() is allowed.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.data) {
		return c.fail(fmt.Sprintf("seek to %d", pos), ErrOutOfRange)
	}
	c.pos = pos
	return nil
}

func (c *Cursor) Skip(n int) error {
	return c.Seek(c.pos + n)
}

// Clone returns a cursor over the same bytes with an independent position.
func (c *Cursor) Clone() *Cursor {
	cp := *c
	return &cp
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > len(c.data)-c.pos {
		return nil, c.fail(fmt.Sprintf("read %d bytes", n), ErrOutOfRange)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return c.order().Uint16(b), nil
}

func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	return int16(v), err
}

func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return c.order().Uint32(b), nil
}

func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return c.order().Uint64(b), nil
}

func (c *Cursor) ReadInt64() (int64, error) {
	v, err := c.ReadUint64()
	return int64(v), err
}

func (c *Cursor) ReadFloat32() (float32, error) {
	v, err := c.ReadUint32()
	return math.Float32frombits(v), err
}

func (c *Cursor) ReadFloat64() (float64, error) {
	v, err := c.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBool reads a 32-bit boolean. Values other than 0 and 1 are rejected.
func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadInt32()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	c.pos -= 4
	return false, c.fail(fmt.Sprintf("read bool %d", v), ErrInvalidPayload)
}

func (c *Cursor) ReadPackageIndex() (PackageIndex, error) {
	v, err := c.ReadInt32()
	return PackageIndex(v), err
}

// ReadFString reads a length-prefixed string. A positive length counts
// Latin-1 bytes, a negative length counts UTF-16 code units; both include
// the terminating NUL.
func (c *Cursor) ReadFString() (string, error) {
	start := c.pos
	n, err := c.ReadInt32()
	if err != nil {
		return "", err
	}
	if c.maxString > 0 && (n > int32(c.maxString) || n < -int32(c.maxString)) {
		c.pos = start
		return "", c.fail(fmt.Sprintf("read fstring of length %d", n), ErrLimitExceeded)
	}
	switch {
	case n == 0:
		return "", nil
	case n > 0:
		b, err := c.take(int(n))
		if err != nil {
			c.pos = start
			return "", err
		}
		if b[len(b)-1] != 0 {
			c.pos = start
			return "", c.fail("read fstring: missing terminator", ErrInvalidPayload)
		}
		return charmap.ISO8859_1.NewDecoder().String(string(b[:len(b)-1]))
	default:
		if n == math.MinInt32 {
			c.pos = start
			return "", c.fail("read fstring: length overflow", ErrInvalidPayload)
		}
		b, err := c.take(int(-n) * 2)
		if err != nil {
			c.pos = start
			return "", err
		}
		if b[len(b)-1] != 0 || b[len(b)-2] != 0 {
			c.pos = start
			return "", c.fail("read fstring: missing terminator", ErrInvalidPayload)
		}
		return c.wideEncoding().NewDecoder().String(string(b[:len(b)-2]))
	}
}

func (c *Cursor) wideEncoding() encoding.Encoding {
	if c.littleEndian {
		return utf16LE
	}
	return utf16BE
}

var (
	utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
)

func (c *Cursor) grow(n int) []byte {
	end := c.pos + n
	if end > len(c.data) {
		if end > cap(c.data) {
			nd := make([]byte, end, max(end, 2*cap(c.data)))
			copy(nd, c.data)
			c.data = nd
		} else {
			c.data = c.data[:end]
		}
	}
	b := c.data[c.pos:end]
	c.pos = end
	return b
}

func (c *Cursor) WriteBytes(p []byte) {
	copy(c.grow(len(p)), p)
}

func (c *Cursor) WriteUint8(v uint8) { c.grow(1)[0] = v }

func (c *Cursor) WriteUint16(v uint16) { c.order().PutUint16(c.grow(2), v) }
func (c *Cursor) WriteInt16(v int16)   { c.WriteUint16(uint16(v)) }
func (c *Cursor) WriteUint32(v uint32) { c.order().PutUint32(c.grow(4), v) }
func (c *Cursor) WriteInt32(v int32)   { c.WriteUint32(uint32(v)) }
func (c *Cursor) WriteUint64(v uint64) { c.order().PutUint64(c.grow(8), v) }
func (c *Cursor) WriteInt64(v int64)   { c.WriteUint64(uint64(v)) }

func (c *Cursor) WriteFloat32(v float32) { c.WriteUint32(math.Float32bits(v)) }
func (c *Cursor) WriteFloat64(v float64) { c.WriteUint64(math.Float64bits(v)) }

func (c *Cursor) WriteBool(v bool) {
	if v {
		c.WriteInt32(1)
		return
	}
	c.WriteInt32(0)
}

func (c *Cursor) WritePackageIndex(idx PackageIndex) { c.WriteInt32(int32(idx)) }

// WriteFString writes s as Latin-1 when every rune fits, otherwise as UTF-16.
func (c *Cursor) WriteFString(s string) {
	if s == "" {
		c.WriteInt32(0)
		return
	}
	if latin, err := charmap.ISO8859_1.NewEncoder().String(s); err == nil {
		c.WriteInt32(int32(len(latin) + 1))
		c.WriteBytes([]byte(latin))
		c.WriteUint8(0)
		return
	}
	units := utf16.Encode([]rune(s))
	c.WriteInt32(-int32(len(units) + 1))
	for _, u := range units {
		c.WriteUint16(u)
	}
	c.WriteUint16(0)
}
