package frames

import (
	"math"

	"github.com/google/uuid"
)

// Encoder writes tagged elements, the counterpart of Extractor.
type Encoder struct {
	s BinarySerializer
}

func (e *Encoder) Bytes() []byte {
	return e.s.Bytes()
}

func (e *Encoder) putTag(index TagIndex, tag ElementTag) {
	e.s.PutVarUInt32(uint32(index)<<4 | uint32(tag))
}

func (e *Encoder) WriteInt(index TagIndex, v int32) {
	e.putTag(index, NumberTag)
	e.s.PutUInt32(uint32(v))
}

func (e *Encoder) WriteUInt64(index TagIndex, v uint64) {
	e.putTag(index, Fixed64)
	e.s.PutUInt64(v)
}

func (e *Encoder) WriteDouble(index TagIndex, v float64) {
	e.putTag(index, Fixed64)
	e.s.PutUInt64(math.Float64bits(v))
}

func (e *Encoder) WriteBool(index TagIndex, v bool) {
	var b byte
	if v {
		b = 1
	}
	e.WriteUInt8(index, b)
}

func (e *Encoder) WriteUInt8(index TagIndex, v byte) {
	e.putTag(index, ByteTag)
	e.s.PutByte(v)
}

// WriteItem writes the elements produced by fn as one length prefixed item.
func (e *Encoder) WriteItem(index TagIndex, fn func(item *Encoder)) {
	var item Encoder
	fn(&item)
	e.putTag(index, ItemTag)
	e.s.PutUInt32(uint32(item.s.Len()))
	e.s.PutBytes(item.Bytes())
}

func (e *Encoder) WriteUUID(index TagIndex, u uuid.UUID) {
	e.WriteItem(index, func(item *Encoder) {
		item.s.PutVarUInt32(uint32(len(u)))
		item.s.PutBytes(u[:])
	})
}

func (e *Encoder) WriteString(index TagIndex, v string) {
	e.WriteItem(index, func(item *Encoder) {
		item.s.PutVarUInt32(uint32(len(v)))
		item.s.PutByte(1)
		item.s.PutBytes([]byte(v))
	})
}
