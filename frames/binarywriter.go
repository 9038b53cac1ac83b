package frames

import (
	"bytes"
	"encoding/binary"
	"math"
)

// BinarySerializer is the write side of BinaryDeserializer.
type BinarySerializer struct {
	buf bytes.Buffer
}

func (s *BinarySerializer) Bytes() []byte {
	return s.buf.Bytes()
}

func (s *BinarySerializer) Len() int {
	return s.buf.Len()
}

func (s *BinarySerializer) PutByte(b byte) {
	s.buf.WriteByte(b)
}

func (s *BinarySerializer) PutBytes(b []byte) {
	s.buf.Write(b)
}

func (s *BinarySerializer) PutUInt32(v uint32) {
	s.buf.Write(binary.LittleEndian.AppendUint32(nil, v))
}

func (s *BinarySerializer) PutUInt64(v uint64) {
	s.buf.Write(binary.LittleEndian.AppendUint64(nil, v))
}

func (s *BinarySerializer) PutFloat32(v float32) {
	s.PutUInt32(math.Float32bits(v))
}

func (s *BinarySerializer) PutVarUInt32(v uint32) {
	s.buf.Write(binary.AppendUvarint(nil, uint64(v)))
}
