package frames

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// BinaryDeserializer is a little endian cursor over a chunk payload.
type BinaryDeserializer struct {
	buffer   []byte
	position int
}

func NewDeserializer(buffer []byte) *BinaryDeserializer {
	return &BinaryDeserializer{buffer: buffer}
}

// Pos current position in the payload
func (d *BinaryDeserializer) Pos() int {
	return d.position
}

func (d *BinaryDeserializer) Limit() int {
	return len(d.buffer)
}

func (d *BinaryDeserializer) remaining() int {
	return len(d.buffer) - d.position
}

func (d *BinaryDeserializer) ReadByte() (byte, error) {
	if d.remaining() == 0 {
		return 0, io.EOF
	}
	b := d.buffer[d.position]
	d.position++
	return b, nil
}

func (d *BinaryDeserializer) GetByte() (byte, error) {
	return d.ReadByte()
}

// next returns the following size bytes without copying them.
func (d *BinaryDeserializer) next(size int) ([]byte, error) {
	if d.remaining() < size {
		return nil, io.ErrUnexpectedEOF
	}
	b := d.buffer[d.position : d.position+size]
	d.position += size
	return b, nil
}

func (d *BinaryDeserializer) GetBytes(size int) ([]byte, error) {
	if size < 0 || d.remaining() < size {
		return nil, fmt.Errorf("read past end, size: %d, position: %d, max: %d", size, d.position, len(d.buffer))
	}
	b, _ := d.next(size)
	return append([]byte(nil), b...), nil
}

func (d *BinaryDeserializer) GetFloat32() (float32, error) {
	v, err := d.GetUInt32()
	return math.Float32frombits(v), err
}

func (d *BinaryDeserializer) GetFloat64() (float64, error) {
	v, err := d.GetUInt64()
	return math.Float64frombits(v), err
}

// GetVarUInt32 returns io.EOF only when the payload ends before the value.
func (d *BinaryDeserializer) GetVarUInt32() (result uint32, err error) {
	val, err := binary.ReadUvarint(d)
	if err != nil {
		return 0, err
	}
	if val > math.MaxUint32 {
		return 0, fmt.Errorf("uint32 exceeded, %x, position: %d", val, d.position)
	}
	return uint32(val), nil
}

func (d *BinaryDeserializer) GetUInt32() (uint32, error) {
	b, err := d.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *BinaryDeserializer) GetUInt64() (uint64, error) {
	b, err := d.next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
