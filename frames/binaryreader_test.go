package frames

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeserializer(t *testing.T) {
	var s BinarySerializer
	s.PutVarUInt32(300)
	s.PutUInt32(7)
	s.PutFloat32(1.25)
	s.PutBytes([]byte{9, 8})

	d := NewDeserializer(s.Bytes())
	v, err := d.GetVarUInt32()
	require.NoError(t, err)
	assert.Equal(t, uint32(300), v)
	n, err := d.GetUInt32()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), n)
	f, err := d.GetFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.25), f)

	_, err = d.GetBytes(3)
	assert.Error(t, err)
	_, err = d.GetUInt32()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	b, err := d.GetBytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8}, b)
	assert.Equal(t, d.Limit(), d.Pos())

	_, err = d.GetVarUInt32()
	assert.Equal(t, io.EOF, err)
}
