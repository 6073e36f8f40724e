package tl

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_WriteAndRead(t *testing.T) {
	// Test: Bytes written are read back in order
	b := NewBuffer(nil)

	b.Write([]byte{1, 2, 3})
	b.WriteByte(4)

	require.Equal(t, 4, b.Len())

	p, err := b.ReadN(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, p)
	assert.Equal(t, 1, b.Len())

	p, err = b.ReadN(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, p)
	assert.Equal(t, 0, b.Len())
}

func TestBuffer_ShortRead(t *testing.T) {
	// Test: Reading past the end fails with unexpected EOF
	b := NewBuffer([]byte{1, 2})

	_, err := b.ReadN(3)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	// A failed read consumes nothing
	p, err := b.ReadN(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, p)
}

func TestBuffer_NegativeRead(t *testing.T) {
	// Test: Negative lengths are rejected
	b := NewBuffer([]byte{1, 2, 3, 4})

	_, err := b.ReadN(-1)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestBuffer_Rewind(t *testing.T) {
	// Test: Rewind resets the read cursor without touching contents
	b := NewBuffer([]byte{9, 8, 7, 6})

	_, err := b.ReadN(4)
	require.NoError(t, err)
	require.Equal(t, 0, b.Len())

	b.Rewind()
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, []byte{9, 8, 7, 6}, b.Bytes())
}
