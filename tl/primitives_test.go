package tl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitives_IntRoundTrip(t *testing.T) {
	// Test: 32-bit integers encode little-endian and round-trip
	b := NewBuffer(nil)
	WriteInt(b, -2)

	assert.Equal(t, []byte{0xfe, 0xff, 0xff, 0xff}, b.Bytes())

	v, err := ReadInt(b)
	require.NoError(t, err)
	assert.Equal(t, int32(-2), v)
}

func TestPrimitives_LongRoundTrip(t *testing.T) {
	// Test: 64-bit integers encode little-endian and round-trip
	b := NewBuffer(nil)
	WriteLong(b, 0x0102030405060708)

	assert.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, b.Bytes())

	v, err := ReadLong(b)
	require.NoError(t, err)
	assert.Equal(t, int64(0x0102030405060708), v)
}

func TestPrimitives_Int128(t *testing.T) {
	// Test: int128 is 16 raw bytes, wrong sizes rejected
	raw := bytes.Repeat([]byte{0xab}, 16)

	b := NewBuffer(nil)
	require.NoError(t, WriteInt128(b, raw))
	assert.Equal(t, 16, b.Len())

	out, err := ReadInt128(b)
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	assert.Error(t, WriteInt128(NewBuffer(nil), raw[:15]))
}

func TestPrimitives_Int256(t *testing.T) {
	// Test: int256 is 32 raw bytes, wrong sizes rejected
	raw := bytes.Repeat([]byte{0xcd}, 32)

	b := NewBuffer(nil)
	require.NoError(t, WriteInt256(b, raw))

	out, err := ReadInt256(b)
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	assert.Error(t, WriteInt256(NewBuffer(nil), append(raw, 0)))
}

func TestPrimitives_DoubleRoundTrip(t *testing.T) {
	// Test: Doubles survive a round trip exactly
	b := NewBuffer(nil)
	WriteDouble(b, 3.14159265358979)

	v, err := ReadDouble(b)
	require.NoError(t, err)
	assert.Equal(t, 3.14159265358979, v)
}

func TestPrimitives_BytesShortForm(t *testing.T) {
	// Test: Payloads under 254 bytes use a one-byte length and pad to 4.
	// The encoded size counts the length byte, the payload and the padding.
	cases := []struct {
		payload []byte
		encoded int
	}{
		{[]byte{}, 4},
		{[]byte{1}, 4},
		{[]byte{1, 2, 3}, 4},
		{[]byte{1, 2, 3, 4}, 8},
		{bytes.Repeat([]byte{7}, 253), 256},
	}

	for _, tc := range cases {
		b := NewBuffer(nil)
		WriteBytes(b, tc.payload)
		require.Equal(t, tc.encoded, len(b.Bytes()), "payload length %d", len(tc.payload))
		require.Equal(t, 0, len(b.Bytes())%4)

		out, err := ReadBytes(b)
		require.NoError(t, err)
		assert.Equal(t, tc.payload, out)
		assert.Equal(t, 0, b.Len())
	}
}

func TestPrimitives_BytesLongForm(t *testing.T) {
	// Test: Payloads of 254 bytes and over use the 0xfe marker and a
	// 3-byte length, with the data itself padded to 4
	payload := bytes.Repeat([]byte{9}, 254)

	b := NewBuffer(nil)
	WriteBytes(b, payload)

	raw := b.Bytes()
	assert.Equal(t, byte(0xfe), raw[0])
	assert.Equal(t, byte(254), raw[1])
	assert.Equal(t, byte(0), raw[2])
	assert.Equal(t, byte(0), raw[3])
	// 4 header + 254 data + 2 pad
	assert.Equal(t, 260, len(raw))

	out, err := ReadBytes(b)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
	assert.Equal(t, 0, b.Len())
}

func TestPrimitives_StringRoundTrip(t *testing.T) {
	// Test: Strings reuse the byte-string encoding
	b := NewBuffer(nil)
	WriteString(b, "héllo")

	s, err := ReadString(b)
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)
}

func TestPrimitives_Bool(t *testing.T) {
	// Test: Booleans are the two fixed constructor IDs
	b := NewBuffer(nil)
	WriteBool(b, true)
	WriteBool(b, false)

	v, err := ReadBool(b)
	require.NoError(t, err)
	assert.True(t, v)

	v, err = ReadBool(b)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestPrimitives_BoolUnknownID(t *testing.T) {
	// Test: A non-boolean constructor ID in a Bool slot is an error
	b := NewBuffer(nil)
	WriteUint32(b, 0xdeadbeef)

	_, err := ReadBool(b)
	var uc *UnknownConstructorError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, uint32(0xdeadbeef), uc.ID)
}

func TestPrimitives_VectorHeader(t *testing.T) {
	// Test: Vector framing is the vector ID followed by the count
	b := NewBuffer(nil)
	WriteVectorHeader(b, 3)
	WriteInt(b, 7)
	WriteInt(b, 8)
	WriteInt(b, 9)

	want := []byte{
		0x15, 0xc4, 0xb5, 0x1c, // 0x1cb5c415
		3, 0, 0, 0,
		7, 0, 0, 0,
		8, 0, 0, 0,
		9, 0, 0, 0,
	}
	assert.Equal(t, want, b.Bytes())

	n, err := ReadVectorHeader(b)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPrimitives_VectorHeaderOversizedCount(t *testing.T) {
	// Test: A count claiming more elements than the remaining bytes could
	// hold is rejected before anything is allocated for it
	b := NewBuffer(nil)
	WriteUint32(b, IDVector)
	WriteInt(b, 0x7fffffff)

	_, err := ReadVectorHeader(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds remaining input")
}

func TestPrimitives_VectorHeaderWrongID(t *testing.T) {
	// Test: A vector slot must open with the vector constructor ID
	b := NewBuffer(nil)
	WriteUint32(b, IDBoolTrue)

	_, err := ReadVectorHeader(b)
	assert.Error(t, err)
}

func TestPrimitives_CoreIDs(t *testing.T) {
	// Test: The eight fixed core constructor IDs
	assert.Equal(t, uint32(0xbc799737), IDBoolFalse)
	assert.Equal(t, uint32(0x997275b5), IDBoolTrue)
	assert.Equal(t, uint32(0x1cb5c415), IDVector)
	assert.Equal(t, uint32(0x73f1f8dc), IDMsgContainer)
	assert.Equal(t, uint32(0xae500895), IDFutureSalts)
	assert.Equal(t, uint32(0x0949d9dc), IDFutureSalt)
	assert.Equal(t, uint32(0x3072cfa1), IDGzipPacked)
	assert.Equal(t, uint32(0x5bb8e511), IDMessage)
}
