package tl

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Constructor IDs of the core and container types. Every generated registry
// carries these eight in addition to the schema's own combinators.
const (
	IDBoolFalse    uint32 = 0xbc799737
	IDBoolTrue     uint32 = 0x997275b5
	IDVector       uint32 = 0x1cb5c415
	IDMsgContainer uint32 = 0x73f1f8dc
	IDFutureSalts  uint32 = 0xae500895
	IDFutureSalt   uint32 = 0x0949d9dc
	IDGzipPacked   uint32 = 0x3072cfa1
	IDMessage      uint32 = 0x5bb8e511
)

// WriteUint32 appends v in little-endian order.
func WriteUint32(b *Buffer, v uint32) {
	var p [4]byte
	binary.LittleEndian.PutUint32(p[:], v)
	b.Write(p[:])
}

// ReadUint32 consumes a little-endian 32-bit word.
func ReadUint32(b *Buffer) (uint32, error) {
	p, err := b.ReadN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p), nil
}

// WriteInt appends a signed 32-bit integer.
func WriteInt(b *Buffer, v int32) {
	WriteUint32(b, uint32(v))
}

// ReadInt consumes a signed 32-bit integer.
func ReadInt(b *Buffer) (int32, error) {
	v, err := ReadUint32(b)
	return int32(v), err
}

// WriteLong appends a signed 64-bit integer.
func WriteLong(b *Buffer, v int64) {
	var p [8]byte
	binary.LittleEndian.PutUint64(p[:], uint64(v))
	b.Write(p[:])
}

// ReadLong consumes a signed 64-bit integer.
func ReadLong(b *Buffer) (int64, error) {
	p, err := b.ReadN(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(p)), nil
}

// WriteInt128 appends a 128-bit integer given as exactly 16 raw bytes.
func WriteInt128(b *Buffer, v []byte) error {
	if len(v) != 16 {
		return fmt.Errorf("int128 value must be 16 bytes, got %d", len(v))
	}
	b.Write(v)
	return nil
}

// ReadInt128 consumes a 128-bit integer as 16 raw bytes.
func ReadInt128(b *Buffer) ([]byte, error) {
	p, err := b.ReadN(16)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 16)
	copy(out, p)
	return out, nil
}

// WriteInt256 appends a 256-bit integer given as exactly 32 raw bytes.
func WriteInt256(b *Buffer, v []byte) error {
	if len(v) != 32 {
		return fmt.Errorf("int256 value must be 32 bytes, got %d", len(v))
	}
	b.Write(v)
	return nil
}

// ReadInt256 consumes a 256-bit integer as 32 raw bytes.
func ReadInt256(b *Buffer) ([]byte, error) {
	p, err := b.ReadN(32)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 32)
	copy(out, p)
	return out, nil
}

// WriteDouble appends a 64-bit IEEE 754 float.
func WriteDouble(b *Buffer, v float64) {
	var p [8]byte
	binary.LittleEndian.PutUint64(p[:], math.Float64bits(v))
	b.Write(p[:])
}

// ReadDouble consumes a 64-bit IEEE 754 float.
func ReadDouble(b *Buffer) (float64, error) {
	p, err := b.ReadN(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(p)), nil
}

// WriteBytes appends a length-prefixed byte string padded to a 4-byte
// boundary: a single length byte for payloads under 254 bytes, otherwise the
// 0xfe marker followed by a 3-byte little-endian length.
func WriteBytes(b *Buffer, p []byte) {
	n := len(p)
	if n < 254 {
		b.WriteByte(byte(n))
		b.Write(p)
		padTo4(b, 1+n)
	} else {
		b.WriteByte(0xfe)
		b.WriteByte(byte(n))
		b.WriteByte(byte(n >> 8))
		b.WriteByte(byte(n >> 16))
		b.Write(p)
		padTo4(b, n)
	}
}

// ReadBytes consumes a length-prefixed byte string and its padding.
func ReadBytes(b *Buffer) ([]byte, error) {
	head, err := b.ReadN(1)
	if err != nil {
		return nil, err
	}
	var n, written int
	if head[0] < 254 {
		n = int(head[0])
		written = 1 + n
	} else {
		ext, err := b.ReadN(3)
		if err != nil {
			return nil, err
		}
		n = int(ext[0]) | int(ext[1])<<8 | int(ext[2])<<16
		written = n
	}
	p, err := b.ReadN(n)
	if err != nil {
		return nil, err
	}
	if pad := (4 - written%4) % 4; pad > 0 {
		if _, err := b.ReadN(pad); err != nil {
			return nil, err
		}
	}
	out := make([]byte, n)
	copy(out, p)
	return out, nil
}

// WriteString appends a UTF-8 string in the byte-string encoding.
func WriteString(b *Buffer, s string) {
	WriteBytes(b, []byte(s))
}

// ReadString consumes a UTF-8 string in the byte-string encoding.
func ReadString(b *Buffer) (string, error) {
	p, err := ReadBytes(b)
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// WriteBool appends a boolean as one of the two fixed constructor IDs.
func WriteBool(b *Buffer, v bool) {
	if v {
		WriteUint32(b, IDBoolTrue)
	} else {
		WriteUint32(b, IDBoolFalse)
	}
}

// ReadBool consumes a boolean constructor ID.
func ReadBool(b *Buffer) (bool, error) {
	id, err := ReadUint32(b)
	if err != nil {
		return false, err
	}
	switch id {
	case IDBoolTrue:
		return true, nil
	case IDBoolFalse:
		return false, nil
	default:
		return false, &UnknownConstructorError{ID: id}
	}
}

// WriteVectorHeader appends the vector constructor ID and element count.
// Element encodings follow, written by the caller.
func WriteVectorHeader(b *Buffer, n int) {
	WriteUint32(b, IDVector)
	WriteInt(b, int32(n))
}

// ReadVectorHeader consumes the vector constructor ID and returns the element
// count. Every element occupies at least four bytes, so a count the remaining
// input cannot hold is rejected here, before any allocation sized by it.
func ReadVectorHeader(b *Buffer) (int, error) {
	id, err := ReadUint32(b)
	if err != nil {
		return 0, err
	}
	if id != IDVector {
		return 0, &UnknownConstructorError{ID: id}
	}
	n, err := ReadInt(b)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative vector length %d", n)
	}
	if int(n) > b.Len()/4 {
		return 0, fmt.Errorf("vector length %d exceeds remaining input (%d bytes)", n, b.Len())
	}
	return int(n), nil
}

func padTo4(b *Buffer, written int) {
	for i := written % 4; i > 0 && i < 4; i++ {
		b.WriteByte(0)
	}
}
