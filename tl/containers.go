package tl

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// BoolFalse is the boolFalse core constructor. It carries no body.
type BoolFalse struct{}

func (*BoolFalse) TypeID() uint32       { return IDBoolFalse }
func (*BoolFalse) TypeName() string     { return "boolFalse" }
func (*BoolFalse) Decode(*Buffer) error { return nil }
func (*BoolFalse) Encode(b *Buffer) error {
	WriteUint32(b, IDBoolFalse)
	return nil
}

// BoolTrue is the boolTrue core constructor. It carries no body.
type BoolTrue struct{}

func (*BoolTrue) TypeID() uint32       { return IDBoolTrue }
func (*BoolTrue) TypeName() string     { return "boolTrue" }
func (*BoolTrue) Decode(*Buffer) error { return nil }
func (*BoolTrue) Encode(b *Buffer) error {
	WriteUint32(b, IDBoolTrue)
	return nil
}

// RawVector is a top-level vector of registry-resolved objects. Its elements
// carry their own constructor IDs, so it can only be decoded through a
// Registry; Registry.Decode handles it transparently.
type RawVector struct {
	Items []Object
}

func (*RawVector) TypeID() uint32   { return IDVector }
func (*RawVector) TypeName() string { return "vector" }

func (v *RawVector) Encode(b *Buffer) error {
	WriteVectorHeader(b, len(v.Items))
	for _, item := range v.Items {
		if err := item.Encode(b); err != nil {
			return err
		}
	}
	return nil
}

func (v *RawVector) Decode(*Buffer) error {
	return fmt.Errorf("raw vector elements carry their own constructor IDs; decode through a Registry")
}

// Message is the MTProto message envelope: an identified body preceded by its
// message ID, sequence number and byte length. The body stays raw; resolve it
// with a Registry when needed.
type Message struct {
	MsgID int64
	SeqNo int32
	Body  []byte
}

func (*Message) TypeID() uint32   { return IDMessage }
func (*Message) TypeName() string { return "message" }

func (m *Message) Encode(b *Buffer) error {
	WriteUint32(b, IDMessage)
	return m.encodeBare(b)
}

func (m *Message) Decode(b *Buffer) error {
	return m.decodeBare(b)
}

func (m *Message) encodeBare(b *Buffer) error {
	WriteLong(b, m.MsgID)
	WriteInt(b, m.SeqNo)
	WriteInt(b, int32(len(m.Body)))
	b.Write(m.Body)
	return nil
}

func (m *Message) decodeBare(b *Buffer) error {
	var err error
	if m.MsgID, err = ReadLong(b); err != nil {
		return err
	}
	if m.SeqNo, err = ReadInt(b); err != nil {
		return err
	}
	length, err := ReadInt(b)
	if err != nil {
		return err
	}
	body, err := b.ReadN(int(length))
	if err != nil {
		return err
	}
	m.Body = append([]byte(nil), body...)
	return nil
}

// DecodeBody resolves the raw message body through r.
func (m *Message) DecodeBody(r *Registry) (Object, error) {
	return r.Decode(NewBuffer(m.Body))
}

// MsgContainer is the msg_container core type: a plain-counted sequence of
// bare message envelopes.
type MsgContainer struct {
	Messages []Message
}

func (*MsgContainer) TypeID() uint32   { return IDMsgContainer }
func (*MsgContainer) TypeName() string { return "msg_container" }

func (c *MsgContainer) Encode(b *Buffer) error {
	WriteUint32(b, IDMsgContainer)
	WriteInt(b, int32(len(c.Messages)))
	for i := range c.Messages {
		if err := c.Messages[i].encodeBare(b); err != nil {
			return err
		}
	}
	return nil
}

func (c *MsgContainer) Decode(b *Buffer) error {
	n, err := ReadInt(b)
	if err != nil {
		return err
	}
	// A bare message is at least 16 bytes.
	if n < 0 || int(n) > b.Len()/16 {
		return fmt.Errorf("message count %d exceeds remaining input (%d bytes)", n, b.Len())
	}
	c.Messages = make([]Message, n)
	for i := range c.Messages {
		if err := c.Messages[i].decodeBare(b); err != nil {
			return err
		}
	}
	return nil
}

// FutureSalt is a single server salt with its validity window.
type FutureSalt struct {
	ValidSince int32
	ValidUntil int32
	Salt       int64
}

func (*FutureSalt) TypeID() uint32   { return IDFutureSalt }
func (*FutureSalt) TypeName() string { return "future_salt" }

func (s *FutureSalt) Encode(b *Buffer) error {
	WriteUint32(b, IDFutureSalt)
	return s.encodeBare(b)
}

func (s *FutureSalt) Decode(b *Buffer) error {
	return s.decodeBare(b)
}

func (s *FutureSalt) encodeBare(b *Buffer) error {
	WriteInt(b, s.ValidSince)
	WriteInt(b, s.ValidUntil)
	WriteLong(b, s.Salt)
	return nil
}

func (s *FutureSalt) decodeBare(b *Buffer) error {
	var err error
	if s.ValidSince, err = ReadInt(b); err != nil {
		return err
	}
	if s.ValidUntil, err = ReadInt(b); err != nil {
		return err
	}
	s.Salt, err = ReadLong(b)
	return err
}

// FutureSalts is the future_salts core type: a plain-counted set of bare
// salts answering a specific request.
type FutureSalts struct {
	ReqMsgID int64
	Now      int32
	Salts    []FutureSalt
}

func (*FutureSalts) TypeID() uint32   { return IDFutureSalts }
func (*FutureSalts) TypeName() string { return "future_salts" }

func (s *FutureSalts) Encode(b *Buffer) error {
	WriteUint32(b, IDFutureSalts)
	WriteLong(b, s.ReqMsgID)
	WriteInt(b, s.Now)
	WriteInt(b, int32(len(s.Salts)))
	for i := range s.Salts {
		if err := s.Salts[i].encodeBare(b); err != nil {
			return err
		}
	}
	return nil
}

func (s *FutureSalts) Decode(b *Buffer) error {
	var err error
	if s.ReqMsgID, err = ReadLong(b); err != nil {
		return err
	}
	if s.Now, err = ReadInt(b); err != nil {
		return err
	}
	n, err := ReadInt(b)
	if err != nil {
		return err
	}
	// A bare salt is exactly 16 bytes.
	if n < 0 || int(n) > b.Len()/16 {
		return fmt.Errorf("salt count %d exceeds remaining input (%d bytes)", n, b.Len())
	}
	s.Salts = make([]FutureSalt, n)
	for i := range s.Salts {
		if err := s.Salts[i].decodeBare(b); err != nil {
			return err
		}
	}
	return nil
}

// GzipPacked wraps another frame's compressed bytes. Registry.Decode unpacks
// it transparently and resolves the inner frame.
type GzipPacked struct {
	PackedData []byte
}

func (*GzipPacked) TypeID() uint32   { return IDGzipPacked }
func (*GzipPacked) TypeName() string { return "gzip_packed" }

func (g *GzipPacked) Encode(b *Buffer) error {
	WriteUint32(b, IDGzipPacked)
	WriteBytes(b, g.PackedData)
	return nil
}

func (g *GzipPacked) Decode(b *Buffer) error {
	data, err := ReadBytes(b)
	if err != nil {
		return err
	}
	g.PackedData = data
	return nil
}

// Unpack decompresses the wrapped frame.
func (g *GzipPacked) Unpack() ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(g.PackedData))
	if err != nil {
		return nil, fmt.Errorf("gzip_packed: %w", err)
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip_packed: %w", err)
	}
	return data, nil
}

// GzipPack compresses an already-encoded frame into a GzipPacked wrapper.
func GzipPack(frame []byte) (*GzipPacked, error) {
	var out bytes.Buffer
	zw := gzip.NewWriter(&out)
	if _, err := zw.Write(frame); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return &GzipPacked{PackedData: out.Bytes()}, nil
}
