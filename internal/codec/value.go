package codec

import (
	"github.com/tlwire/tlc/tl"
)

// Value is a dynamic instance of a combinator: a field map keyed by argument
// name, holding Go values matching the field's classification (int32, int64,
// []byte, float64, string, bool, []any, tl.Object). It implements tl.Object,
// so values nest inside other values and registry dispatch.
type Value struct {
	codec  *Codec
	Fields map[string]any
}

// New returns an empty value of this codec's combinator.
func (c *Codec) New() *Value {
	return &Value{codec: c, Fields: make(map[string]any)}
}

// Codec returns the codec this value belongs to.
func (v *Value) Codec() *Codec {
	return v.codec
}

// TypeID returns the combinator's constructor ID.
func (v *Value) TypeID() uint32 {
	return v.codec.id
}

// TypeName returns the combinator's qualified name.
func (v *Value) TypeName() string {
	return v.codec.name
}

// Set stores a field value and returns the value for chaining.
func (v *Value) Set(name string, val any) *Value {
	v.Fields[name] = val
	return v
}

// Get returns a field value and whether it is present.
func (v *Value) Get(name string) (any, bool) {
	val, ok := v.Fields[name]
	return val, ok
}

// Encode writes the full frame: constructor ID, then the field layout.
func (v *Value) Encode(b *tl.Buffer) error {
	tl.WriteUint32(b, v.codec.id)
	return v.codec.write(b, v)
}

// Decode reads the frame body; the constructor ID has already been consumed.
func (v *Value) Decode(b *tl.Buffer) error {
	return v.codec.read(b, v)
}
