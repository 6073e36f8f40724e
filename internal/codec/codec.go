package codec

import (
	"fmt"
	"strings"

	"github.com/tlwire/tlc/internal/schema"
	"github.com/tlwire/tlc/tl"
)

// Codec is the generated artifact for one combinator: its constructor ID,
// exposed field layout and a write/read procedure pair producing and
// consuming the exact reference byte stream. Codecs are pure and reentrant
// over a buffer cursor; once built they carry no mutable state.
type Codec struct {
	id       uint32
	name     string // qualified name
	leaf     string // leaf name, used in deserialization errors
	section  string
	qualType string
	fields   []Field
	steps    []step
	reg      *tl.Registry // resolves open slots; set during registry assembly
}

// step is one wire-order instruction: either a computed flags word or a
// serialized field with its resolved type.
type step struct {
	isFlags   bool
	flagsName string
	members   []flagMember

	field *Field
	rt    *rtype
}

// flagMember ties a flags-word bit to the optional field whose presence
// drives it.
type flagMember struct {
	field *Field
	bit   int
}

// rtype is a FieldType resolved against the type table: object positions
// with a closed constructor set carry their dispatch map.
type rtype struct {
	t        *FieldType
	elem     *rtype
	dispatch map[uint32]*Codec // nil for open slots and non-objects
}

// ID returns the combinator's 32-bit constructor ID.
func (c *Codec) ID() uint32 { return c.id }

// Name returns the qualified combinator name.
func (c *Codec) Name() string { return c.name }

// Section returns "types" or "functions".
func (c *Codec) Section() string { return c.section }

// QualType returns the qualified return type.
func (c *Codec) QualType() string { return c.qualType }

// Fields returns the exposed field layout, in the ordering shared by the
// write routine, the read routine and generated documentation.
func (c *Codec) Fields() []Field { return c.fields }

// Leaf returns the camel-cased leaf name of the combinator.
func (c *Codec) Leaf() string { return c.leaf }

// Namespace returns the combinator's namespace, "" for the root.
func (c *Codec) Namespace() string {
	if i := strings.IndexByte(c.name, '.'); i >= 0 {
		return c.name[:i]
	}
	return ""
}

// WireStep is an exported view of one wire-order instruction, consumed by
// source emitters. Exactly one of FlagsWord or Field is set.
type WireStep struct {
	// FlagsWord is the flags-word argument name at this position, with the
	// optional fields whose presence drives its bits.
	FlagsWord string
	Members   []*Field

	Field *Field
}

// WireSteps returns the combinator's wire-order program.
func (c *Codec) WireSteps() []WireStep {
	steps := make([]WireStep, 0, len(c.steps))
	for i := range c.steps {
		st := &c.steps[i]
		if st.isFlags {
			ws := WireStep{FlagsWord: st.flagsName}
			for _, m := range st.members {
				ws.Members = append(ws.Members, m.field)
			}
			steps = append(steps, ws)
			continue
		}
		steps = append(steps, WireStep{Field: st.field})
	}
	return steps
}

// compile resolves the wire program against the frozen type table. byName
// maps qualified names to codec shells; it is read-only here.
func (c *Codec) compile(comb *schema.Combinator, table *schema.TypeTable, byName map[string]*Codec) error {
	byField := make(map[string]*Field, len(c.fields))
	for i := range c.fields {
		byField[c.fields[i].Name] = &c.fields[i]
	}

	for _, a := range comb.Args {
		if IsFlagsWord(a) {
			st := step{isFlags: true, flagsName: a.Name}
			for i := range c.fields {
				f := &c.fields[i]
				if f.Optional && f.FlagsWord == a.Name {
					st.members = append(st.members, flagMember{field: f, bit: f.Bit})
				}
			}
			c.steps = append(c.steps, st)
			continue
		}

		f, ok := byField[a.Name]
		if !ok {
			return fmt.Errorf("field %s: not in layout", a.Name)
		}
		rt, err := c.resolve(&f.Type, table, byName)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		c.steps = append(c.steps, step{field: f, rt: rt})
	}
	return nil
}

func (c *Codec) resolve(t *FieldType, table *schema.TypeTable, byName map[string]*Codec) (*rtype, error) {
	rt := &rtype{t: t}
	switch t.Class {
	case ClassVector:
		elem, err := c.resolve(t.Elem, table, byName)
		if err != nil {
			return nil, err
		}
		rt.elem = elem
	case ClassObject:
		if t.Open {
			break
		}
		constructors, ok := table.TypeToConstructors[t.TypeName]
		if !ok {
			return nil, fmt.Errorf("undeclared abstract type %q", t.TypeName)
		}
		rt.dispatch = make(map[uint32]*Codec, len(constructors))
		for _, qualName := range constructors {
			target, ok := byName[qualName]
			if !ok {
				return nil, fmt.Errorf("constructor %q of type %q has no codec", qualName, t.TypeName)
			}
			rt.dispatch[target.id] = target
		}
	}
	return rt, nil
}

// write serializes v's fields in wire order. Flags words are recomputed from
// current field presence on every call, never stored, so write/read stay
// symmetric even for hand-constructed values.
func (c *Codec) write(b *tl.Buffer, v *Value) error {
	for _, st := range c.steps {
		if st.isFlags {
			var flags uint32
			for _, m := range st.members {
				val, ok := v.Fields[m.field.Name]
				if fieldPresent(m.field, val, ok) {
					flags |= 1 << m.bit
				}
			}
			tl.WriteUint32(b, flags)
			continue
		}

		f := st.field
		val, ok := v.Fields[f.Name]
		if f.Optional {
			if !fieldPresent(f, val, ok) {
				continue
			}
		} else if !ok {
			return fmt.Errorf("%s: missing required field %s", c.name, f.Name)
		}
		if err := c.writeValue(b, st.rt, val); err != nil {
			return fmt.Errorf("%s.%s: %w", c.name, f.Name, err)
		}
	}
	return nil
}

// fieldPresent implements the presence rule: truthiness for true markers and
// vectors behind a flag, plain presence for everything else.
func fieldPresent(f *Field, val any, ok bool) bool {
	if !ok || val == nil {
		return false
	}
	switch {
	case f.Type.Class == ClassVector:
		items, _ := val.([]any)
		return len(items) > 0
	case f.Type.Class == ClassScalar && f.Type.Kind == KindTrue:
		set, _ := val.(bool)
		return set
	default:
		return true
	}
}

func (c *Codec) writeValue(b *tl.Buffer, rt *rtype, val any) error {
	switch rt.t.Class {
	case ClassScalar:
		return writeScalar(b, rt.t.Kind, val)
	case ClassVector:
		items, ok := val.([]any)
		if !ok {
			return fmt.Errorf("expected []any vector, got %T", val)
		}
		tl.WriteVectorHeader(b, len(items))
		for _, item := range items {
			if err := c.writeValue(b, rt.elem, item); err != nil {
				return err
			}
		}
		return nil
	default:
		obj, ok := val.(tl.Object)
		if !ok {
			return fmt.Errorf("expected object, got %T", val)
		}
		return obj.Encode(b)
	}
}

func writeScalar(b *tl.Buffer, kind Kind, val any) error {
	switch kind {
	case KindInt:
		v, ok := val.(int32)
		if !ok {
			return fmt.Errorf("expected int32, got %T", val)
		}
		tl.WriteInt(b, v)
	case KindLong:
		v, ok := val.(int64)
		if !ok {
			return fmt.Errorf("expected int64, got %T", val)
		}
		tl.WriteLong(b, v)
	case KindInt128:
		v, ok := val.([]byte)
		if !ok {
			return fmt.Errorf("expected []byte, got %T", val)
		}
		return tl.WriteInt128(b, v)
	case KindInt256:
		v, ok := val.([]byte)
		if !ok {
			return fmt.Errorf("expected []byte, got %T", val)
		}
		return tl.WriteInt256(b, v)
	case KindDouble:
		v, ok := val.(float64)
		if !ok {
			return fmt.Errorf("expected float64, got %T", val)
		}
		tl.WriteDouble(b, v)
	case KindBytes:
		v, ok := val.([]byte)
		if !ok {
			return fmt.Errorf("expected []byte, got %T", val)
		}
		tl.WriteBytes(b, v)
	case KindString:
		v, ok := val.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", val)
		}
		tl.WriteString(b, v)
	case KindBool:
		v, ok := val.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", val)
		}
		tl.WriteBool(b, v)
	case KindTrue:
		// Presence alone carries the information; zero bytes on the wire.
	}
	return nil
}

// read mirrors write field by field in the same order. Flags words gate their
// dependent optional fields; absent flagged vectors read as empty and absent
// true markers as false.
func (c *Codec) read(b *tl.Buffer, v *Value) error {
	var flags map[string]uint32
	for _, st := range c.steps {
		if st.isFlags {
			word, err := tl.ReadUint32(b)
			if err != nil {
				return err
			}
			if flags == nil {
				flags = make(map[string]uint32, 1)
			}
			flags[st.flagsName] = word
			continue
		}

		f := st.field
		if f.Optional {
			if flags[f.FlagsWord]&(1<<f.Bit) == 0 {
				switch {
				case f.Type.Class == ClassVector:
					v.Fields[f.Name] = []any{}
				case f.Type.Class == ClassScalar && f.Type.Kind == KindTrue:
					v.Fields[f.Name] = false
				}
				continue
			}
			if f.Type.Class == ClassScalar && f.Type.Kind == KindTrue {
				v.Fields[f.Name] = true
				continue
			}
		}

		val, err := c.readValue(b, st.rt, f)
		if err != nil {
			return err
		}
		v.Fields[f.Name] = val
	}
	return nil
}

func (c *Codec) readValue(b *tl.Buffer, rt *rtype, f *Field) (any, error) {
	switch rt.t.Class {
	case ClassScalar:
		return readScalar(b, rt.t.Kind)
	case ClassVector:
		n, err := tl.ReadVectorHeader(b)
		if err != nil {
			return nil, err
		}
		items := make([]any, 0, n)
		for i := 0; i < n; i++ {
			item, err := c.readValue(b, rt.elem, f)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	default:
		id, err := tl.ReadUint32(b)
		if err != nil {
			return nil, err
		}
		if rt.dispatch != nil {
			target, ok := rt.dispatch[id]
			if !ok {
				return nil, &tl.DeserializationError{
					Object:       c.leaf,
					Field:        f.Name,
					ExpectedType: rt.t.TypeName,
					GotID:        id,
				}
			}
			nested := target.New()
			if err := target.read(b, nested); err != nil {
				return nil, err
			}
			return nested, nil
		}

		// Universal placeholder: any registered constructor is acceptable.
		if c.reg == nil {
			return nil, fmt.Errorf("%s.%s: open slot requires a registry", c.name, f.Name)
		}
		factory, err := c.reg.Get(id)
		if err != nil {
			return nil, err
		}
		obj := factory()
		if err := obj.Decode(b); err != nil {
			return nil, err
		}
		return obj, nil
	}
}

func readScalar(b *tl.Buffer, kind Kind) (any, error) {
	switch kind {
	case KindInt:
		return tl.ReadInt(b)
	case KindLong:
		return tl.ReadLong(b)
	case KindInt128:
		return tl.ReadInt128(b)
	case KindInt256:
		return tl.ReadInt256(b)
	case KindDouble:
		return tl.ReadDouble(b)
	case KindBytes:
		return tl.ReadBytes(b)
	case KindString:
		return tl.ReadString(b)
	case KindBool:
		return tl.ReadBool(b)
	case KindTrue:
		return true, nil
	}
	return nil, fmt.Errorf("unhandled scalar kind %d", kind)
}
