package tl

import (
	"fmt"
	"sort"
)

// Object is a value with a TL wire representation. Encode writes the full
// frame, constructor ID included. Decode reads the body only; the ID has
// already been consumed by whoever dispatched to the object.
type Object interface {
	TypeID() uint32
	TypeName() string
	Encode(b *Buffer) error
	Decode(b *Buffer) error
}

// Factory produces an empty Object ready to decode into.
type Factory func() Object

// Registry maps constructor IDs to object factories. It is the sole mechanism
// for resolving an incoming frame's outermost type when no static type is
// known. Built once, read-only afterwards.
type Registry struct {
	factories map[uint32]Factory
}

// NewRegistry returns a registry pre-populated with the eight core and
// container constructors.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[uint32]Factory)}
	for id, f := range coreFactories {
		r.factories[id] = f
	}
	return r
}

// Add registers a factory. A duplicate constructor ID is an error: IDs must
// be globally unique across the whole registry.
func (r *Registry) Add(id uint32, f Factory) error {
	if _, ok := r.factories[id]; ok {
		return fmt.Errorf("duplicate constructor ID 0x%08x", id)
	}
	r.factories[id] = f
	return nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id uint32) bool {
	_, ok := r.factories[id]
	return ok
}

// Get returns the factory for id, or an UnknownConstructorError.
func (r *Registry) Get(id uint32) (Factory, error) {
	f, ok := r.factories[id]
	if !ok {
		return nil, &UnknownConstructorError{ID: id}
	}
	return f, nil
}

// Len returns the number of registered constructors.
func (r *Registry) Len() int {
	return len(r.factories)
}

// IDs returns all registered constructor IDs in ascending order.
func (r *Registry) IDs() []uint32 {
	ids := make([]uint32, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Decode reads one frame from b: the constructor ID is consumed, looked up,
// and the matching object decoded. Gzip-wrapped payloads are unpacked and
// resolved transparently.
func (r *Registry) Decode(b *Buffer) (Object, error) {
	id, err := ReadUint32(b)
	if err != nil {
		return nil, err
	}
	f, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	obj := f()
	if v, ok := obj.(*RawVector); ok {
		// Vector elements carry their own constructor IDs; resolve each
		// through the registry rather than the element type's Decode.
		n, err := ReadInt(b)
		if err != nil {
			return nil, err
		}
		if n < 0 || int(n) > b.Len()/4 {
			return nil, fmt.Errorf("vector length %d exceeds remaining input (%d bytes)", n, b.Len())
		}
		v.Items = make([]Object, 0, n)
		for i := int32(0); i < n; i++ {
			item, err := r.Decode(b)
			if err != nil {
				return nil, err
			}
			v.Items = append(v.Items, item)
		}
		return v, nil
	}
	if err := obj.Decode(b); err != nil {
		return nil, fmt.Errorf("decode %s: %w", obj.TypeName(), err)
	}
	if g, ok := obj.(*GzipPacked); ok {
		data, err := g.Unpack()
		if err != nil {
			return nil, err
		}
		return r.Decode(NewBuffer(data))
	}
	return obj, nil
}

var coreFactories = map[uint32]Factory{
	IDBoolFalse:    func() Object { return &BoolFalse{} },
	IDBoolTrue:     func() Object { return &BoolTrue{} },
	IDVector:       func() Object { return &RawVector{} },
	IDMsgContainer: func() Object { return &MsgContainer{} },
	IDFutureSalts:  func() Object { return &FutureSalts{} },
	IDFutureSalt:   func() Object { return &FutureSalt{} },
	IDGzipPacked:   func() Object { return &GzipPacked{} },
	IDMessage:      func() Object { return &Message{} },
}
