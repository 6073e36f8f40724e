package tl

import "fmt"

// DeserializationError reports a constructor ID read inside a closed
// polymorphic slot that is not among the slot's known constructors. It is
// never substituted with a default value; the decode aborts.
type DeserializationError struct {
	Object       string
	Field        string
	ExpectedType string
	GotID        uint32
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf(
		"failed to deserialize %s object's field %s: expected %s type, got type with constructor 0x%08x",
		e.Object, e.Field, e.ExpectedType, e.GotID,
	)
}

// UnknownConstructorError reports a top-level constructor ID with no registry
// entry. It indicates protocol-version skew or transport corruption rather
// than a field-level type error, and is therefore distinct from
// DeserializationError.
type UnknownConstructorError struct {
	ID uint32
}

func (e *UnknownConstructorError) Error() string {
	return fmt.Sprintf("unknown constructor 0x%08x", e.ID)
}
