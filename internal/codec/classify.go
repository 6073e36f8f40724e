// Package codec compiles parsed combinators into in-memory codec artifacts:
// one write/read procedure pair per combinator plus the global constructor
// registry resolving arbitrary incoming frames.
package codec

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/tlwire/tlc/internal/schema"
)

// Class partitions argument types by wire shape.
type Class int

const (
	ClassScalar Class = iota
	ClassVector
	ClassObject
)

// Kind enumerates the closed set of core scalar types.
type Kind int

const (
	KindInt Kind = iota
	KindLong
	KindInt128
	KindInt256
	KindDouble
	KindBytes
	KindString
	KindBool
	KindTrue
)

var coreKinds = map[string]Kind{
	"int":    KindInt,
	"long":   KindLong,
	"int128": KindInt128,
	"int256": KindInt256,
	"double": KindDouble,
	"bytes":  KindBytes,
	"string": KindString,
	"Bool":   KindBool,
	"true":   KindTrue,
}

var (
	flagRE     = regexp.MustCompile(`^flags(\d?)\.(\d+)\?(.+)$`)
	flagsArgRE = regexp.MustCompile(`^flags\d?$`)
	vectorRE   = regexp.MustCompile(`(?i)^vector<(.+)>$`)
)

// FieldType is the classified shape of an argument's actual type.
type FieldType struct {
	Class Class

	// Kind is set for ClassScalar.
	Kind Kind

	// Elem is set for ClassVector.
	Elem *FieldType

	// TypeName is set for ClassObject: the abstract type's qualified name.
	// Open marks the two universal placeholders (generic object and generic
	// function result), resolved only through the global registry.
	TypeName string
	Open     bool
}

// Field is one classified stored field of a combinator. Flags-word arguments
// are not Fields: no value is stored for them, their bits are recomputed at
// write time and consumed at read time.
type Field struct {
	Name     string
	RawType  string
	Optional bool
	// FlagsWord and Bit identify the gating bit for optional fields.
	FlagsWord string
	Bit       int
	Type      FieldType
}

// IsFlagsWord reports whether an argument is a flags-word marker (name
// "flags" or "flagsN", raw type "#").
func IsFlagsWord(a schema.Argument) bool {
	return a.Type == "#" && flagsArgRE.MatchString(a.Name)
}

// ClassifyArg classifies a non-flags-word argument.
func ClassifyArg(a schema.Argument) (Field, error) {
	f := Field{Name: a.Name, RawType: a.Type}

	actual := a.Type
	if m := flagRE.FindStringSubmatch(a.Type); m != nil {
		f.Optional = true
		f.FlagsWord = "flags" + m[1]
		bit, err := strconv.Atoi(m[2])
		if err != nil {
			return Field{}, fmt.Errorf("argument %s: invalid flag bit in %q", a.Name, a.Type)
		}
		f.Bit = bit
		actual = m[3]
	}

	t, err := classifyType(actual)
	if err != nil {
		return Field{}, fmt.Errorf("argument %s: %w", a.Name, err)
	}
	f.Type = t
	return f, nil
}

func classifyType(raw string) (FieldType, error) {
	if kind, ok := coreKinds[raw]; ok {
		return FieldType{Class: ClassScalar, Kind: kind}, nil
	}

	if m := vectorRE.FindStringSubmatch(raw); m != nil {
		elem, err := classifyType(m[1])
		if err != nil {
			return FieldType{}, err
		}
		if elem.Class == ClassScalar && elem.Kind == KindTrue {
			return FieldType{}, fmt.Errorf("vector of bare true markers in %q", raw)
		}
		return FieldType{Class: ClassVector, Elem: &elem}, nil
	}

	if raw == "Object" || raw == "!X" {
		return FieldType{Class: ClassObject, TypeName: raw, Open: true}, nil
	}

	return FieldType{Class: ClassObject, TypeName: raw}, nil
}

// Layout classifies a combinator's arguments into its exposed field list:
// declaration order, flags-word entries removed, flagged-optional fields
// sorted after required ones. The same ordering is shared by the value field
// set, the write routine, the read routine and generated documentation.
func Layout(args []schema.Argument) ([]Field, error) {
	var required, optional []Field
	for _, a := range args {
		if IsFlagsWord(a) {
			continue
		}
		f, err := ClassifyArg(a)
		if err != nil {
			return nil, err
		}
		if f.Optional {
			optional = append(optional, f)
		} else {
			required = append(required, f)
		}
	}
	return append(required, optional...), nil
}
