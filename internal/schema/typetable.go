package schema

import "strings"

// TypeTable holds the bidirectional indices between abstract types, their
// concrete constructors, the functions returning them, and their namespaces.
// It is derived once from the full combinator set and read-only afterwards,
// so codec generation may consult it from concurrent workers.
type TypeTable struct {
	// TypeToConstructors maps an abstract type's qualified name to the
	// qualified names of its concrete constructors (types section only).
	TypeToConstructors map[string][]string

	// TypeToFunctions maps a vector-unwrapped return type to the qualified
	// names of the functions yielding it.
	TypeToFunctions map[string][]string

	// ConstructorToFunctions maps a constructor to the functions that can
	// return its abstract type. Documentation cross-reference only; codec
	// correctness never depends on it.
	ConstructorToFunctions map[string][]string

	NamespaceToTypes        map[string][]string
	NamespaceToConstructors map[string][]string
	NamespaceToFunctions    map[string][]string
}

// UnwrapVector strips a single Vector<...> wrapper from a type name, if any.
func UnwrapVector(t string) string {
	if strings.HasPrefix(t, "Vector<") && strings.HasSuffix(t, ">") {
		return t[len("Vector<") : len(t)-1]
	}
	return t
}

// BuildTypeTable derives the type table from a parsed schema. Lists preserve
// first-seen order; namespace type buckets are deduplicated.
func BuildTypeTable(s *Schema) *TypeTable {
	t := &TypeTable{
		TypeToConstructors:      make(map[string][]string),
		TypeToFunctions:         make(map[string][]string),
		ConstructorToFunctions:  make(map[string][]string),
		NamespaceToTypes:        make(map[string][]string),
		NamespaceToConstructors: make(map[string][]string),
		NamespaceToFunctions:    make(map[string][]string),
	}

	for _, c := range s.Combinators {
		qualType := UnwrapVector(c.QualType)

		if c.Section == "types" {
			t.TypeToConstructors[qualType] = append(t.TypeToConstructors[qualType], c.QualName)

			if !contains(t.NamespaceToTypes[c.Namespace], c.Type) {
				t.NamespaceToTypes[c.Namespace] = append(t.NamespaceToTypes[c.Namespace], c.Type)
			}
			t.NamespaceToConstructors[c.Namespace] = append(t.NamespaceToConstructors[c.Namespace], c.Name)
		} else {
			t.TypeToFunctions[qualType] = append(t.TypeToFunctions[qualType], c.QualName)
			t.NamespaceToFunctions[c.Namespace] = append(t.NamespaceToFunctions[c.Namespace], c.Name)
		}
	}

	for qualType, constructors := range t.TypeToConstructors {
		funcs, ok := t.TypeToFunctions[qualType]
		if !ok {
			continue
		}
		for _, constructor := range constructors {
			t.ConstructorToFunctions[constructor] = funcs
		}
	}

	return t
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
