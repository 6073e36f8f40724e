// Package schema parses TL schema text into an ordered set of combinator
// declarations and derives the type table consulted during codec generation.
package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	sectionRE    = regexp.MustCompile(`^---(\w+)---`)
	layerRE      = regexp.MustCompile(`^// LAYER (\d+)`)
	combinatorRE = regexp.MustCompile(`^([\w.]+)#([0-9a-f]+)\s(?:.*)=\s([\w<>.]+);$`)
	argsRE       = regexp.MustCompile(`[^{](\w+):([\w?!.<>#]+)`)
	flagsWordRE  = regexp.MustCompile(`flags(\d?):#`)
)

// reservedNames maps argument names that collide with target-language
// reserved identifiers to their fixed replacements. The mapping is bijective
// within any combinator: schema argument names never end in "_".
var reservedNames = map[string]string{
	"self":    "is_self",
	"from":    "from_",
	"type":    "type_",
	"func":    "func_",
	"range":   "range_",
	"map":     "map_",
	"chan":    "chan_",
	"default": "default_",
}

// ParseOptions controls schema parsing policy.
type ParseOptions struct {
	// AllowDuplicates restores the compatibility behavior where a later
	// declaration with an already-seen qualified name silently replaces the
	// earlier one. Off by default: duplicates are authoring errors.
	AllowDuplicates bool
}

// Parse parses schema text with default (strict) options.
func Parse(input string) (*Schema, error) {
	return ParseWithOptions(input, ParseOptions{})
}

// ParseWithOptions parses one or more concatenated TL documents. Lines that
// are not section markers, layer markers or combinator declarations are
// skipped: the schema is trusted, versioned input and comments and blank
// lines are expected.
func ParseWithOptions(input string, opts ParseOptions) (*Schema, error) {
	s := &Schema{ByName: make(map[string]*Combinator)}
	index := make(map[string]int)

	// Declarations before the first section marker are type constructors.
	section := "types"
	for _, line := range strings.Split(input, "\n") {
		if m := sectionRE.FindStringSubmatch(line); m != nil {
			section = m[1]
			continue
		}

		if m := layerRE.FindStringSubmatch(line); m != nil {
			layer, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("invalid layer marker %q: %w", line, err)
			}
			s.Layer = layer
			continue
		}

		m := combinatorRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		rawName, rawID, rawType := m[1], m[2], m[3]

		id64, err := strconv.ParseUint(rawID, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid constructor ID %q in %q: %w", rawID, rawName, err)
		}

		namespace, name := splitQualified(rawName)
		name = Camel(name)
		qualName := joinQualified(namespace, name)

		typeSpace, typeName := splitQualified(rawType)
		typeName = Camel(typeName)
		qualType := joinQualified(typeSpace, typeName)

		var args []Argument
		for _, am := range argsRE.FindAllStringSubmatch(line, -1) {
			args = append(args, Argument{Name: renameReserved(am[1]), Type: am[2]})
		}

		c := &Combinator{
			Section:   section,
			QualName:  qualName,
			Namespace: namespace,
			Name:      name,
			ID:        uint32(id64),
			HasFlags:  flagsWordRE.MatchString(line),
			Args:      args,
			QualType:  qualType,
			TypeSpace: typeSpace,
			Type:      typeName,
		}

		if at, seen := index[qualName]; seen {
			if !opts.AllowDuplicates {
				return nil, fmt.Errorf("duplicate combinator %q (IDs 0x%08x and 0x%08x)",
					qualName, s.Combinators[at].ID, c.ID)
			}
			// Last wins, keeping the original declaration position.
			s.Combinators[at] = c
			s.ByName[qualName] = c
			continue
		}

		index[qualName] = len(s.Combinators)
		s.Combinators = append(s.Combinators, c)
		s.ByName[qualName] = c
	}

	return s, nil
}

// Camel converts an underscore-delimited name to CamelCase, capitalizing the
// first letter of each segment.
func Camel(s string) string {
	segments := strings.Split(s, "_")
	var sb strings.Builder
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(seg[:1]))
		sb.WriteString(seg[1:])
	}
	return sb.String()
}

// Snake converts a CamelCase name to snake_case.
func Snake(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				prev := s[i-1]
				next := i+1 < len(s) && s[i+1] >= 'a' && s[i+1] <= 'z'
				if (prev >= 'a' && prev <= 'z') || (prev >= '0' && prev <= '9') || (prev >= 'A' && prev <= 'Z' && next) {
					sb.WriteByte('_')
				}
			}
			sb.WriteByte(byte(r) + ('a' - 'A'))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func splitQualified(s string) (namespace, leaf string) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

func joinQualified(namespace, leaf string) string {
	if namespace == "" {
		return leaf
	}
	return namespace + "." + leaf
}

func renameReserved(name string) string {
	if renamed, ok := reservedNames[name]; ok {
		return renamed
	}
	return name
}
