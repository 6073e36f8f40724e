package schema

// Schema is the parsed form of one or more concatenated TL documents.
type Schema struct {
	// Layer is the protocol version recorded by a "// LAYER n" marker.
	Layer int

	// Combinators holds every declaration in schema order. A combinator that
	// was replaced by a later duplicate keeps its original position.
	Combinators []*Combinator

	// ByName indexes combinators by qualified name.
	ByName map[string]*Combinator
}

// Combinator is one schema declaration: either a data-type constructor
// (section "types") or an RPC function signature (section "functions").
// Immutable once parsed.
type Combinator struct {
	Section   string
	QualName  string // namespace-qualified camel-cased name, e.g. "auth.SentCode"
	Namespace string // "" for the root namespace
	Name      string // camel-cased leaf name
	ID        uint32
	HasFlags  bool
	Args      []Argument
	QualType  string // qualified return type
	TypeSpace string
	Type      string // return type leaf name
}

// Argument is a single name:type token of a combinator. The raw type may
// encode a flag reference ("flags.1?Type"), a vector wrapper ("Vector<Type>")
// or the flags-word marker ("#"). Names are already normalized against
// reserved identifiers.
type Argument struct {
	Name string
	Type string
}
