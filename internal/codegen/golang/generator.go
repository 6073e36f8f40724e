// Package golang emits compilable Go source for a built codec set: one file
// per namespace per section, a base-type manifest, a namespace manifest and
// the global constructor registry.
package golang

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tlwire/tlc/internal/codec"
	"github.com/tlwire/tlc/internal/codegen"
	"github.com/tlwire/tlc/internal/codegen/writer"
	"github.com/tlwire/tlc/internal/docs"
	"github.com/tlwire/tlc/internal/schema"
)

// DefaultRuntimeImport is the import path of the runtime package generated
// code targets when no override is configured.
const DefaultRuntimeImport = "github.com/tlwire/tlc/tl"

// Generator emits Go codec artifacts from a built codec set.
type Generator struct {
	opts codegen.Options
}

// NewGenerator creates a new Go code generator.
func NewGenerator(opts codegen.Options) *Generator {
	if opts.PackageName == "" {
		opts.PackageName = "tlschema"
	}
	if opts.RuntimeImport == "" {
		opts.RuntimeImport = DefaultRuntimeImport
	}
	return &Generator{opts: opts}
}

// Language returns the name of the target language.
func (g *Generator) Language() string {
	return "go"
}

// FileExtension returns the file extension for generated files.
func (g *Generator) FileExtension() string {
	return ".go"
}

// Generate renders the full artifact set. Output is deterministic: iteration
// follows schema order inside files and sorted namespace order across files.
func (g *Generator) Generate(set *codec.Set, d *docs.Table) ([]codegen.File, error) {
	var files []codegen.File

	if f := g.baseFile(set, d); f != nil {
		files = append(files, *f)
	}

	for _, section := range []string{"types", "functions"} {
		buckets := make(map[string][]*codec.Codec)
		var order []string
		for _, c := range set.Codecs {
			if c.Section() != section {
				continue
			}
			ns := c.Namespace()
			if _, ok := buckets[ns]; !ok {
				order = append(order, ns)
			}
			buckets[ns] = append(buckets[ns], c)
		}
		sort.Strings(order)

		for _, ns := range order {
			f, err := g.sectionFile(set, d, section, ns, buckets[ns])
			if err != nil {
				return nil, err
			}
			files = append(files, *f)
		}
	}

	files = append(files, g.manifestFile(set))
	files = append(files, g.registryFile(set))
	return files, nil
}

func (g *Generator) header(w *writer.Writer, withRuntime bool) {
	w.WriteComment("Code generated by tlc. DO NOT EDIT.")
	w.BlankLine()
	w.WriteLinef("package %s", g.opts.PackageName)
	w.BlankLine()
	if withRuntime {
		w.WriteLine("import (")
		w.Indent()
		w.WriteLinef("%q", g.opts.RuntimeImport)
		w.Dedent()
		w.WriteLine(")")
		w.BlankLine()
	}
}

// baseFile emits one interface and one dispatch function per abstract type.
func (g *Generator) baseFile(set *codec.Set, d *docs.Table) *codegen.File {
	if len(set.Table.TypeToConstructors) == 0 {
		return nil
	}

	qualTypes := make([]string, 0, len(set.Table.TypeToConstructors))
	for qualType := range set.Table.TypeToConstructors {
		qualTypes = append(qualTypes, qualType)
	}
	sort.Strings(qualTypes)

	w := writer.NewWriter("\t")
	g.header(w, true)

	for _, qualType := range qualTypes {
		name := className(qualType)
		constructors := set.Table.TypeToConstructors[qualType]

		w.WriteLinef("// %s represents the %s abstract type.", name, qualType)
		if g.opts.IncludeComments {
			w.WriteLine("//")
			w.WriteDocComment(d.TypeDesc(qualType))
			w.WriteLine("//")
			w.WriteLine("// Constructors:")
			for _, qualName := range constructors {
				w.WriteLinef("//   - %s", qualName)
			}
			if funcs := set.Table.TypeToFunctions[qualType]; len(funcs) > 0 {
				w.WriteLine("//")
				w.WriteLine("// Returned by:")
				for _, fn := range funcs {
					w.WriteLinef("//   - %s", fn)
				}
			}
		}
		w.WriteLinef("type %s interface {", name)
		w.Indent()
		w.WriteLine("tl.Object")
		w.Dedent()
		w.WriteLine("}")
		w.BlankLine()

		w.WriteLinef("// Decode%s reads one %s frame: the peeked constructor ID must", name, qualType)
		w.WriteLine("// belong to the type's closed constructor set.")
		w.WriteLinef("func Decode%s(b *tl.Buffer, owner, field string) (%s, error) {", name, name)
		w.Indent()
		w.WriteLine("id, err := tl.ReadUint32(b)")
		w.WriteLine("if err != nil {")
		w.Indent()
		w.WriteLine("return nil, err")
		w.Dedent()
		w.WriteLine("}")
		w.WriteLine("switch id {")
		for _, qualName := range constructors {
			target := set.ByName[qualName]
			if target == nil {
				continue
			}
			sn := structName(target)
			w.WriteLinef("case %sID:", sn)
			w.Indent()
			w.WriteLinef("v := &%s{}", sn)
			w.WriteLine("if err := v.Decode(b); err != nil {")
			w.Indent()
			w.WriteLine("return nil, err")
			w.Dedent()
			w.WriteLine("}")
			w.WriteLine("return v, nil")
			w.Dedent()
		}
		w.WriteLine("default:")
		w.Indent()
		w.WriteLinef("return nil, &tl.DeserializationError{Object: owner, Field: field, ExpectedType: %q, GotID: id}", qualType)
		w.Dedent()
		w.WriteLine("}")
		w.Dedent()
		w.WriteLine("}")
		w.BlankLine()
	}

	return &codegen.File{Path: "tl_base_gen" + g.FileExtension(), Data: w.Bytes()}
}

func (g *Generator) sectionFile(set *codec.Set, d *docs.Table, section, ns string, codecs []*codec.Codec) (*codegen.File, error) {
	w := writer.NewWriter("\t")
	g.header(w, true)

	for _, c := range codecs {
		if err := g.emitCombinator(w, set, d, c); err != nil {
			return nil, err
		}
	}

	name := "tl_" + section
	if ns != "" {
		name += "_" + schema.Snake(ns)
	}
	return &codegen.File{Path: name + "_gen" + g.FileExtension(), Data: w.Bytes()}, nil
}

func (g *Generator) emitCombinator(w *writer.Writer, set *codec.Set, d *docs.Table, c *codec.Codec) error {
	sn := structName(c)

	var desc string
	if c.Section() == "functions" {
		desc = d.MethodDesc(c.Name())
	} else {
		desc = d.ConstructorDesc(c.Name())
	}

	w.WriteLinef("// %sID is the constructor ID of %s.", sn, c.Name())
	w.WriteLinef("const %sID uint32 = 0x%08x", sn, c.ID())
	w.BlankLine()

	w.WriteLinef("// %s represents the %s combinator.", sn, c.Name())
	if g.opts.IncludeComments {
		w.WriteLine("//")
		w.WriteDocComment(desc)
		w.WriteLine("//")
		w.WriteLinef("// Layer %d, returns %s.", set.Layer, c.QualType())
	}
	w.WriteLinef("type %s struct {", sn)
	w.Indent()
	fields := c.Fields()
	for i := range fields {
		f := &fields[i]
		if g.opts.IncludeComments {
			if param := d.Param(c.Section(), c.Name(), f.Name); param != "N/A" {
				w.WriteDocComment(param)
			}
		}
		w.WriteLinef("%s %s // %s:%s", goName(f.Name), fieldGoType(f), f.Name, f.RawType)
	}
	w.Dedent()
	w.WriteLine("}")
	w.BlankLine()

	w.WriteLinef("func (v *%s) TypeID() uint32 { return %sID }", sn, sn)
	w.BlankLine()
	w.WriteLinef("func (v *%s) TypeName() string { return %q }", sn, c.Name())
	w.BlankLine()

	g.emitEncode(w, c, sn)
	w.BlankLine()
	g.emitDecode(w, c, sn)
	w.BlankLine()
	return nil
}

func (g *Generator) emitEncode(w *writer.Writer, c *codec.Codec, sn string) {
	w.WriteLinef("func (v *%s) Encode(b *tl.Buffer) error {", sn)
	w.Indent()
	w.WriteLinef("tl.WriteUint32(b, %sID)", sn)

	for _, st := range c.WireSteps() {
		if st.FlagsWord != "" {
			if len(st.Members) == 0 {
				w.WriteLine("tl.WriteUint32(b, 0)")
				continue
			}
			w.WriteLinef("var %s uint32", st.FlagsWord)
			for _, f := range st.Members {
				w.WriteLinef("if %s {", presenceCond(f, "v."+goName(f.Name)))
				w.Indent()
				w.WriteLinef("%s |= 1 << %d", st.FlagsWord, f.Bit)
				w.Dedent()
				w.WriteLine("}")
			}
			w.WriteLinef("tl.WriteUint32(b, %s)", st.FlagsWord)
			continue
		}

		f := st.Field
		expr := "v." + goName(f.Name)
		if f.Optional {
			if f.Type.Class == codec.ClassScalar && f.Type.Kind == codec.KindTrue {
				// The flags bit alone carries the information.
				continue
			}
			w.WriteLinef("if %s {", presenceCond(f, expr))
			w.Indent()
			if usesPointer(f) {
				expr = "*" + expr
			}
			g.emitWriteValue(w, &f.Type, expr, 0)
			w.Dedent()
			w.WriteLine("}")
			continue
		}
		g.emitWriteValue(w, &f.Type, expr, 0)
	}

	w.WriteLine("return nil")
	w.Dedent()
	w.WriteLine("}")
}

func (g *Generator) emitWriteValue(w *writer.Writer, t *codec.FieldType, expr string, depth int) {
	switch t.Class {
	case codec.ClassScalar:
		switch t.Kind {
		case codec.KindInt:
			w.WriteLinef("tl.WriteInt(b, %s)", expr)
		case codec.KindLong:
			w.WriteLinef("tl.WriteLong(b, %s)", expr)
		case codec.KindInt128:
			g.emitErrCall(w, fmt.Sprintf("tl.WriteInt128(b, %s)", expr))
		case codec.KindInt256:
			g.emitErrCall(w, fmt.Sprintf("tl.WriteInt256(b, %s)", expr))
		case codec.KindDouble:
			w.WriteLinef("tl.WriteDouble(b, %s)", expr)
		case codec.KindBytes:
			w.WriteLinef("tl.WriteBytes(b, %s)", expr)
		case codec.KindString:
			w.WriteLinef("tl.WriteString(b, %s)", expr)
		case codec.KindBool:
			w.WriteLinef("tl.WriteBool(b, %s)", expr)
		case codec.KindTrue:
			// Zero bytes on the wire.
		}
	case codec.ClassVector:
		w.WriteLinef("tl.WriteVectorHeader(b, len(%s))", expr)
		item := fmt.Sprintf("item%d", depth)
		w.WriteLinef("for _, %s := range %s {", item, expr)
		w.Indent()
		g.emitWriteValue(w, t.Elem, item, depth+1)
		w.Dedent()
		w.WriteLine("}")
	case codec.ClassObject:
		g.emitErrCall(w, expr+".Encode(b)")
	}
}

func (g *Generator) emitDecode(w *writer.Writer, c *codec.Codec, sn string) {
	w.WriteLinef("func (v *%s) Decode(b *tl.Buffer) error {", sn)
	w.Indent()

	for _, st := range c.WireSteps() {
		if st.FlagsWord != "" {
			if len(st.Members) == 0 {
				w.WriteLine("if _, err := tl.ReadUint32(b); err != nil {")
				w.Indent()
				w.WriteLine("return err")
				w.Dedent()
				w.WriteLine("}")
				continue
			}
			w.WriteLinef("%s, err := tl.ReadUint32(b)", st.FlagsWord)
			w.WriteLine("if err != nil {")
			w.Indent()
			w.WriteLine("return err")
			w.Dedent()
			w.WriteLine("}")
			continue
		}

		f := st.Field
		target := "v." + goName(f.Name)
		if f.Optional {
			if f.Type.Class == codec.ClassScalar && f.Type.Kind == codec.KindTrue {
				w.WriteLinef("%s = %s&(1<<%d) != 0", target, f.FlagsWord, f.Bit)
				continue
			}
			w.WriteLinef("if %s&(1<<%d) != 0 {", f.FlagsWord, f.Bit)
			w.Indent()
			val := g.emitReadValue(w, &f.Type, c.Leaf(), f.Name, 0)
			if usesPointer(f) {
				w.WriteLinef("%s = &%s", target, val)
			} else {
				w.WriteLinef("%s = %s", target, val)
			}
			w.Dedent()
			w.WriteLine("}")
			continue
		}

		w.WriteLine("{")
		w.Indent()
		val := g.emitReadValue(w, &f.Type, c.Leaf(), f.Name, 0)
		w.WriteLinef("%s = %s", target, val)
		w.Dedent()
		w.WriteLine("}")
	}

	w.WriteLine("return nil")
	w.Dedent()
	w.WriteLine("}")
}

// emitReadValue emits statements decoding one value of type t into a fresh
// variable and returns that variable's name.
func (g *Generator) emitReadValue(w *writer.Writer, t *codec.FieldType, owner, field string, depth int) string {
	val := fmt.Sprintf("value%d", depth)
	switch t.Class {
	case codec.ClassScalar:
		if t.Kind == codec.KindTrue {
			w.WriteLinef("%s := true", val)
			return val
		}
		w.WriteLinef("%s, err := tl.Read%s(b)", val, readSuffix(t.Kind))
		g.emitErrReturn(w)
	case codec.ClassVector:
		count := fmt.Sprintf("count%d", depth)
		idx := fmt.Sprintf("i%d", depth)
		w.WriteLinef("%s, err := tl.ReadVectorHeader(b)", count)
		g.emitErrReturn(w)
		w.WriteLinef("%s := make(%s, 0, %s)", val, goType(t), count)
		w.WriteLinef("for %s := 0; %s < %s; %s++ {", idx, idx, count, idx)
		w.Indent()
		inner := g.emitReadValue(w, t.Elem, owner, field, depth+1)
		w.WriteLinef("%s = append(%s, %s)", val, val, inner)
		w.Dedent()
		w.WriteLine("}")
	case codec.ClassObject:
		if t.Open {
			w.WriteLinef("%s, err := DecodeAny(b)", val)
		} else {
			w.WriteLinef("%s, err := Decode%s(b, %q, %q)", val, className(t.TypeName), owner, field)
		}
		g.emitErrReturn(w)
	}
	return val
}

func (g *Generator) emitErrCall(w *writer.Writer, call string) {
	w.WriteLinef("if err := %s; err != nil {", call)
	w.Indent()
	w.WriteLine("return err")
	w.Dedent()
	w.WriteLine("}")
}

func (g *Generator) emitErrReturn(w *writer.Writer) {
	w.WriteLine("if err != nil {")
	w.Indent()
	w.WriteLine("return err")
	w.Dedent()
	w.WriteLine("}")
}

// manifestFile emits the per-namespace manifests: visible abstract types,
// constructors and functions.
func (g *Generator) manifestFile(set *codec.Set) codegen.File {
	w := writer.NewWriter("\t")
	g.header(w, false)

	emit := func(name, doc string, m map[string][]string) {
		w.WriteLinef("// %s %s", name, doc)
		w.WriteLinef("var %s = map[string][]string{", name)
		w.Indent()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			var sb strings.Builder
			for i, item := range m[k] {
				if i > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "%q", item)
			}
			w.WriteLinef("%q: {%s},", k, sb.String())
		}
		w.Dedent()
		w.WriteLine("}")
		w.BlankLine()
	}

	emit("NamespaceTypes", "lists the visible abstract types per namespace.", set.Table.NamespaceToTypes)
	emit("NamespaceConstructors", "lists the visible constructors per namespace.", set.Table.NamespaceToConstructors)
	emit("NamespaceFunctions", "lists the visible functions per namespace.", set.Table.NamespaceToFunctions)

	return codegen.File{Path: "tl_manifest_gen" + g.FileExtension(), Data: w.Bytes()}
}

// registryFile emits the layer constant and the flat global registry mapping
// every combinator's constructor ID, plus the eight core and container IDs,
// to its codec.
func (g *Generator) registryFile(set *codec.Set) codegen.File {
	w := writer.NewWriter("\t")
	g.header(w, true)

	w.WriteLine("// Layer is the protocol schema version these artifacts were generated from.")
	w.WriteLinef("const Layer = %d", set.Layer)
	w.BlankLine()

	w.WriteLine("// NewRegistry returns the global constructor registry: every combinator")
	w.WriteLine("// of this layer plus the eight core and container constructors.")
	w.WriteLine("func NewRegistry() *tl.Registry {")
	w.Indent()
	w.WriteLine("r := tl.NewRegistry()")
	for _, c := range set.Codecs {
		sn := structName(c)
		w.WriteLinef("mustAdd(r, %sID, func() tl.Object { return &%s{} })", sn, sn)
	}
	w.WriteLine("return r")
	w.Dedent()
	w.WriteLine("}")
	w.BlankLine()

	w.WriteLine("// Registry is the shared registry instance used for open-slot dispatch.")
	w.WriteLine("var Registry = NewRegistry()")
	w.BlankLine()

	w.WriteLine("// DecodeAny resolves a frame whose outermost type is not statically known.")
	w.WriteLine("func DecodeAny(b *tl.Buffer) (tl.Object, error) {")
	w.Indent()
	w.WriteLine("return Registry.Decode(b)")
	w.Dedent()
	w.WriteLine("}")
	w.BlankLine()

	w.WriteLine("func mustAdd(r *tl.Registry, id uint32, f tl.Factory) {")
	w.Indent()
	w.WriteLine("if err := r.Add(id, f); err != nil {")
	w.Indent()
	w.WriteLine("panic(err)")
	w.Dedent()
	w.WriteLine("}")
	w.Dedent()
	w.WriteLine("}")

	return codegen.File{Path: "tl_registry_gen" + g.FileExtension(), Data: w.Bytes()}
}

// structName maps a combinator to its generated Go type name. Function
// combinators get a Request suffix so a type and a function sharing a leaf
// name never collide.
func structName(c *codec.Codec) string {
	name := schema.Camel(c.Namespace()) + c.Leaf()
	if c.Section() == "functions" {
		name += "Request"
	}
	return name
}

// className maps an abstract type's qualified name to its generated
// interface name.
func className(qualType string) string {
	ns, leaf, ok := strings.Cut(qualType, ".")
	if !ok {
		return qualType + "Class"
	}
	return schema.Camel(ns) + leaf + "Class"
}

func goName(argName string) string {
	return schema.Camel(argName)
}

var kindGoTypes = map[codec.Kind]string{
	codec.KindInt:    "int32",
	codec.KindLong:   "int64",
	codec.KindInt128: "[]byte",
	codec.KindInt256: "[]byte",
	codec.KindDouble: "float64",
	codec.KindBytes:  "[]byte",
	codec.KindString: "string",
	codec.KindBool:   "bool",
	codec.KindTrue:   "bool",
}

var kindReadSuffixes = map[codec.Kind]string{
	codec.KindInt:    "Int",
	codec.KindLong:   "Long",
	codec.KindInt128: "Int128",
	codec.KindInt256: "Int256",
	codec.KindDouble: "Double",
	codec.KindBytes:  "Bytes",
	codec.KindString: "String",
	codec.KindBool:   "Bool",
}

func readSuffix(k codec.Kind) string {
	return kindReadSuffixes[k]
}

func goType(t *codec.FieldType) string {
	switch t.Class {
	case codec.ClassScalar:
		return kindGoTypes[t.Kind]
	case codec.ClassVector:
		return "[]" + goType(t.Elem)
	default:
		if t.Open {
			return "tl.Object"
		}
		return className(t.TypeName)
	}
}

// usesPointer reports whether an optional field is stored behind a pointer.
// Slices, interfaces and true markers have a natural absent state already.
func usesPointer(f *codec.Field) bool {
	if !f.Optional || f.Type.Class != codec.ClassScalar {
		return false
	}
	switch f.Type.Kind {
	case codec.KindInt, codec.KindLong, codec.KindDouble, codec.KindString, codec.KindBool:
		return true
	}
	return false
}

// fieldGoType returns the Go type of a stored struct field.
func fieldGoType(f *codec.Field) string {
	t := goType(&f.Type)
	if usesPointer(f) {
		return "*" + t
	}
	return t
}

// presenceCond returns the Go expression deciding a field's flags bit and
// write gating: truthiness for true markers and vectors, nil checks for
// everything else.
func presenceCond(f *codec.Field, expr string) string {
	switch {
	case f.Type.Class == codec.ClassVector:
		return fmt.Sprintf("len(%s) > 0", expr)
	case f.Type.Class == codec.ClassScalar && f.Type.Kind == codec.KindTrue:
		return expr
	default:
		return expr + " != nil"
	}
}
