// Package backend defines the contract a target language implements to be
// driven by the generation engine. The engine owns traversal, resolution,
// naming and import bookkeeping; a backend only supplies leaf decisions:
// keywords for scalars, container syntax and declaration text.
package backend

import (
	"slices"

	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/normalizer"
)

// Capabilities are the support flags the engine queries before it attempts
// certain shapes.
type Capabilities struct {
	// Extends is false when the target has no struct inheritance; the
	// engine then flattens parent properties into the child.
	Extends bool
	// Generics is false when the target has no type parameters; the engine
	// then substitutes templates inline.
	Generics bool
	// SingleFile bundles every definition into one document
	SingleFile bool
}

// Backend is a target language
type Backend interface {
	// Name identifies the backend in configs and errors (e.g. "go")
	Name() string
	Capabilities() Capabilities
	Normalizer() normalizer.Normalizer
	TypeMapper() TypeMapper
	Writer() Writer
}

// TypeMapper renders type expressions
type TypeMapper interface {
	// String renders a string, format is FormatNone or one of the string
	// formats. Targets without a native type fall back to their string.
	String(format ir.Format) string
	// Integer renders an integer, format is FormatNone, FormatInt32 or FormatInt64
	Integer(format ir.Format) string
	Number() string
	Boolean() string
	Any() string
	Array(item string) string
	Map(value string) string
	// Group parenthesises a combinator that is itself a member of a combinator
	Group(t string) string
	Union(members []string) string
	Intersection(members []string) string
	// Generic renders an instantiation of a generic type
	Generic(base string, args []string) string
	// Namespaced renders a type imported under an alias
	Namespaced(namespace, name string) string
}

// Writer renders declarations and assembles documents
type Writer interface {
	WriteStruct(decl StructDecl) (string, error)
	WriteMap(decl MapDecl) (string, error)
	WriteArray(decl ArrayDecl) (string, error)
	WriteAlias(decl AliasDecl) (string, error)
	// Imports returns the import statements a document needs
	Imports(namespace string, usage Usage) []string
	// Document wraps rendered bodies into the content of one file
	Document(doc Document) (string, error)
}

// Name is a raw schema identifier together with its normalised forms
type Name struct {
	Raw      string
	Class    string
	Property string
	Argument string
	File     string

	n normalizer.Normalizer
}

// NewName normalises raw with n
func NewName(raw string, n normalizer.Normalizer) Name {
	return Name{
		Raw:      raw,
		Class:    n.Class(raw),
		Property: n.Property(raw),
		Argument: n.Argument(raw),
		File:     n.File(raw),
		n:        n,
	}
}

// Method returns the method identifier for the name with optional prefix
// words, e.g. Method("get") for an accessor.
func (n Name) Method(prefix ...string) string {
	if n.n == nil {
		return n.Raw
	}
	return n.n.Method(n.Raw, prefix...)
}

// Property is a rendered struct member
type Property struct {
	Name        Name
	Type        string
	Required    bool
	Nullable    bool
	Deprecated  bool
	Readonly    bool
	Description string
	// Reference is set when the type is a reference to another definition
	Reference bool
	Origin    ir.Type
}

// Subtype is a rendered discriminator mapping entry
type Subtype struct {
	Type  string
	Value string
}

// StructDecl is handed to Writer.WriteStruct
type StructDecl struct {
	Name        Name
	Description string
	Deprecated  bool
	Properties  []Property
	// Extends is the rendered parent type, empty without a parent or when
	// the parent was flattened.
	Extends string
	// Generics are the rendered type parameters
	Generics      []string
	Discriminator string
	Mapping       []Subtype
	Base          bool
	Origin        *ir.StructType
}

// MapDecl is handed to Writer.WriteMap
type MapDecl struct {
	Name        Name
	Description string
	Value       string
	Origin      *ir.MapType
}

// ArrayDecl is handed to Writer.WriteArray
type ArrayDecl struct {
	Name        Name
	Description string
	Item        string
	Origin      *ir.ArrayType
}

// AliasDecl is handed to Writer.WriteAlias for reference, union and
// scalar definitions.
type AliasDecl struct {
	Name        Name
	Description string
	Target      string
	Origin      ir.Type
}

// External is a type imported through an import alias
type External struct {
	Alias     string
	Namespace string
	Name      string
}

// Usage summarises what a document uses. Formats and flags cover every
// node reachable from the document; References only lists the definitions
// the document refers to directly. Subtypes are the discriminator mapping
// targets that are not also References.
type Usage struct {
	Formats []ir.Format
	// DirectFormats are the formats of the document's own nodes
	DirectFormats []ir.Format
	Any           bool
	Map           bool
	Array         bool
	Union         bool
	Intersection  bool
	Generics      bool
	Discriminator bool
	Nullable      bool
	References    []Name
	Subtypes      []Name
	External      []External
}

// HasFormat reports whether any of f is used
func (u Usage) HasFormat(f ...ir.Format) bool {
	return containsAny(u.Formats, f)
}

// HasDirectFormat reports whether any of f is used by the document's own nodes
func (u Usage) HasDirectFormat(f ...ir.Format) bool {
	return containsAny(u.DirectFormats, f)
}

func containsAny(formats, f []ir.Format) bool {
	for _, x := range f {
		if slices.Contains(formats, x) {
			return true
		}
	}
	return false
}

// Document is one output file before assembly
type Document struct {
	// Name is the definition the document holds; for single-file
	// backends it is the bundle name.
	Name      Name
	Namespace string
	Imports   []string
	Bodies    []string
	Usage     Usage
	// Root is set on the document holding the schema entry point
	Root bool
	// Entry is the raw name of the entry point definition, empty when the
	// schema has none
	Entry string
}
