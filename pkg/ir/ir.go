// Package ir holds the type intermediate representation every generator
// target renders from: type nodes, the definitions registry and the schema.
//
// Nodes are immutable once built. Loaders assemble them through the Spec
// values and the StructBuilder, then hand the finished nodes to a
// Definitions registry.
package ir

import (
	"maps"
	"slices"
)

// Kind represents the kind of a type node
type Kind string

const (
	KindString       Kind = "string"
	KindInteger      Kind = "integer"
	KindNumber       Kind = "number"
	KindBoolean      Kind = "boolean"
	KindAny          Kind = "any"
	KindStruct       Kind = "struct"
	KindMap          Kind = "map"
	KindArray        Kind = "array"
	KindUnion        Kind = "union"
	KindIntersection Kind = "intersection"
	KindReference    Kind = "reference"
	KindGeneric      Kind = "generic"
)

// Format refines a string or integer type
type Format string

const (
	FormatNone     Format = ""
	FormatDate     Format = "date"
	FormatDateTime Format = "date-time"
	FormatTime     Format = "time"
	FormatDuration Format = "duration"
	FormatURI      Format = "uri"
	FormatBinary   Format = "binary"
	FormatInt32    Format = "int32"
	FormatInt64    Format = "int64"
)

// Attributes captures the metadata every node carries.
type Attributes struct {
	Title       string
	Description string
	Nullable    bool
	Deprecated  bool
	Readonly    bool
	// Meta is an opaque bag for target specific hints (e.g. the native
	// class a node was derived from). Generators may read it, the shared
	// model never interprets it.
	Meta map[string]string
}

func (a Attributes) clone() Attributes {
	a.Meta = maps.Clone(a.Meta)
	return a
}

// Type is a node of the IR. The set of implementations is closed; switch
// over the concrete pointer types to dispatch.
type Type interface {
	Kind() Kind
	Attributes() Attributes
	sealed()
}

type node struct {
	attrs Attributes
}

// Attributes returns a copy of the node metadata
func (n node) Attributes() Attributes {
	return n.attrs.clone()
}

// Meta looks up a single entry of the attribute bag
func (n node) Meta(key string) (string, bool) {
	v, ok := n.attrs.Meta[key]
	return v, ok
}

func (node) sealed() {}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// StringSpec describes a string type under construction
type StringSpec struct {
	Attributes
	Format    Format
	Pattern   string
	MinLength *int
	MaxLength *int
	Enum      []any
}

func (s StringSpec) clone() StringSpec {
	s.Attributes = s.Attributes.clone()
	s.MinLength = clonePtr(s.MinLength)
	s.MaxLength = clonePtr(s.MaxLength)
	s.Enum = slices.Clone(s.Enum)
	return s
}

// StringType is a string scalar
type StringType struct {
	node
	spec StringSpec
}

// NewString builds a string node from spec
func NewString(spec StringSpec) *StringType {
	spec = spec.clone()
	return &StringType{node: node{attrs: spec.Attributes}, spec: spec}
}

// String returns a plain string node
func String() *StringType {
	return NewString(StringSpec{})
}

// StringWithFormat returns a string node refined by format
func StringWithFormat(f Format) *StringType {
	return NewString(StringSpec{Format: f})
}

func (t *StringType) Kind() Kind       { return KindString }
func (t *StringType) Format() Format   { return t.spec.Format }
func (t *StringType) Spec() StringSpec { return t.spec.clone() }

// NumericSpec describes an integer or number type under construction
type NumericSpec struct {
	Attributes
	Format           Format
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MultipleOf       *float64
	Enum             []any
}

func (s NumericSpec) clone() NumericSpec {
	s.Attributes = s.Attributes.clone()
	s.Minimum = clonePtr(s.Minimum)
	s.Maximum = clonePtr(s.Maximum)
	s.MultipleOf = clonePtr(s.MultipleOf)
	s.Enum = slices.Clone(s.Enum)
	return s
}

// IntegerType is an integral scalar
type IntegerType struct {
	node
	spec NumericSpec
}

// NewInteger builds an integer node from spec
func NewInteger(spec NumericSpec) *IntegerType {
	spec = spec.clone()
	return &IntegerType{node: node{attrs: spec.Attributes}, spec: spec}
}

// Integer returns a plain integer node
func Integer() *IntegerType {
	return NewInteger(NumericSpec{})
}

// IntegerWithFormat returns an integer node refined by format
func IntegerWithFormat(f Format) *IntegerType {
	return NewInteger(NumericSpec{Format: f})
}

func (t *IntegerType) Kind() Kind        { return KindInteger }
func (t *IntegerType) Format() Format    { return t.spec.Format }
func (t *IntegerType) Spec() NumericSpec { return t.spec.clone() }

// NumberType is a floating point scalar
type NumberType struct {
	node
	spec NumericSpec
}

// NewNumber builds a number node from spec
func NewNumber(spec NumericSpec) *NumberType {
	spec = spec.clone()
	return &NumberType{node: node{attrs: spec.Attributes}, spec: spec}
}

// Number returns a plain number node
func Number() *NumberType {
	return NewNumber(NumericSpec{})
}

func (t *NumberType) Kind() Kind        { return KindNumber }
func (t *NumberType) Spec() NumericSpec { return t.spec.clone() }

// BooleanType is a boolean scalar
type BooleanType struct {
	node
}

// NewBoolean builds a boolean node
func NewBoolean(attrs Attributes) *BooleanType {
	return &BooleanType{node: node{attrs: attrs.clone()}}
}

// Boolean returns a plain boolean node
func Boolean() *BooleanType {
	return NewBoolean(Attributes{})
}

func (t *BooleanType) Kind() Kind { return KindBoolean }

// AnyType accepts every value
type AnyType struct {
	node
}

// NewAny builds an any node
func NewAny(attrs Attributes) *AnyType {
	return &AnyType{node: node{attrs: attrs.clone()}}
}

// Any returns a plain any node
func Any() *AnyType {
	return NewAny(Attributes{})
}

func (t *AnyType) Kind() Kind { return KindAny }

// MapSpec describes a map type under construction. A nil Values means
// additionalProperties: true, i.e. any value is accepted.
type MapSpec struct {
	Attributes
	Values        Type
	MinProperties *int
	MaxProperties *int
}

// MapType maps string keys to values of one type
type MapType struct {
	node
	spec MapSpec
}

// NewMap builds a map node from spec
func NewMap(spec MapSpec) *MapType {
	spec.Attributes = spec.Attributes.clone()
	spec.MinProperties = clonePtr(spec.MinProperties)
	spec.MaxProperties = clonePtr(spec.MaxProperties)
	return &MapType{node: node{attrs: spec.Attributes}, spec: spec}
}

// MapOf returns a map node whose values are of type values
func MapOf(values Type) *MapType {
	return NewMap(MapSpec{Values: values})
}

func (t *MapType) Kind() Kind { return KindMap }

// Values returns the value type, nil when any value is accepted
func (t *MapType) Values() Type { return t.spec.Values }

// AnyValues reports whether additionalProperties was true
func (t *MapType) AnyValues() bool { return t.spec.Values == nil }

func (t *MapType) Spec() MapSpec {
	s := t.spec
	s.Attributes = s.Attributes.clone()
	s.MinProperties = clonePtr(s.MinProperties)
	s.MaxProperties = clonePtr(s.MaxProperties)
	return s
}

// ArraySpec describes an array type under construction
type ArraySpec struct {
	Attributes
	Items       Type
	MinItems    *int
	MaxItems    *int
	UniqueItems bool
}

// ArrayType is an ordered list of items of one type
type ArrayType struct {
	node
	spec ArraySpec
}

// NewArray builds an array node from spec
func NewArray(spec ArraySpec) *ArrayType {
	spec.Attributes = spec.Attributes.clone()
	spec.MinItems = clonePtr(spec.MinItems)
	spec.MaxItems = clonePtr(spec.MaxItems)
	return &ArrayType{node: node{attrs: spec.Attributes}, spec: spec}
}

// ArrayOf returns an array node of items
func ArrayOf(items Type) *ArrayType {
	return NewArray(ArraySpec{Items: items})
}

func (t *ArrayType) Kind() Kind  { return KindArray }
func (t *ArrayType) Items() Type { return t.spec.Items }

func (t *ArrayType) Spec() ArraySpec {
	s := t.spec
	s.Attributes = s.Attributes.clone()
	s.MinItems = clonePtr(s.MinItems)
	s.MaxItems = clonePtr(s.MaxItems)
	return s
}

// UnionType is exactly one of its members (oneOf)
type UnionType struct {
	node
	oneOf []Type
}

// NewUnion builds a union node
func NewUnion(attrs Attributes, members ...Type) *UnionType {
	return &UnionType{node: node{attrs: attrs.clone()}, oneOf: slices.Clone(members)}
}

// UnionOf returns a union of members
func UnionOf(members ...Type) *UnionType {
	return NewUnion(Attributes{}, members...)
}

func (t *UnionType) Kind() Kind      { return KindUnion }
func (t *UnionType) Members() []Type { return slices.Clone(t.oneOf) }

// IntersectionType merges the structs its members reference (allOf)
type IntersectionType struct {
	node
	allOf []Type
}

// NewIntersection builds an intersection node
func NewIntersection(attrs Attributes, members ...Type) *IntersectionType {
	return &IntersectionType{node: node{attrs: attrs.clone()}, allOf: slices.Clone(members)}
}

// AllOf returns an intersection of members
func AllOf(members ...Type) *IntersectionType {
	return NewIntersection(Attributes{}, members...)
}

func (t *IntersectionType) Kind() Kind      { return KindIntersection }
func (t *IntersectionType) Members() []Type { return slices.Clone(t.allOf) }

// Template binds a type parameter of a generic struct to an argument
type Template struct {
	Name string
	Type Type
}

// ReferenceSpec describes a reference under construction
type ReferenceSpec struct {
	Attributes
	Target    string
	Templates []Template
}

// ReferenceType points at a definition by name
type ReferenceType struct {
	node
	target    string
	templates []Template
}

// NewReference builds a reference node from spec
func NewReference(spec ReferenceSpec) *ReferenceType {
	return &ReferenceType{
		node:      node{attrs: spec.Attributes.clone()},
		target:    spec.Target,
		templates: slices.Clone(spec.Templates),
	}
}

// Ref returns a reference to the definition target
func Ref(target string, templates ...Template) *ReferenceType {
	return NewReference(ReferenceSpec{Target: target, Templates: templates})
}

func (t *ReferenceType) Kind() Kind            { return KindReference }
func (t *ReferenceType) Target() string        { return t.target }
func (t *ReferenceType) Templates() []Template { return slices.Clone(t.templates) }
func (t *ReferenceType) HasTemplates() bool    { return len(t.templates) > 0 }

// GenericType is a placeholder for a type parameter of the enclosing
// generic struct.
type GenericType struct {
	node
	name string
}

// NewGeneric builds a generic placeholder node
func NewGeneric(attrs Attributes, name string) *GenericType {
	return &GenericType{node: node{attrs: attrs.clone()}, name: name}
}

// Generic returns a placeholder for the type parameter name
func Generic(name string) *GenericType {
	return NewGeneric(Attributes{}, name)
}

func (t *GenericType) Kind() Kind   { return KindGeneric }
func (t *GenericType) Name() string { return t.name }

// IsCombinator reports whether t is a union or an intersection
func IsCombinator(t Type) bool {
	switch t.(type) {
	case *UnionType, *IntersectionType:
		return true
	}
	return false
}
