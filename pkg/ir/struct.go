package ir

import (
	"slices"
)

// Property is a named member of a struct
type Property struct {
	Name     string
	Type     Type
	Required bool
}

// Mapping binds a concrete subtype definition to its discriminator value
type Mapping struct {
	Type  string
	Value string
}

// StructType is an ordered set of properties with optional inheritance,
// discriminator and type parameters. Build it with a StructBuilder.
type StructType struct {
	node
	props         []Property
	extends       *ReferenceType
	discriminator string
	mapping       []Mapping
	generics      []string
	base          bool
}

func (t *StructType) Kind() Kind { return KindStruct }

// Properties returns the properties in declaration order
func (t *StructType) Properties() []Property { return slices.Clone(t.props) }

// Property looks up a property by name
func (t *StructType) Property(name string) (Property, bool) {
	i := t.index(name)
	if i < 0 {
		return Property{}, false
	}
	return t.props[i], true
}

// Required returns the names of the required properties in declaration order
func (t *StructType) Required() []string {
	var names []string
	for _, p := range t.props {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Extends returns the parent reference, nil when the struct has no parent
func (t *StructType) Extends() *ReferenceType { return t.extends }

// Templates returns the type arguments the struct passes to its parent
func (t *StructType) Templates() []Template {
	if t.extends == nil {
		return nil
	}
	return t.extends.Templates()
}

func (t *StructType) Discriminator() string { return t.discriminator }
func (t *StructType) Mapping() []Mapping    { return slices.Clone(t.mapping) }
func (t *StructType) Generics() []string    { return slices.Clone(t.generics) }
func (t *StructType) Base() bool            { return t.base }

func (t *StructType) index(name string) int {
	return slices.IndexFunc(t.props, func(p Property) bool { return p.Name == name })
}

// StructBuilder assembles a StructType. Adding a property whose name is
// already present replaces its type in place, so the original position is
// kept and a later definition wins.
type StructBuilder struct {
	t StructType
}

// NewStructBuilder returns an empty builder
func NewStructBuilder() *StructBuilder {
	return &StructBuilder{}
}

// Attributes sets the struct metadata
func (b *StructBuilder) Attributes(attrs Attributes) *StructBuilder {
	b.t.attrs = attrs.clone()
	return b
}

// Description sets the struct description
func (b *StructBuilder) Description(desc string) *StructBuilder {
	b.t.attrs.Description = desc
	return b
}

// Add appends a property or replaces the type of an existing one.
// An existing required flag is preserved.
func (b *StructBuilder) Add(name string, t Type) *StructBuilder {
	if i := b.t.index(name); i >= 0 {
		b.t.props[i].Type = t
		return b
	}
	b.t.props = append(b.t.props, Property{Name: name, Type: t})
	return b
}

// AddRequired adds a property and marks it required
func (b *StructBuilder) AddRequired(name string, t Type) *StructBuilder {
	return b.Add(name, t).Require(name)
}

// Require marks the named properties required. Unknown names are ignored.
func (b *StructBuilder) Require(names ...string) *StructBuilder {
	for _, name := range names {
		if i := b.t.index(name); i >= 0 {
			b.t.props[i].Required = true
		}
	}
	return b
}

// Has reports whether a property is already present
func (b *StructBuilder) Has(name string) bool {
	return b.t.index(name) >= 0
}

// Extends sets the parent reference
func (b *StructBuilder) Extends(parent *ReferenceType) *StructBuilder {
	b.t.extends = parent
	return b
}

// Discriminator sets the discriminator property and the subtype mapping
func (b *StructBuilder) Discriminator(property string, mapping ...Mapping) *StructBuilder {
	b.t.discriminator = property
	b.t.mapping = slices.Clone(mapping)
	return b
}

// Generics declares the type parameters of the struct
func (b *StructBuilder) Generics(names ...string) *StructBuilder {
	b.t.generics = slices.Clone(names)
	return b
}

// Base marks the struct as the abstract root of a discriminated hierarchy
func (b *StructBuilder) Base(base bool) *StructBuilder {
	b.t.base = base
	return b
}

// Build returns the finished struct. The builder can keep being used; the
// returned node does not observe later changes.
func (b *StructBuilder) Build() *StructType {
	t := b.t
	t.attrs = t.attrs.clone()
	t.props = slices.Clone(t.props)
	t.mapping = slices.Clone(t.mapping)
	t.generics = slices.Clone(t.generics)
	return &t
}
