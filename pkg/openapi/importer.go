package openapi

import (
	"slices"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/resolver"
	"github.com/blimu-dev/schema-gen/pkg/utils"
)

const componentsPrefix = "#/components/schemas/"

// Import converts every components/schemas entry, sorted by name, into a
// definition. Inline objects below a definition are extracted into their
// own definitions named Parent_Prop, array items get an _Item suffix and
// inline one-of or all-of members a _1, _2, ... suffix.
func Import(doc *openapi3.T, root string) (*ir.Schema, error) {
	c := &converter{taken: make(map[string]struct{})}

	var names []string
	if doc.Components != nil {
		for name := range doc.Components.Schemas {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	for _, name := range names {
		c.taken[name] = struct{}{}
	}

	defs := ir.NewDefinitions()
	for _, name := range names {
		c.pending = c.pending[:0]
		t := c.definition(name, doc.Components.Schemas[name])
		if err := defs.Add(name, t); err != nil {
			return nil, err
		}
		for _, p := range c.pending {
			if err := defs.Add(p.name, p.t); err != nil {
				return nil, err
			}
		}
	}

	var rootType ir.Type
	if root != "" {
		if !defs.Has(root) {
			return nil, ir.UnknownReference(root)
		}
		rootType = ir.Ref(root)
	}
	if err := resolver.AssertWellFormed(defs); err != nil {
		return nil, err
	}
	return ir.NewSchema(rootType, defs), nil
}

type extracted struct {
	name string
	t    ir.Type
}

type converter struct {
	taken   map[string]struct{}
	pending []extracted
}

// definition converts a schema that is registered under name
func (c *converter) definition(name string, sr *openapi3.SchemaRef) ir.Type {
	if sr == nil || sr.Value == nil {
		return ir.Any()
	}
	if sr.Ref != "" {
		return ir.Ref(refName(sr.Ref))
	}
	s := sr.Value

	switch {
	case len(s.OneOf) > 0:
		return ir.NewUnion(attributes(s), c.members(name, s.OneOf, false)...)
	case len(s.AnyOf) > 0:
		return ir.NewUnion(attributes(s), c.members(name, s.AnyOf, false)...)
	case len(s.AllOf) > 0:
		return ir.NewIntersection(attributes(s), c.members(name, s.AllOf, true)...)
	case isObject(s) && len(s.Properties) > 0:
		return c.structure(name, s)
	}
	return c.node(name, sr)
}

// node converts a schema in a position that must not hold a struct. Inline
// objects are extracted under base.
func (c *converter) node(base string, sr *openapi3.SchemaRef) ir.Type {
	if sr == nil || sr.Value == nil {
		return ir.Any()
	}
	if sr.Ref != "" {
		return ir.Ref(refName(sr.Ref))
	}
	s := sr.Value
	attrs := attributes(s)
	typ := primaryType(s)

	switch {
	case len(s.OneOf) > 0:
		return ir.NewUnion(attrs, c.members(base, s.OneOf, false)...)
	case len(s.AnyOf) > 0:
		return ir.NewUnion(attrs, c.members(base, s.AnyOf, false)...)
	case len(s.AllOf) == 1 && s.AllOf[0].Ref != "":
		// allOf with a single reference only decorates it
		return ir.NewReference(ir.ReferenceSpec{Attributes: attrs, Target: refName(s.AllOf[0].Ref)})
	case len(s.AllOf) > 0:
		return ir.Ref(c.extract(base, sr))
	case isObject(s) && len(s.Properties) > 0:
		return ir.Ref(c.extract(base, sr))
	case isObject(s):
		spec := ir.MapSpec{Attributes: attrs, MinProperties: uintPtr(s.MinProps), MaxProperties: uintPtrOpt(s.MaxProps)}
		if s.AdditionalProperties.Schema != nil {
			spec.Values = c.node(base+"_Properties", s.AdditionalProperties.Schema)
		}
		return ir.NewMap(spec)
	case typ == openapi3.TypeArray:
		return ir.NewArray(ir.ArraySpec{
			Attributes:  attrs,
			Items:       c.node(base+"_Item", s.Items),
			MinItems:    uintPtr(s.MinItems),
			MaxItems:    uintPtrOpt(s.MaxItems),
			UniqueItems: s.UniqueItems,
		})
	}
	return scalar(s, attrs, typ)
}

// members converts the members of a combinator. Union members that are
// neither scalars nor references and every non reference all-of member
// are extracted.
func (c *converter) members(base string, refs openapi3.SchemaRefs, intersection bool) []ir.Type {
	out := make([]ir.Type, 0, len(refs))
	for i, sr := range refs {
		switch {
		case sr == nil || sr.Value == nil:
			out = append(out, ir.Any())
		case sr.Ref != "":
			out = append(out, ir.Ref(refName(sr.Ref)))
		case !intersection && isScalar(sr.Value):
			out = append(out, scalar(sr.Value, attributes(sr.Value), primaryType(sr.Value)))
		default:
			out = append(out, ir.Ref(c.extract(base+"_"+strconv.Itoa(i+1), sr)))
		}
	}
	return out
}

// extract registers sr as a definition of its own and returns its name.
// The slot is reserved before converting so parents precede children.
func (c *converter) extract(base string, sr *openapi3.SchemaRef) string {
	name := base
	for i := 2; ; i++ {
		if _, ok := c.taken[name]; !ok {
			break
		}
		name = base + strconv.Itoa(i)
	}
	c.taken[name] = struct{}{}

	idx := len(c.pending)
	c.pending = append(c.pending, extracted{name: name})
	t := c.definition(name, sr)
	if _, ok := t.(*ir.StructType); !ok && isObject(sr.Value) && len(sr.Value.AllOf) == 0 {
		t = c.structure(name, sr.Value)
	}
	c.pending[idx].t = t
	return name
}

func (c *converter) structure(name string, s *openapi3.Schema) *ir.StructType {
	b := ir.NewStructBuilder().Attributes(attributes(s))

	props := make([]string, 0, len(s.Properties))
	for prop := range s.Properties {
		props = append(props, prop)
	}
	slices.Sort(props)
	for _, prop := range props {
		b.Add(prop, c.node(name+"_"+utils.ToPascalCase(prop), s.Properties[prop]))
	}
	b.Require(s.Required...)

	if d := s.Discriminator; d != nil && d.PropertyName != "" {
		var mapping []ir.Mapping
		for value, ref := range d.Mapping {
			mapping = append(mapping, ir.Mapping{Type: refName(ref), Value: value})
		}
		slices.SortFunc(mapping, func(a, b ir.Mapping) int { return strings.Compare(a.Value, b.Value) })
		b.Discriminator(d.PropertyName, mapping...).Base(true)
	}
	return b.Build()
}

func scalar(s *openapi3.Schema, attrs ir.Attributes, typ string) ir.Type {
	if typ == "" && len(s.Enum) > 0 {
		typ = enumType(s.Enum[0])
	}

	switch typ {
	case openapi3.TypeString:
		return ir.NewString(ir.StringSpec{
			Attributes: attrs,
			Format:     ir.Format(s.Format),
			Pattern:    s.Pattern,
			MinLength:  uintPtr(s.MinLength),
			MaxLength:  uintPtrOpt(s.MaxLength),
			Enum:       s.Enum,
		})
	case openapi3.TypeInteger:
		spec := numeric(s, attrs)
		if s.Format == "int32" || s.Format == "int64" {
			spec.Format = ir.Format(s.Format)
		}
		return ir.NewInteger(spec)
	case openapi3.TypeNumber:
		return ir.NewNumber(numeric(s, attrs))
	case openapi3.TypeBoolean:
		return ir.NewBoolean(attrs)
	}
	return ir.NewAny(attrs)
}

func numeric(s *openapi3.Schema, attrs ir.Attributes) ir.NumericSpec {
	return ir.NumericSpec{
		Attributes:       attrs,
		Minimum:          s.Min,
		Maximum:          s.Max,
		ExclusiveMinimum: s.ExclusiveMin,
		ExclusiveMaximum: s.ExclusiveMax,
		MultipleOf:       s.MultipleOf,
		Enum:             s.Enum,
	}
}

func attributes(s *openapi3.Schema) ir.Attributes {
	return ir.Attributes{
		Title:       s.Title,
		Description: s.Description,
		Nullable:    s.Nullable || (s.Type != nil && slices.Contains(*s.Type, openapi3.TypeNull)),
		Deprecated:  s.Deprecated,
		Readonly:    s.ReadOnly,
	}
}

// primaryType returns the first type that is not null
func primaryType(s *openapi3.Schema) string {
	if s.Type == nil {
		return ""
	}
	for _, t := range *s.Type {
		if t != openapi3.TypeNull {
			return t
		}
	}
	return ""
}

func isObject(s *openapi3.Schema) bool {
	if s == nil {
		return false
	}
	typ := primaryType(s)
	return typ == openapi3.TypeObject || (typ == "" && (len(s.Properties) > 0 || s.AdditionalProperties.Schema != nil))
}

func isScalar(s *openapi3.Schema) bool {
	if len(s.OneOf)+len(s.AnyOf)+len(s.AllOf) > 0 {
		return false
	}
	switch primaryType(s) {
	case openapi3.TypeString, openapi3.TypeInteger, openapi3.TypeNumber, openapi3.TypeBoolean:
		return true
	case "":
		return len(s.Enum) > 0
	}
	return false
}

func enumType(v any) string {
	switch v.(type) {
	case string:
		return openapi3.TypeString
	case int, int32, int64:
		return openapi3.TypeInteger
	case float32, float64:
		return openapi3.TypeNumber
	case bool:
		return openapi3.TypeBoolean
	}
	return ""
}

// refName returns the definition a $ref points at
func refName(ref string) string {
	if name, ok := strings.CutPrefix(ref, componentsPrefix); ok {
		return name
	}
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

func uintPtr(v uint64) *int {
	if v == 0 {
		return nil
	}
	n := int(v)
	return &n
}

func uintPtrOpt(v *uint64) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
