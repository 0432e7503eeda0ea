package jsonschema

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/loader"
	"github.com/blimu-dev/schema-gen/pkg/resolver"
	"github.com/blimu-dev/schema-gen/pkg/utils"
)

type extracted struct {
	name string
	t    ir.Type
}

type converter struct {
	// self is the definition a "#" reference points at
	self    string
	taken   map[string]struct{}
	pending []extracted
}

func convert(s *jsonschema.Schema, doc *loader.Object, root string) (*ir.Schema, error) {
	defs, defsKey := s.Defs, "$defs"
	if len(defs) == 0 {
		defs, defsKey = s.Definitions, "definitions"
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	slices.Sort(names)

	c := &converter{taken: make(map[string]struct{})}
	for _, name := range names {
		c.taken[name] = struct{}{}
	}

	out := ir.NewDefinitions()
	add := func(name string, t ir.Type) error {
		if err := out.Add(name, t); err != nil {
			return err
		}
		for _, p := range c.pending {
			if err := out.Add(p.name, p.t); err != nil {
				return err
			}
		}
		c.pending = c.pending[:0]
		return nil
	}

	var rootType ir.Type
	switch {
	case s.Ref != "":
		rootType = ir.Ref(refName(s.Ref))
	case describesType(s):
		name := cmp.Or(root, utils.ToPascalCase(s.Title), DefaultRootName)
		if _, ok := c.taken[name]; ok {
			return nil, ir.InvalidSchema(name, "root schema collides with a definition of the same name")
		}
		c.taken[name] = struct{}{}
		c.self = name
		if err := add(name, c.definition(name, s, doc)); err != nil {
			return nil, err
		}
		rootType = ir.Ref(name)
	case root != "":
		rootType = ir.Ref(root)
	}

	for _, name := range names {
		if err := add(name, c.definition(name, defs[name], child(doc, defsKey, name))); err != nil {
			return nil, err
		}
	}

	if ref, ok := rootType.(*ir.ReferenceType); ok && !out.Has(ref.Target()) {
		return nil, ir.UnknownReference(ref.Target())
	}
	if err := resolver.AssertWellFormed(out); err != nil {
		return nil, err
	}
	return ir.NewSchema(rootType, out), nil
}

// describesType reports whether a root schema is more than a container
// of definitions
func describesType(s *jsonschema.Schema) bool {
	return s.Type != "" || len(s.Types) > 0 || len(s.Properties) > 0 || s.Items != nil ||
		len(s.OneOf)+len(s.AnyOf)+len(s.AllOf) > 0 || s.AdditionalProperties != nil || len(s.Enum) > 0
}

func (c *converter) definition(name string, s *jsonschema.Schema, obj *loader.Object) ir.Type {
	if s == nil {
		return ir.Any()
	}
	if isObject(s) && len(s.Properties) > 0 && len(s.OneOf)+len(s.AnyOf)+len(s.AllOf) == 0 && s.Ref == "" {
		return c.structure(name, s, obj)
	}
	if len(s.AllOf) > 0 && s.Ref == "" {
		return ir.NewIntersection(attributes(s), c.members(name, s.AllOf, obj, "allOf", true)...)
	}
	return c.node(name, s, obj)
}

// node converts a schema in a position that must not hold a struct
func (c *converter) node(base string, s *jsonschema.Schema, obj *loader.Object) ir.Type {
	if s == nil {
		return ir.Any()
	}
	attrs := attributes(s)
	if s.Ref != "" {
		return ir.NewReference(ir.ReferenceSpec{Attributes: attrs, Target: c.target(s.Ref)})
	}

	switch {
	case len(s.OneOf) > 0:
		return ir.NewUnion(attrs, c.members(base, s.OneOf, obj, "oneOf", false)...)
	case len(s.AnyOf) > 0:
		return ir.NewUnion(attrs, c.members(base, s.AnyOf, obj, "anyOf", false)...)
	case len(s.AllOf) == 1 && s.AllOf[0].Ref != "":
		return ir.NewReference(ir.ReferenceSpec{Attributes: attrs, Target: c.target(s.AllOf[0].Ref)})
	case len(s.AllOf) > 0, isObject(s) && len(s.Properties) > 0:
		return ir.Ref(c.extract(base, s, obj))
	case isObject(s):
		spec := ir.MapSpec{Attributes: attrs, MinProperties: s.MinProperties, MaxProperties: s.MaxProperties}
		if values, path := valueSchema(s); values != nil && !isTrue(values) {
			spec.Values = c.node(base+"_Properties", values, child(obj, path...))
		}
		return ir.NewMap(spec)
	case primaryType(s) == "array":
		return ir.NewArray(ir.ArraySpec{
			Attributes:  attrs,
			Items:       c.node(base+"_Item", s.Items, child(obj, "items")),
			MinItems:    s.MinItems,
			MaxItems:    s.MaxItems,
			UniqueItems: s.UniqueItems,
		})
	}
	return scalar(s, attrs)
}

func (c *converter) members(base string, schemas []*jsonschema.Schema, obj *loader.Object, key string, intersection bool) []ir.Type {
	out := make([]ir.Type, 0, len(schemas))
	for i, s := range schemas {
		switch {
		case s == nil:
			out = append(out, ir.Any())
		case s.Ref != "":
			out = append(out, ir.Ref(c.target(s.Ref)))
		case !intersection && isScalar(s):
			out = append(out, scalar(s, attributes(s)))
		default:
			out = append(out, ir.Ref(c.extract(base+"_"+strconv.Itoa(i+1), s, item(obj, key, i))))
		}
	}
	return out
}

// extract registers s as a definition of its own and returns its name
func (c *converter) extract(base string, s *jsonschema.Schema, obj *loader.Object) string {
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
	t := c.definition(name, s, obj)
	if _, ok := t.(*ir.StructType); !ok && isObject(s) && len(s.AllOf) == 0 {
		t = c.structure(name, s, obj)
	}
	c.pending[idx].t = t
	return name
}

func (c *converter) structure(name string, s *jsonschema.Schema, obj *loader.Object) *ir.StructType {
	b := ir.NewStructBuilder().Attributes(attributes(s))
	props := child(obj, "properties")
	for _, prop := range propertyOrder(s.Properties, props) {
		b.Add(prop, c.node(name+"_"+utils.ToPascalCase(prop), s.Properties[prop], child(props, prop)))
	}
	b.Require(s.Required...)
	return b.Build()
}

// target maps a $ref to a definition name
func (c *converter) target(ref string) string {
	if ref == "#" {
		return c.self
	}
	return refName(ref)
}

func scalar(s *jsonschema.Schema, attrs ir.Attributes) ir.Type {
	enum := s.Enum
	if s.Const != nil {
		enum = []any{*s.Const}
	}
	typ := primaryType(s)
	if typ == "" && len(enum) > 0 {
		typ = enumType(enum[0])
	}

	switch typ {
	case "string":
		return ir.NewString(ir.StringSpec{
			Attributes: attrs,
			Format:     ir.Format(s.Format),
			Pattern:    s.Pattern,
			MinLength:  s.MinLength,
			MaxLength:  s.MaxLength,
			Enum:       enum,
		})
	case "integer":
		spec := numeric(s, attrs, enum)
		if s.Format == "int32" || s.Format == "int64" {
			spec.Format = ir.Format(s.Format)
		}
		return ir.NewInteger(spec)
	case "number":
		return ir.NewNumber(numeric(s, attrs, enum))
	case "boolean":
		return ir.NewBoolean(attrs)
	}
	return ir.NewAny(attrs)
}

// numeric folds the numeric exclusive bounds of 2019-09 and later into a
// bound and a flag
func numeric(s *jsonschema.Schema, attrs ir.Attributes, enum []any) ir.NumericSpec {
	spec := ir.NumericSpec{
		Attributes: attrs,
		Minimum:    s.Minimum,
		Maximum:    s.Maximum,
		MultipleOf: s.MultipleOf,
		Enum:       enum,
	}
	if s.ExclusiveMinimum != nil {
		spec.Minimum, spec.ExclusiveMinimum = s.ExclusiveMinimum, true
	}
	if s.ExclusiveMaximum != nil {
		spec.Maximum, spec.ExclusiveMaximum = s.ExclusiveMaximum, true
	}
	return spec
}

func attributes(s *jsonschema.Schema) ir.Attributes {
	return ir.Attributes{
		Title:       s.Title,
		Description: s.Description,
		Nullable:    s.Type == "null" || slices.Contains(s.Types, "null"),
		Deprecated:  s.Deprecated,
		Readonly:    s.ReadOnly,
	}
}

// primaryType returns the first type that is not null
func primaryType(s *jsonschema.Schema) string {
	if s.Type != "" {
		return s.Type
	}
	for _, t := range s.Types {
		if t != "null" {
			return t
		}
	}
	return ""
}

func isObject(s *jsonschema.Schema) bool {
	typ := primaryType(s)
	return typ == "object" || (typ == "" && (len(s.Properties) > 0 || s.AdditionalProperties != nil || len(s.PatternProperties) > 0))
}

func isScalar(s *jsonschema.Schema) bool {
	if len(s.OneOf)+len(s.AnyOf)+len(s.AllOf) > 0 {
		return false
	}
	switch primaryType(s) {
	case "string", "integer", "number", "boolean":
		return true
	case "":
		return len(s.Enum) > 0 || s.Const != nil
	}
	return false
}

// isTrue reports whether s is the schema that accepts everything
func isTrue(s *jsonschema.Schema) bool {
	return s.Ref == "" && !describesType(s) && s.Not == nil
}

// valueSchema returns the schema of map values and the key it sits under.
// A single pattern property stands in for additionalProperties.
func valueSchema(s *jsonschema.Schema) (*jsonschema.Schema, []string) {
	if s.AdditionalProperties != nil {
		return s.AdditionalProperties, []string{"additionalProperties"}
	}
	if len(s.PatternProperties) == 1 {
		for pattern, values := range s.PatternProperties {
			return values, []string{"patternProperties", pattern}
		}
	}
	return nil, nil
}

func enumType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32:
		return "number"
	case int, int64, int32:
		return "integer"
	}
	return ""
}

// refName returns the definition a $ref to #/$defs, #/definitions or
// #/components/schemas points at
func refName(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

// propertyOrder lists the property names in document order, falling back
// to sorted order for names the document does not carry
func propertyOrder(props map[string]*jsonschema.Schema, obj *loader.Object) []string {
	out := make([]string, 0, len(props))
	if obj != nil {
		for _, key := range obj.Keys() {
			if _, ok := props[key]; ok {
				out = append(out, key)
			}
		}
	}
	var rest []string
	for key := range props {
		if !slices.Contains(out, key) {
			rest = append(rest, key)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}

// child follows a path of keys and returns nil once the path leaves the
// document
func child(obj *loader.Object, keys ...string) *loader.Object {
	for _, key := range keys {
		if obj == nil {
			return nil
		}
		next, ok := obj.Object(key)
		if !ok {
			return nil
		}
		obj = next
	}
	return obj
}

// item returns element i of the array under key
func item(obj *loader.Object, key string, i int) *loader.Object {
	if obj == nil {
		return nil
	}
	raw, ok := obj.Get(key)
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok || i >= len(list) {
		return nil
	}
	next, _ := list[i].(*loader.Object)
	return next
}
