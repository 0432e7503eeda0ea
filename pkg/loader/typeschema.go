package loader

import (
	"fmt"
	"slices"

	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/resolver"
)

// Parse builds a schema from a decoded TypeSchema document of the shape
// {"definitions": {...}, "$ref": "Root"}. Definitions are registered in
// document order and the registry is checked before it is returned.
func Parse(doc *Object) (*ir.Schema, error) {
	defs := ir.NewDefinitions()

	if raw, ok := doc.Get("definitions"); ok {
		definitions, ok := raw.(*Object)
		if !ok {
			return nil, ir.InvalidSchema("definitions", "must be an object")
		}
		for name, value := range definitions.All() {
			obj, ok := value.(*Object)
			if !ok {
				return nil, ir.InvalidSchema(name, "definition must be an object")
			}
			t, err := definition(name, obj)
			if err != nil {
				return nil, err
			}
			if err := defs.Add(name, t); err != nil {
				return nil, err
			}
		}
	}

	var root ir.Type
	for _, key := range []string{"$ref", "root"} {
		if name := doc.String(key); name != "" {
			if !defs.Has(name) {
				return nil, ir.UnknownReference(name)
			}
			root = ir.Ref(name)
			break
		}
	}

	if err := resolver.AssertWellFormed(defs); err != nil {
		return nil, err
	}
	return ir.NewSchema(root, defs), nil
}

// definition parses a top level entry, applying the legacy object rules
// before the property rules
func definition(loc string, obj *Object) (ir.Type, error) {
	if obj.Has("oneOf") || obj.Has("allOf") || obj.Has("$ref") || obj.Has("$generic") {
		return property(loc, obj)
	}

	if obj.Has("patternProperties") && !obj.Has("properties") && !obj.Has("additionalProperties") {
		patterns, _ := obj.Object("patternProperties")
		if patterns != nil && patterns.Len() == 1 {
			_, value := first(patterns)
			obj.Set("additionalProperties", value)
		} else {
			obj.Set("additionalProperties", true)
		}
	}

	typ, _ := obj.Get("type")
	switch {
	case typ == nil && (obj.Has("additionalProperties") || obj.Has("schema")):
		obj.Set("type", "map")
	case typ == nil:
		obj.Set("type", "struct")
	case typ == "object" && obj.Has("properties"):
		obj.Set("type", "struct")
	case typ == "object" && obj.Has("additionalProperties"):
		obj.Set("type", "map")
	}
	return property(loc, obj)
}

// property parses any node below a definition
func property(loc string, obj *Object) (ir.Type, error) {
	attrs := attributes(obj)
	typ, err := kind(loc, obj, &attrs)
	if err != nil {
		return nil, err
	}

	switch typ {
	case "struct":
		return structure(loc, obj, attrs)
	case "map":
		return mapping(loc, obj, attrs)
	case "array":
		return array(loc, obj, attrs)
	case "string":
		spec := ir.StringSpec{
			Attributes: attrs,
			Format:     ir.Format(obj.String("format")),
			Pattern:    obj.String("pattern"),
			MinLength:  integer(obj, "minLength"),
			MaxLength:  integer(obj, "maxLength"),
			Enum:       enum(obj),
		}
		return ir.NewString(spec), nil
	case "integer":
		return ir.NewInteger(numeric(obj, attrs)), nil
	case "number":
		return ir.NewNumber(numeric(obj, attrs)), nil
	case "boolean":
		return ir.NewBoolean(attrs), nil
	case "any":
		return ir.NewAny(attrs), nil
	case "reference":
		return reference(loc, obj, attrs)
	case "generic":
		name := obj.String("$generic")
		if name == "" {
			name = obj.String("name")
		}
		if name == "" {
			return nil, ir.InvalidSchema(loc, "generic without a name")
		}
		return ir.NewGeneric(attrs, name), nil
	case "union":
		members, err := list(loc, obj, "oneOf")
		if err != nil {
			return nil, err
		}
		return ir.NewUnion(attrs, members...), nil
	case "intersection":
		members, err := list(loc, obj, "allOf")
		if err != nil {
			return nil, err
		}
		return ir.NewIntersection(attrs, members...), nil
	}
	return nil, ir.InvalidSchema(loc, "unknown type %q", typ)
}

// kind determines the type of a node. A type list containing "null" marks
// the node nullable.
func kind(loc string, obj *Object, attrs *ir.Attributes) (string, error) {
	switch {
	case obj.Has("$ref") || obj.Has("target"):
		return "reference", nil
	case obj.Has("$generic"):
		return "generic", nil
	case obj.Has("oneOf"):
		return "union", nil
	case obj.Has("allOf"):
		return "intersection", nil
	}

	var typ string
	switch v, _ := obj.Get("type"); t := v.(type) {
	case nil:
	case string:
		typ = t
	case []any:
		for _, item := range t {
			s, _ := item.(string)
			switch {
			case s == "null":
				attrs.Nullable = true
			case typ == "":
				typ = s
			default:
				return "", ir.InvalidSchema(loc, "multiple types %v, use oneOf", t)
			}
		}
	default:
		return "", ir.InvalidSchema(loc, "type must be a string")
	}

	switch {
	case typ == "" && (obj.Has("additionalProperties") || obj.Has("schema")):
		return "map", nil
	case typ == "" && obj.Has("items"):
		return "array", nil
	case typ == "" && (obj.Has("pattern") || obj.Has("minLength") || obj.Has("maxLength")):
		return "string", nil
	case typ == "" && (obj.Has("minimum") || obj.Has("maximum")):
		return "number", nil
	case typ == "":
		return "", ir.InvalidSchema(loc, "could not determine type")
	case typ == "object" && obj.Has("properties"):
		return "struct", nil
	case typ == "object":
		return "map", nil
	case typ == "int":
		return "integer", nil
	}
	return typ, nil
}

func attributes(obj *Object) ir.Attributes {
	return ir.Attributes{
		Title:       obj.String("title"),
		Description: obj.String("description"),
		Nullable:    obj.Bool("nullable"),
		Deprecated:  obj.Bool("deprecated"),
		Readonly:    obj.Bool("readonly") || obj.Bool("readOnly"),
	}
}

func structure(loc string, obj *Object, attrs ir.Attributes) (ir.Type, error) {
	b := ir.NewStructBuilder().Attributes(attrs)

	if raw, ok := obj.Get("properties"); ok {
		props, ok := raw.(*Object)
		if !ok {
			return nil, ir.InvalidSchema(loc+".properties", "must be an object")
		}
		for name, value := range props.All() {
			pobj, ok := value.(*Object)
			if !ok {
				return nil, ir.InvalidSchema(loc+"."+name, "property must be an object")
			}
			t, err := property(loc+"."+name, pobj)
			if err != nil {
				return nil, err
			}
			b.Add(name, t)
		}
	}
	b.Require(stringList(obj, "required")...)

	for _, key := range []string{"$extends", "parent"} {
		raw, ok := obj.Get(key)
		if !ok {
			continue
		}
		parent, err := parentRef(loc+"."+key, raw)
		if err != nil {
			return nil, err
		}
		b.Extends(parent)
		break
	}

	if disc := obj.String("discriminator"); disc != "" {
		var mapping []ir.Mapping
		if m, ok := obj.Object("mapping"); ok {
			for typ, value := range m.All() {
				s, ok := value.(string)
				if !ok {
					return nil, ir.InvalidSchema(loc+".mapping."+typ, "discriminator value must be a string")
				}
				mapping = append(mapping, ir.Mapping{Type: typ, Value: s})
			}
		}
		b.Discriminator(disc, mapping...)
	}

	b.Base(obj.Bool("base"))
	if generics := stringList(obj, "$generics"); len(generics) > 0 {
		b.Generics(generics...)
	}
	return b.Build(), nil
}

func parentRef(loc string, raw any) (*ir.ReferenceType, error) {
	switch v := raw.(type) {
	case string:
		return ir.Ref(v), nil
	case *Object:
		t, err := reference(loc, v, attributes(v))
		if err != nil {
			return nil, err
		}
		return t.(*ir.ReferenceType), nil
	}
	return nil, ir.InvalidSchema(loc, "parent must be a name or a reference")
}

func reference(loc string, obj *Object, attrs ir.Attributes) (ir.Type, error) {
	target := obj.String("$ref")
	if target == "" {
		target = obj.String("target")
	}
	if target == "" {
		return nil, ir.InvalidSchema(loc, "reference without a target")
	}

	spec := ir.ReferenceSpec{Attributes: attrs, Target: target}
	for _, key := range []string{"$template", "template"} {
		tpls, ok := obj.Object(key)
		if !ok {
			continue
		}
		for name, value := range tpls.All() {
			var arg ir.Type
			switch v := value.(type) {
			case string:
				arg = ir.Ref(v)
			case *Object:
				t, err := property(fmt.Sprintf("%s.$template[%s]", loc, name), v)
				if err != nil {
					return nil, err
				}
				arg = t
			default:
				return nil, ir.InvalidSchema(fmt.Sprintf("%s.$template[%s]", loc, name), "template must be a name or a type")
			}
			spec.Templates = append(spec.Templates, ir.Template{Name: name, Type: arg})
		}
		break
	}
	return ir.NewReference(spec), nil
}

func mapping(loc string, obj *Object, attrs ir.Attributes) (ir.Type, error) {
	spec := ir.MapSpec{
		Attributes:    attrs,
		MinProperties: integer(obj, "minProperties"),
		MaxProperties: integer(obj, "maxProperties"),
	}

	raw, ok := obj.Get("additionalProperties")
	if !ok {
		raw, ok = obj.Get("schema")
	}
	switch v := raw.(type) {
	case *Object:
		values, err := property(loc+".additionalProperties", v)
		if err != nil {
			return nil, err
		}
		spec.Values = values
	case bool:
		if !v {
			return nil, ir.InvalidSchema(loc+".additionalProperties", "a map must accept values")
		}
	case nil:
		if ok {
			return nil, ir.InvalidSchema(loc+".additionalProperties", "must be an object or true")
		}
	default:
		return nil, ir.InvalidSchema(loc+".additionalProperties", "must be an object or true")
	}
	return ir.NewMap(spec), nil
}

func array(loc string, obj *Object, attrs ir.Attributes) (ir.Type, error) {
	raw, ok := obj.Object("items")
	if !ok {
		raw, ok = obj.Object("schema")
	}
	if !ok {
		return nil, ir.InvalidSchema(loc+".items", "array has no item type")
	}
	items, err := property(loc+".items", raw)
	if err != nil {
		return nil, err
	}
	return ir.NewArray(ir.ArraySpec{
		Attributes:  attrs,
		Items:       items,
		MinItems:    integer(obj, "minItems"),
		MaxItems:    integer(obj, "maxItems"),
		UniqueItems: obj.Bool("uniqueItems"),
	}), nil
}

// numeric reads the number keywords. A numeric exclusiveMinimum or
// exclusiveMaximum is the bound itself.
func numeric(obj *Object, attrs ir.Attributes) ir.NumericSpec {
	spec := ir.NumericSpec{
		Attributes:       attrs,
		Format:           ir.Format(obj.String("format")),
		Minimum:          float(obj, "minimum"),
		Maximum:          float(obj, "maximum"),
		ExclusiveMinimum: obj.Bool("exclusiveMinimum"),
		ExclusiveMaximum: obj.Bool("exclusiveMaximum"),
		MultipleOf:       float(obj, "multipleOf"),
		Enum:             enum(obj),
	}
	if bound := float(obj, "exclusiveMinimum"); bound != nil {
		spec.Minimum, spec.ExclusiveMinimum = bound, true
	}
	if bound := float(obj, "exclusiveMaximum"); bound != nil {
		spec.Maximum, spec.ExclusiveMaximum = bound, true
	}
	return spec
}

func list(loc string, obj *Object, key string) ([]ir.Type, error) {
	raw, _ := obj.Get(key)
	items, ok := raw.([]any)
	if !ok {
		return nil, ir.InvalidSchema(loc+"."+key, "must be a list")
	}
	out := make([]ir.Type, 0, len(items))
	for i, item := range items {
		iloc := fmt.Sprintf("%s.%s[%d]", loc, key, i)
		member, ok := item.(*Object)
		if !ok {
			return nil, ir.InvalidSchema(iloc, "must be an object")
		}
		t, err := property(iloc, member)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func stringList(obj *Object, key string) []string {
	raw, _ := obj.Get(key)
	items, _ := raw.([]any)
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func enum(obj *Object) []any {
	raw, _ := obj.Get("enum")
	items, _ := raw.([]any)
	out := make([]any, 0, len(items))
	for _, item := range items {
		if f, ok := toFloat(item); ok {
			item = f
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func float(obj *Object, key string) *float64 {
	f, ok := obj.Number(key)
	if !ok {
		return nil
	}
	return &f
}

func integer(obj *Object, key string) *int {
	f, ok := obj.Number(key)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

func first(obj *Object) (string, any) {
	for k, v := range obj.All() {
		return k, v
	}
	return "", nil
}
