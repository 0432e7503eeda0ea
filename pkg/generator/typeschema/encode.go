package typeschema

import (
	"bytes"

	"github.com/goccy/go-json"

	"github.com/blimu-dev/schema-gen/pkg/ir"
)

type member struct {
	key   string
	value any
}

// object is a JSON object that keeps its members in insertion order
type object []member

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *object) set(key string, value any) {
	*o = append(*o, member{key: key, value: value})
}

func (o *object) str(key, value string) {
	if value != "" {
		o.set(key, value)
	}
}

func (o *object) flag(key string, value bool) {
	if value {
		o.set(key, true)
	}
}

func (o *object) enum(values []any) {
	if len(values) > 0 {
		o.set("enum", values)
	}
}

func optional[T any](o *object, key string, value *T) {
	if value != nil {
		o.set(key, *value)
	}
}

// encode converts a node into its TypeSchema document form. Title and
// description lead, the kind specific keywords follow and the boolean
// attributes close the object.
func encode(t ir.Type) object {
	attrs := t.Attributes()
	var o object
	o.str("title", attrs.Title)
	o.str("description", attrs.Description)

	switch v := t.(type) {
	case *ir.StringType:
		spec := v.Spec()
		o.set("type", "string")
		o.str("format", string(spec.Format))
		o.str("pattern", spec.Pattern)
		optional(&o, "minLength", spec.MinLength)
		optional(&o, "maxLength", spec.MaxLength)
		o.enum(spec.Enum)
	case *ir.IntegerType:
		o.set("type", "integer")
		numeric(&o, v.Spec())
	case *ir.NumberType:
		o.set("type", "number")
		numeric(&o, v.Spec())
	case *ir.BooleanType:
		o.set("type", "boolean")
	case *ir.AnyType:
		o.set("type", "any")
	case *ir.StructType:
		structure(&o, v)
	case *ir.MapType:
		spec := v.Spec()
		o.set("type", "map")
		if spec.Values == nil {
			o.set("additionalProperties", true)
		} else {
			o.set("additionalProperties", encode(spec.Values))
		}
		optional(&o, "minProperties", spec.MinProperties)
		optional(&o, "maxProperties", spec.MaxProperties)
	case *ir.ArrayType:
		spec := v.Spec()
		o.set("type", "array")
		o.set("items", encode(spec.Items))
		optional(&o, "minItems", spec.MinItems)
		optional(&o, "maxItems", spec.MaxItems)
		o.flag("uniqueItems", spec.UniqueItems)
	case *ir.UnionType:
		o.set("oneOf", encodeAll(v.Members()))
	case *ir.IntersectionType:
		o.set("allOf", encodeAll(v.Members()))
	case *ir.ReferenceType:
		o.set("$ref", v.Target())
		if v.HasTemplates() {
			o.set("$template", templates(v.Templates()))
		}
	case *ir.GenericType:
		o.set("$generic", v.Name())
	}

	o.flag("nullable", attrs.Nullable)
	o.flag("deprecated", attrs.Deprecated)
	o.flag("readonly", attrs.Readonly)
	return o
}

func encodeAll(types []ir.Type) []object {
	out := make([]object, 0, len(types))
	for _, t := range types {
		out = append(out, encode(t))
	}
	return out
}

func numeric(o *object, spec ir.NumericSpec) {
	o.str("format", string(spec.Format))
	optional(o, "minimum", spec.Minimum)
	optional(o, "maximum", spec.Maximum)
	o.flag("exclusiveMinimum", spec.ExclusiveMinimum)
	o.flag("exclusiveMaximum", spec.ExclusiveMaximum)
	optional(o, "multipleOf", spec.MultipleOf)
	o.enum(spec.Enum)
}

func structure(o *object, st *ir.StructType) {
	o.set("type", "struct")
	o.flag("base", st.Base())
	if ext := st.Extends(); ext != nil {
		if ext.HasTemplates() {
			o.set("$extends", object{
				{key: "$ref", value: ext.Target()},
				{key: "$template", value: templates(ext.Templates())},
			})
		} else {
			o.set("$extends", ext.Target())
		}
	}
	if generics := st.Generics(); len(generics) > 0 {
		o.set("$generics", generics)
	}

	props := object{}
	for _, p := range st.Properties() {
		props.set(p.Name, encode(p.Type))
	}
	o.set("properties", props)
	if required := st.Required(); len(required) > 0 {
		o.set("required", required)
	}

	if st.Discriminator() != "" {
		o.set("discriminator", st.Discriminator())
		mapping := object{}
		for _, m := range st.Mapping() {
			mapping.set(m.Type, m.Value)
		}
		o.set("mapping", mapping)
	}
}

// templates encodes plain references by name and any other argument as a
// full node
func templates(tpls []ir.Template) object {
	out := object{}
	for _, tpl := range tpls {
		if ref, ok := tpl.Type.(*ir.ReferenceType); ok && !ref.HasTemplates() {
			out.set(tpl.Name, ref.Target())
			continue
		}
		out.set(tpl.Name, encode(tpl.Type))
	}
	return out
}
