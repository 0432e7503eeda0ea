package resolver

import (
	"fmt"

	"github.com/blimu-dev/schema-gen/pkg/ir"
)

// AssertWellFormed checks the structural rules of every definition:
// properties never hold a bare struct, array items, union members and
// intersection members are of an allowed kind. The first violation is
// returned as an InvalidSchemaError naming its location.
func AssertWellFormed(defs *ir.Definitions) error {
	for name, t := range defs.All() {
		if err := assertDefinition(name, t); err != nil {
			return err
		}
	}
	return nil
}

func assertDefinition(name string, t ir.Type) error {
	switch v := t.(type) {
	case *ir.StructType:
		for _, p := range v.Properties() {
			loc := name + "." + p.Name
			if err := AssertProperty(loc, p.Type); err != nil {
				return err
			}
			if err := walk(loc, p.Type); err != nil {
				return err
			}
		}
		return nil
	case *ir.MapType:
		if v.Values() == nil {
			return nil
		}
		if err := AssertProperty(name+".additionalProperties", v.Values()); err != nil {
			return err
		}
		return walk(name+".additionalProperties", v.Values())
	default:
		return walk(name, t)
	}
}

// walk checks the nested nodes of t, which sits at loc
func walk(loc string, t ir.Type) error {
	switch v := t.(type) {
	case *ir.ArrayType:
		loc += ".items"
		if err := AssertItem(loc, v.Items()); err != nil {
			return err
		}
		return walk(loc, v.Items())
	case *ir.MapType:
		if v.Values() == nil {
			return nil
		}
		loc += ".additionalProperties"
		if err := AssertProperty(loc, v.Values()); err != nil {
			return err
		}
		return walk(loc, v.Values())
	case *ir.UnionType:
		return AssertUnion(loc, v.Members())
	case *ir.IntersectionType:
		return AssertIntersection(loc, v.Members())
	case *ir.ReferenceType:
		for _, tpl := range v.Templates() {
			tloc := fmt.Sprintf("%s.$template[%s]", loc, tpl.Name)
			if err := AssertProperty(tloc, tpl.Type); err != nil {
				return err
			}
			if err := walk(tloc, tpl.Type); err != nil {
				return err
			}
		}
	}
	return nil
}

// AssertProperty rejects a struct used directly as a property type
func AssertProperty(loc string, t ir.Type) error {
	if t == nil {
		return ir.InvalidSchema(loc, "property has no type")
	}
	if _, ok := t.(*ir.StructType); ok {
		return ir.InvalidSchema(loc, "property must not contain a nested struct, use a reference")
	}
	return nil
}

// AssertItem checks the item type of an array
func AssertItem(loc string, t ir.Type) error {
	if t == nil {
		return ir.InvalidSchema(loc, "array has no item type")
	}
	switch t.(type) {
	case *ir.BooleanType, *ir.NumberType, *ir.IntegerType, *ir.StringType,
		*ir.IntersectionType, *ir.UnionType, *ir.ReferenceType, *ir.GenericType, *ir.AnyType:
		return nil
	}
	return ir.InvalidSchema(loc, "item must be of type boolean, number, string, intersection, union, reference, generic or any, got %s", t.Kind())
}

// AssertUnion checks that every member is a scalar or a reference
func AssertUnion(loc string, members []ir.Type) error {
	for i, m := range members {
		switch m.(type) {
		case *ir.NumberType, *ir.IntegerType, *ir.StringType, *ir.BooleanType, *ir.ReferenceType:
			continue
		}
		return ir.InvalidSchema(fmt.Sprintf("%s.oneOf[%d]", loc, i),
			"one-of member must be of type string, number, boolean or reference, got %s", kindOf(m))
	}
	return nil
}

// AssertIntersection checks that every member is a reference
func AssertIntersection(loc string, members []ir.Type) error {
	for i, m := range members {
		if _, ok := m.(*ir.ReferenceType); !ok {
			return ir.InvalidSchema(fmt.Sprintf("%s.allOf[%d]", loc, i),
				"all-of member must be of type reference, got %s", kindOf(m))
		}
	}
	return nil
}

func kindOf(t ir.Type) ir.Kind {
	if t == nil {
		return "nothing"
	}
	return t.Kind()
}
