package engine

import (
	"fmt"
	"slices"

	"github.com/blimu-dev/schema-gen/pkg/backend"
	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/resolver"
)

func (g *generator) structDecl(name string, st *ir.StructType) (backend.StructDecl, error) {
	attrs := st.Attributes()
	decl := backend.StructDecl{
		Name:        g.name(name),
		Description: attrs.Description,
		Deprecated:  attrs.Deprecated,
		Base:        st.Base(),
		Origin:      st,
	}

	props := st.Properties()
	if ext := st.Extends(); ext != nil {
		if g.flattens(st) {
			flat, err := g.flatten(name, st, nil)
			if err != nil {
				return decl, err
			}
			props = flat
		} else {
			if err := g.checkParent(name, ext); err != nil {
				return decl, err
			}
			parent, err := g.typeOf(name+".$extends", ext)
			if err != nil {
				return decl, err
			}
			decl.Extends = parent
		}
	}

	if g.caps.Generics {
		for _, param := range st.Generics() {
			decl.Generics = append(decl.Generics, g.norm.Argument(param))
		}
	}

	owners := make(map[string]string, len(props))
	for _, p := range props {
		prop, err := g.property(name, p)
		if err != nil {
			return decl, err
		}
		if owner, ok := owners[prop.Name.Property]; ok {
			return decl, ir.InvalidSchema(name+"."+p.Name, "property name %q collides with property %q", prop.Name.Property, owner)
		}
		owners[prop.Name.Property] = p.Name
		decl.Properties = append(decl.Properties, prop)
	}

	if st.Discriminator() != "" {
		decl.Discriminator = st.Discriminator()
		for _, m := range st.Mapping() {
			typ, err := g.typeOf(fmt.Sprintf("%s.mapping[%s]", name, m.Value), ir.Ref(m.Type))
			if err != nil {
				return decl, err
			}
			decl.Mapping = append(decl.Mapping, backend.Subtype{Type: typ, Value: m.Value})
		}
	}
	return decl, nil
}

func (g *generator) property(owner string, p ir.Property) (backend.Property, error) {
	typ, err := g.typeOf(owner+"."+p.Name, p.Type)
	if err != nil {
		return backend.Property{}, err
	}
	attrs := p.Type.Attributes()
	_, isRef := p.Type.(*ir.ReferenceType)
	return backend.Property{
		Name:        g.name(p.Name),
		Type:        typ,
		Required:    p.Required,
		Nullable:    attrs.Nullable,
		Deprecated:  attrs.Deprecated,
		Readonly:    attrs.Readonly,
		Description: attrs.Description,
		Reference:   isRef,
		Origin:      p.Type,
	}, nil
}

// flattens reports whether the parent chain of st is merged into it
func (g *generator) flattens(st *ir.StructType) bool {
	ext := st.Extends()
	if ext == nil {
		return false
	}
	return !g.caps.Extends || (ext.HasTemplates() && !g.caps.Generics)
}

// checkParent makes sure a parent that is emitted as an extends clause
// names a struct, following the chain of parents up to its top
func (g *generator) checkParent(name string, ext *ir.ReferenceType) error {
	path := []string{name}
	for ext != nil {
		target := ext.Target()
		if _, ok := g.external(target); ok {
			return nil
		}
		if slices.Contains(path, target) {
			return ir.CyclicReference(append(path, target)...)
		}
		parent, err := g.res.Resolve(target)
		if err != nil {
			return err
		}
		child := path[len(path)-1]
		switch v := parent.(type) {
		case *ir.StructType:
			ext = v.Extends()
		case *ir.IntersectionType:
			return nil
		default:
			return ir.InvalidSchema(child+".$extends", "parent %q must be a struct, got %s", target, parent.Kind())
		}
		path = append(path, target)
	}
	return nil
}

// checkIntersection makes sure every member of an inline intersection
// references a struct
func (g *generator) checkIntersection(loc string, t *ir.IntersectionType) error {
	for i, m := range t.Members() {
		ref, ok := m.(*ir.ReferenceType)
		if !ok {
			return ir.InvalidSchema(fmt.Sprintf("%s[%d]", loc, i), "all-of must contain only struct types, got %s", m.Kind())
		}
		if _, ok := g.external(ref.Target()); ok {
			continue
		}
		if _, err := g.res.ResolveStruct(ref.Target()); err != nil {
			return err
		}
	}
	return nil
}

// flatten merges the parent chain of st parent first. Placeholders of each
// parent are substituted with the templates its child passes.
func (g *generator) flatten(name string, st *ir.StructType, seen []string) ([]ir.Property, error) {
	b := ir.NewStructBuilder()

	if ext := st.Extends(); ext != nil {
		seen = append(slices.Clone(seen), name)
		if slices.Contains(seen, ext.Target()) {
			return nil, ir.CyclicReference(append(seen, ext.Target())...)
		}
		if _, ok := g.external(ext.Target()); ok {
			return nil, ir.UnsupportedFeature("extends", g.backend.Name(), name+".$extends")
		}
		if err := g.checkParent(name, ext); err != nil {
			return nil, err
		}
		parent, err := g.res.ResolveStruct(ext.Target())
		if err != nil {
			return nil, err
		}
		inherited, err := g.flatten(ext.Target(), parent, seen)
		if err != nil {
			return nil, err
		}

		subst := make(map[string]ir.Type)
		for _, tpl := range ext.Templates() {
			subst[tpl.Name] = tpl.Type
		}
		for _, param := range parent.Generics() {
			if _, ok := subst[param]; !ok {
				subst[param] = ir.Any()
			}
		}
		for _, p := range inherited {
			b.Add(p.Name, substitute(p.Type, subst))
			if p.Required {
				b.Require(p.Name)
			}
		}
	}

	resolver.Merge(b, st)
	return b.Build().Properties(), nil
}

// substitute replaces generic placeholders in t with the bound templates
func substitute(t ir.Type, subst map[string]ir.Type) ir.Type {
	if len(subst) == 0 {
		return t
	}

	switch v := t.(type) {
	case *ir.GenericType:
		if bound, ok := subst[v.Name()]; ok {
			return bound
		}
	case *ir.ArrayType:
		spec := v.Spec()
		spec.Items = substitute(spec.Items, subst)
		return ir.NewArray(spec)
	case *ir.MapType:
		spec := v.Spec()
		if spec.Values != nil {
			spec.Values = substitute(spec.Values, subst)
		}
		return ir.NewMap(spec)
	case *ir.UnionType:
		return ir.NewUnion(v.Attributes(), substituteAll(v.Members(), subst)...)
	case *ir.IntersectionType:
		return ir.NewIntersection(v.Attributes(), substituteAll(v.Members(), subst)...)
	case *ir.ReferenceType:
		if !v.HasTemplates() {
			return v
		}
		templates := v.Templates()
		for i := range templates {
			templates[i].Type = substitute(templates[i].Type, subst)
		}
		return ir.NewReference(ir.ReferenceSpec{Attributes: v.Attributes(), Target: v.Target(), Templates: templates})
	}
	return t
}

func substituteAll(types []ir.Type, subst map[string]ir.Type) []ir.Type {
	out := make([]ir.Type, len(types))
	for i, t := range types {
		out[i] = substitute(t, subst)
	}
	return out
}

func (g *generator) mapValue(loc string, m *ir.MapType) (string, error) {
	if m.AnyValues() {
		return g.mapper.Any(), nil
	}
	return g.typeOf(loc+".additionalProperties", m.Values())
}

// typeOf renders the type expression of t, which sits at loc
func (g *generator) typeOf(loc string, t ir.Type) (string, error) {
	switch v := t.(type) {
	case *ir.StringType:
		return g.mapper.String(v.Format()), nil
	case *ir.IntegerType:
		return g.mapper.Integer(v.Format()), nil
	case *ir.NumberType:
		return g.mapper.Number(), nil
	case *ir.BooleanType:
		return g.mapper.Boolean(), nil
	case *ir.AnyType:
		return g.mapper.Any(), nil
	case *ir.GenericType:
		if !g.caps.Generics {
			return g.mapper.Any(), nil
		}
		return g.norm.Argument(v.Name()), nil
	case *ir.MapType:
		value, err := g.mapValue(loc, v)
		if err != nil {
			return "", err
		}
		return g.mapper.Map(value), nil
	case *ir.ArrayType:
		item, err := g.typeOf(loc+".items", v.Items())
		if err != nil {
			return "", err
		}
		return g.mapper.Array(item), nil
	case *ir.UnionType:
		members, err := g.members(loc+".oneOf", v.Members())
		if err != nil {
			return "", err
		}
		return g.mapper.Union(members), nil
	case *ir.IntersectionType:
		if err := g.checkIntersection(loc+".allOf", v); err != nil {
			return "", err
		}
		members, err := g.members(loc+".allOf", v.Members())
		if err != nil {
			return "", err
		}
		return g.mapper.Intersection(members), nil
	case *ir.ReferenceType:
		return g.reference(loc, v)
	case *ir.StructType:
		return "", ir.InvalidSchema(loc, "property must not contain a nested struct, use a reference")
	case nil:
		return "", ir.InvalidSchema(loc, "missing type")
	}
	return "", ir.InvalidSchema(loc, "unknown type kind %s", t.Kind())
}

func (g *generator) members(loc string, types []ir.Type) ([]string, error) {
	out := make([]string, 0, len(types))
	for i, m := range types {
		rendered, err := g.typeOf(fmt.Sprintf("%s[%d]", loc, i), m)
		if err != nil {
			return nil, err
		}
		if ir.IsCombinator(m) {
			rendered = g.mapper.Group(rendered)
		}
		out = append(out, rendered)
	}
	return out, nil
}

func (g *generator) reference(loc string, ref *ir.ReferenceType) (string, error) {
	var name string
	if ext, ok := g.external(ref.Target()); ok {
		name = g.mapper.Namespaced(ext.Alias, ext.Name)
	} else {
		if _, err := g.res.Resolve(ref.Target()); err != nil {
			return "", err
		}
		name = g.norm.Class(ref.Target())
	}

	if !ref.HasTemplates() {
		return name, nil
	}
	if !g.caps.Generics {
		return "", ir.UnsupportedFeature("generics", g.backend.Name(), loc)
	}

	var args []string
	for _, tpl := range ref.Templates() {
		arg, err := g.typeOf(fmt.Sprintf("%s.$template[%s]", loc, tpl.Name), tpl.Type)
		if err != nil {
			return "", err
		}
		args = append(args, arg)
	}
	return g.mapper.Generic(name, args), nil
}
