// Package resolver turns references and intersections of a definitions
// registry into concrete shapes and checks that a registry is well formed.
package resolver

import (
	"fmt"
	"slices"

	"github.com/blimu-dev/schema-gen/pkg/ir"
)

// Resolver resolves names against one registry. Results are memoised, so a
// Resolver must not outlive the generation run that created it.
type Resolver struct {
	defs    *ir.Definitions
	refs    map[string]ir.Type
	structs map[string]*ir.StructType
}

// New creates a resolver over defs
func New(defs *ir.Definitions) *Resolver {
	return &Resolver{
		defs:    defs,
		refs:    make(map[string]ir.Type),
		structs: make(map[string]*ir.StructType),
	}
}

// Definitions returns the registry the resolver reads from
func (r *Resolver) Definitions() *ir.Definitions {
	return r.defs
}

// Resolve follows name through any chain of reference definitions and
// returns the first type that is not a reference.
func (r *Resolver) Resolve(name string) (ir.Type, error) {
	return r.resolve(name, nil)
}

func (r *Resolver) resolve(name string, path []string) (ir.Type, error) {
	if t, ok := r.refs[name]; ok {
		return t, nil
	}
	if slices.Contains(path, name) {
		return nil, ir.CyclicReference(append(slices.Clone(path), name)...)
	}

	t, ok := r.defs.Get(name)
	if !ok {
		return nil, ir.UnknownReference(name)
	}
	if ref, ok := t.(*ir.ReferenceType); ok {
		resolved, err := r.resolve(ref.Target(), append(slices.Clone(path), name))
		if err != nil {
			return nil, err
		}
		t = resolved
	}

	r.refs[name] = t
	return t, nil
}

// ResolveStruct returns the struct registered under name. Intersection
// definitions are merged into a synthesized struct; any other kind fails
// with an InvalidSchemaError.
func (r *Resolver) ResolveStruct(name string) (*ir.StructType, error) {
	return r.structOf(name, nil)
}

// ResolveIntersection merges the structs the members of t reference
func (r *Resolver) ResolveIntersection(t *ir.IntersectionType) (*ir.StructType, error) {
	return r.intersect(t, nil)
}

func (r *Resolver) structOf(name string, stack []string) (*ir.StructType, error) {
	if st, ok := r.structs[name]; ok {
		return st, nil
	}
	if slices.Contains(stack, name) {
		return nil, ir.CyclicReference(append(slices.Clone(stack), name)...)
	}

	t, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}

	var st *ir.StructType
	switch v := t.(type) {
	case *ir.StructType:
		st = v
	case *ir.IntersectionType:
		st, err = r.intersect(v, append(slices.Clone(stack), name))
		if err != nil {
			return nil, err
		}
	default:
		return nil, ir.InvalidSchema(name, "all-of must contain only struct types, %q is a %s", name, t.Kind())
	}

	r.structs[name] = st
	return st, nil
}

func (r *Resolver) intersect(t *ir.IntersectionType, stack []string) (*ir.StructType, error) {
	b := ir.NewStructBuilder().Attributes(t.Attributes())
	for i, member := range t.Members() {
		ref, ok := member.(*ir.ReferenceType)
		if !ok {
			return nil, ir.InvalidSchema(fmt.Sprintf("allOf[%d]", i), "all-of must contain only struct types, got %s", member.Kind())
		}
		st, err := r.structOf(ref.Target(), stack)
		if err != nil {
			return nil, err
		}
		Merge(b, st)
	}
	return b.Build(), nil
}

// Merge copies the properties of src into b. Properties already present
// are overwritten in place and required flags accumulate.
func Merge(b *ir.StructBuilder, src *ir.StructType) {
	for _, p := range src.Properties() {
		b.Add(p.Name, p.Type)
		if p.Required {
			b.Require(p.Name)
		}
	}
}

// ResolveReference resolves name against defs without memoisation
func ResolveReference(name string, defs *ir.Definitions) (ir.Type, error) {
	return New(defs).Resolve(name)
}

// ResolveIntersection merges the structs referenced by t against defs
func ResolveIntersection(t *ir.IntersectionType, defs *ir.Definitions) (*ir.StructType, error) {
	return New(defs).ResolveIntersection(t)
}
