package engine

import (
	"cmp"
	"slices"

	"github.com/blimu-dev/schema-gen/pkg/backend"
	"github.com/blimu-dev/schema-gen/pkg/ir"
)

// collector accumulates the Usage of one document. Nodes of the document
// itself are walked as direct; nodes reached through references are walked
// as indirect and only contribute formats and flags.
type collector struct {
	g        *generator
	self     string
	usage    backend.Usage
	formats  map[ir.Format]struct{}
	direct   map[ir.Format]struct{}
	refs     map[string]struct{}
	subtypes []string
	external map[backend.External]struct{}
	visited  map[string]struct{}
}

// usage computes what the document for definition name uses, scanning
// everything reachable from it.
func (g *generator) usage(name string, t ir.Type) (backend.Usage, error) {
	c := &collector{
		g:        g,
		self:     name,
		formats:  make(map[ir.Format]struct{}),
		direct:   make(map[ir.Format]struct{}),
		refs:     make(map[string]struct{}),
		external: make(map[backend.External]struct{}),
		visited:  map[string]struct{}{name: {}},
	}

	switch v := t.(type) {
	case *ir.StructType:
		if err := c.root(name, v); err != nil {
			return backend.Usage{}, err
		}
	case *ir.IntersectionType:
		st, err := g.res.ResolveStruct(name)
		if err != nil {
			return backend.Usage{}, err
		}
		if err := c.root(name, st); err != nil {
			return backend.Usage{}, err
		}
	default:
		if err := c.walk(t, true); err != nil {
			return backend.Usage{}, err
		}
	}

	return c.finish(), nil
}

func (c *collector) root(name string, st *ir.StructType) error {
	props := st.Properties()
	if ext := st.Extends(); ext != nil {
		if c.g.flattens(st) {
			flat, err := c.g.flatten(name, st, nil)
			if err != nil {
				return err
			}
			props = flat
			if err := c.visit(ext.Target()); err != nil {
				return err
			}
		} else if err := c.walk(ext, true); err != nil {
			return err
		}
	}
	if len(st.Generics()) > 0 && c.g.caps.Generics {
		c.usage.Generics = true
	}
	for _, p := range props {
		if err := c.walk(p.Type, true); err != nil {
			return err
		}
	}
	if st.Discriminator() != "" {
		c.usage.Discriminator = true
		for _, m := range st.Mapping() {
			if _, ok := c.g.external(m.Type); ok {
				continue
			}
			if m.Type != c.self && !slices.Contains(c.subtypes, m.Type) {
				c.subtypes = append(c.subtypes, m.Type)
			}
			if err := c.visit(m.Type); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *collector) walk(t ir.Type, direct bool) error {
	if t == nil {
		return nil
	}
	if t.Attributes().Nullable {
		c.usage.Nullable = true
	}

	switch v := t.(type) {
	case *ir.StringType:
		c.format(v.Format(), direct)
	case *ir.IntegerType:
		c.format(v.Format(), direct)
	case *ir.AnyType:
		c.usage.Any = true
	case *ir.GenericType:
		if c.g.caps.Generics {
			c.usage.Generics = true
		} else {
			c.usage.Any = true
		}
	case *ir.MapType:
		c.usage.Map = true
		if v.AnyValues() {
			c.usage.Any = true
			return nil
		}
		return c.walk(v.Values(), direct)
	case *ir.ArrayType:
		c.usage.Array = true
		return c.walk(v.Items(), direct)
	case *ir.UnionType:
		c.usage.Union = true
		return c.walkAll(v.Members(), direct)
	case *ir.IntersectionType:
		c.usage.Intersection = true
		return c.walkAll(v.Members(), direct)
	case *ir.ReferenceType:
		return c.reference(v, direct)
	case *ir.StructType:
		return c.structure(v)
	}
	return nil
}

func (c *collector) walkAll(types []ir.Type, direct bool) error {
	for _, t := range types {
		if err := c.walk(t, direct); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) reference(ref *ir.ReferenceType, direct bool) error {
	target := ref.Target()
	ext, external := c.g.external(target)
	switch {
	case external && direct:
		c.external[ext] = struct{}{}
	case !external && direct && target != c.self:
		if _, ok := c.refs[target]; !ok {
			c.refs[target] = struct{}{}
			c.usage.References = append(c.usage.References, c.g.name(target))
		}
	}

	if ref.HasTemplates() {
		c.usage.Generics = true
		for _, tpl := range ref.Templates() {
			if err := c.walk(tpl.Type, direct); err != nil {
				return err
			}
		}
	}

	if external {
		return nil
	}
	return c.visit(target)
}

// visit walks a definition reached through a reference
func (c *collector) visit(name string) error {
	if _, ok := c.visited[name]; ok {
		return nil
	}
	c.visited[name] = struct{}{}

	t, ok := c.g.defs.Get(name)
	if !ok {
		return ir.UnknownReference(name)
	}
	return c.walk(t, false)
}

// structure walks a struct definition reached indirectly
func (c *collector) structure(st *ir.StructType) error {
	if ext := st.Extends(); ext != nil {
		if err := c.walk(ext, false); err != nil {
			return err
		}
	}
	for _, p := range st.Properties() {
		if err := c.walk(p.Type, false); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) format(f ir.Format, direct bool) {
	if f == ir.FormatNone {
		return
	}
	c.formats[f] = struct{}{}
	if direct {
		c.direct[f] = struct{}{}
	}
}

func (c *collector) finish() backend.Usage {
	u := c.usage
	for _, name := range c.subtypes {
		if _, ok := c.refs[name]; !ok {
			u.Subtypes = append(u.Subtypes, c.g.name(name))
		}
	}
	u.Formats = sortedFormats(c.formats)
	u.DirectFormats = sortedFormats(c.direct)
	u.External = sortedExternal(c.external)
	return u
}

func sortedFormats(set map[ir.Format]struct{}) []ir.Format {
	formats := make([]ir.Format, 0, len(set))
	for f := range set {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

func sortedExternal(set map[backend.External]struct{}) []backend.External {
	out := make([]backend.External, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b backend.External) int {
		return cmp.Or(cmp.Compare(a.Alias, b.Alias), cmp.Compare(a.Name, b.Name))
	})
	return out
}

// mergeUsage folds the usages of a bundle into one
func mergeUsage(usages []backend.Usage) backend.Usage {
	var merged backend.Usage
	formats := make(map[ir.Format]struct{})
	direct := make(map[ir.Format]struct{})
	external := make(map[backend.External]struct{})

	for _, u := range usages {
		merged.Any = merged.Any || u.Any
		merged.Map = merged.Map || u.Map
		merged.Array = merged.Array || u.Array
		merged.Union = merged.Union || u.Union
		merged.Intersection = merged.Intersection || u.Intersection
		merged.Generics = merged.Generics || u.Generics
		merged.Discriminator = merged.Discriminator || u.Discriminator
		merged.Nullable = merged.Nullable || u.Nullable
		for _, f := range u.Formats {
			formats[f] = struct{}{}
		}
		for _, f := range u.DirectFormats {
			direct[f] = struct{}{}
		}
		for _, e := range u.External {
			external[e] = struct{}{}
		}
	}

	merged.Formats = sortedFormats(formats)
	merged.DirectFormats = sortedFormats(direct)
	merged.External = sortedExternal(external)
	return merged
}
