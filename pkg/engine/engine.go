// Package engine drives a backend over a schema: it walks the definitions
// in registration order, resolves references and intersections, renders
// every definition through the backend and assembles the output documents.
//
// Generation is pure and synchronous. A Schema may be shared by concurrent
// Generate calls; each call owns its resolver state.
package engine

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/blimu-dev/schema-gen/pkg/backend"
	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/normalizer"
	"github.com/blimu-dev/schema-gen/pkg/resolver"
)

// DefaultBundleName names the document of single-file backends
const DefaultBundleName = "schema"

// Options tune a generation run
type Options struct {
	// Namespace is the package or namespace the documents are wrapped in
	Namespace string
	// ImportAliases maps an alias to an external namespace. A reference
	// "alias:Type" with a known alias renders as an imported type.
	ImportAliases map[string]string
	// BundleName names the single document of single-file backends
	BundleName string
}

// generator is the context of one run
type generator struct {
	defs     *ir.Definitions
	backend  backend.Backend
	caps     backend.Capabilities
	mapper   backend.TypeMapper
	writer   backend.Writer
	norm     normalizer.Normalizer
	opts     Options
	res      *resolver.Resolver
	rootName string
}

// Generate renders schema with b. Any error aborts the whole run; no
// partial output is returned.
func Generate(schema *ir.Schema, b backend.Backend, opts Options) (*Output, error) {
	if schema == nil {
		return nil, errors.New("schema is nil")
	}
	if b == nil {
		return nil, errors.New("backend is nil")
	}
	if opts.BundleName == "" {
		opts.BundleName = DefaultBundleName
	}

	defs := schema.Definitions()
	if err := resolver.AssertWellFormed(defs); err != nil {
		return nil, err
	}

	g := &generator{
		defs:    defs,
		backend: b,
		caps:    b.Capabilities(),
		mapper:  b.TypeMapper(),
		writer:  b.Writer(),
		norm:    b.Normalizer(),
		opts:    opts,
		res:     resolver.New(defs),
	}

	if err := g.checkRoot(schema.Root()); err != nil {
		return nil, err
	}
	if g.caps.SingleFile {
		return g.bundle()
	}
	return g.perDefinition()
}

func (g *generator) checkRoot(root ir.Type) error {
	ref, ok := root.(*ir.ReferenceType)
	if !ok {
		return nil
	}
	if _, ok := g.external(ref.Target()); ok {
		return nil
	}
	if _, err := g.res.Resolve(ref.Target()); err != nil {
		return errors.Wrap(err, "root")
	}
	g.rootName = ref.Target()
	return nil
}

func (g *generator) perDefinition() (*Output, error) {
	out := &Output{}
	owners := make(map[string]string)

	for name, t := range g.defs.All() {
		body, err := g.definition(name, t)
		if err != nil {
			return nil, errors.Wrapf(err, "definition %q", name)
		}
		usage, err := g.usage(name, t)
		if err != nil {
			return nil, errors.Wrapf(err, "definition %q", name)
		}

		doc := backend.Document{
			Name:      g.name(name),
			Namespace: g.opts.Namespace,
			Bodies:    []string{body},
			Usage:     usage,
			Root:      name == g.rootName,
			Entry:     g.rootName,
		}
		doc.Imports = g.writer.Imports(g.opts.Namespace, usage)

		content, err := g.writer.Document(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "definition %q", name)
		}

		file := doc.Name.File
		if owner, ok := owners[file]; ok {
			return nil, ir.InvalidSchema(name, "file name %q collides with definition %q", file, owner)
		}
		owners[file] = name
		out.add(File{Name: file, Content: content})
	}
	return out, nil
}

func (g *generator) bundle() (*Output, error) {
	var bodies []string
	var usages []backend.Usage

	for name, t := range g.defs.All() {
		body, err := g.definition(name, t)
		if err != nil {
			return nil, errors.Wrapf(err, "definition %q", name)
		}
		usage, err := g.usage(name, t)
		if err != nil {
			return nil, errors.Wrapf(err, "definition %q", name)
		}
		bodies = append(bodies, body)
		usages = append(usages, usage)
	}

	usage := mergeUsage(usages)
	doc := backend.Document{
		Name:      g.name(g.opts.BundleName),
		Namespace: g.opts.Namespace,
		Bodies:    bodies,
		Usage:     usage,
		Root:      true,
		Entry:     g.rootName,
	}
	doc.Imports = g.writer.Imports(g.opts.Namespace, usage)

	content, err := g.writer.Document(doc)
	if err != nil {
		return nil, err
	}
	out := &Output{}
	out.add(File{Name: doc.Name.File, Content: content})
	return out, nil
}

// definition dispatches a definition to the matching writer hook
func (g *generator) definition(name string, t ir.Type) (string, error) {
	attrs := t.Attributes()

	switch v := t.(type) {
	case *ir.StructType:
		decl, err := g.structDecl(name, v)
		if err != nil {
			return "", err
		}
		return g.writer.WriteStruct(decl)
	case *ir.IntersectionType:
		st, err := g.res.ResolveStruct(name)
		if err != nil {
			return "", err
		}
		decl, err := g.structDecl(name, st)
		if err != nil {
			return "", err
		}
		return g.writer.WriteStruct(decl)
	case *ir.MapType:
		value, err := g.mapValue(name, v)
		if err != nil {
			return "", err
		}
		return g.writer.WriteMap(backend.MapDecl{
			Name:        g.name(name),
			Description: attrs.Description,
			Value:       value,
			Origin:      v,
		})
	case *ir.ArrayType:
		item, err := g.typeOf(name+".items", v.Items())
		if err != nil {
			return "", err
		}
		return g.writer.WriteArray(backend.ArrayDecl{
			Name:        g.name(name),
			Description: attrs.Description,
			Item:        item,
			Origin:      v,
		})
	default:
		target, err := g.typeOf(name, t)
		if err != nil {
			return "", err
		}
		return g.writer.WriteAlias(backend.AliasDecl{
			Name:        g.name(name),
			Description: attrs.Description,
			Target:      target,
			Origin:      t,
		})
	}
}

func (g *generator) name(raw string) backend.Name {
	return backend.NewName(raw, g.norm)
}

// external splits an "alias:Type" reference whose alias is configured
func (g *generator) external(target string) (backend.External, bool) {
	alias, typ, ok := strings.Cut(target, ":")
	if !ok {
		return backend.External{}, false
	}
	ns, ok := g.opts.ImportAliases[alias]
	if !ok {
		return backend.External{}, false
	}
	return backend.External{Alias: alias, Namespace: ns, Name: g.norm.Class(typ)}, true
}
