// Package golang renders definitions as Go types, one file per definition.
// Go has no inheritance, so parent structs are flattened into their
// children by the engine.
package golang

import (
	"bytes"
	"io"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dave/jennifer/jen"

	"github.com/blimu-dev/schema-gen/pkg/backend"
	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/normalizer"
)

// DefaultPackage names the package when no namespace is configured
const DefaultPackage = "model"

const header = "Code generated by schema-gen. DO NOT EDIT."

// GoGenerator implements backend.Backend for Go
type GoGenerator struct {
	names normalizer.Normalizer
}

// NewGoGenerator creates a new Go generator
func NewGoGenerator() *GoGenerator {
	return &GoGenerator{
		names: normalizer.New(normalizer.Rules{
			Class:     normalizer.Pascal,
			Property:  normalizer.Pascal,
			Argument:  normalizer.Pascal,
			Method:    normalizer.Pascal,
			File:      normalizer.Snake,
			Extension: ".go",
		}),
	}
}

func (g *GoGenerator) Name() string { return "go" }

func (g *GoGenerator) Capabilities() backend.Capabilities {
	return backend.Capabilities{Extends: false, Generics: true}
}

func (g *GoGenerator) Normalizer() normalizer.Normalizer { return g.names }
func (g *GoGenerator) TypeMapper() backend.TypeMapper    { return g }
func (g *GoGenerator) Writer() backend.Writer            { return g }

func (g *GoGenerator) Number() string                           { return "float64" }
func (g *GoGenerator) Boolean() string                          { return "bool" }
func (g *GoGenerator) Any() string                              { return "any" }
func (g *GoGenerator) Array(item string) string                 { return "[]" + item }
func (g *GoGenerator) Map(value string) string                  { return "map[string]" + value }
func (g *GoGenerator) Group(t string) string                    { return t }
func (g *GoGenerator) Union([]string) string                    { return "any" }
func (g *GoGenerator) Intersection([]string) string             { return "any" }
func (g *GoGenerator) Namespaced(namespace, name string) string { return namespace + "." + name }

// qualified are the type expressions taken from another package
var qualified = map[string][2]string{
	"time.Time": {"time", "Time"},
}

// String maps date-time to time.Time; other formats stay strings since
// encoding/json only parses RFC 3339 timestamps.
func (g *GoGenerator) String(format ir.Format) string {
	switch format {
	case ir.FormatDateTime:
		return "time.Time"
	case ir.FormatBinary:
		return "[]byte"
	default:
		return "string"
	}
}

func (g *GoGenerator) Integer(format ir.Format) string {
	switch format {
	case ir.FormatInt32:
		return "int32"
	case ir.FormatInt64:
		return "int64"
	default:
		return "int"
	}
}

func (g *GoGenerator) Generic(base string, args []string) string {
	return base + "[" + strings.Join(args, ", ") + "]"
}

func (g *GoGenerator) WriteStruct(decl backend.StructDecl) (string, error) {
	stmt := comment(decl.Description, decl.Deprecated).Type().Id(decl.Name.Class)
	if len(decl.Generics) > 0 {
		stmt.TypesFunc(func(tg *jen.Group) {
			for _, param := range decl.Generics {
				tg.Id(param).Any()
			}
		})
	}
	stmt.StructFunc(func(sg *jen.Group) {
		for _, p := range decl.Properties {
			if doc := formatGoComment(p.Description, p.Deprecated); doc != "" {
				sg.Comment(doc)
			}
			sg.Id(p.Name.Property).Add(typeCode(fieldType(p))).Tag(map[string]string{"json": jsonTag(p)})
		}
	})
	return render(stmt)
}

func (g *GoGenerator) WriteMap(decl backend.MapDecl) (string, error) {
	return render(comment(decl.Description, false).Type().Id(decl.Name.Class).Op("=").Id(g.Map(decl.Value)))
}

func (g *GoGenerator) WriteArray(decl backend.ArrayDecl) (string, error) {
	return render(comment(decl.Description, false).Type().Id(decl.Name.Class).Op("=").Id(g.Array(decl.Item)))
}

func (g *GoGenerator) WriteAlias(decl backend.AliasDecl) (string, error) {
	return render(comment(decl.Description, false).Type().Id(decl.Name.Class).Op("=").Id(decl.Target))
}

// Imports returns the import paths sorted. Definitions share one package
// and need no imports of each other.
func (g *GoGenerator) Imports(_ string, usage backend.Usage) []string {
	var paths []string
	if usage.HasDirectFormat(ir.FormatDateTime) {
		paths = append(paths, "time")
	}
	for _, ext := range usage.External {
		paths = append(paths, ext.Namespace)
	}
	slices.Sort(paths)
	return slices.Compact(paths)
}

// Document assembles a gofmt'ed file. The package is the last element of
// the namespace. Imports are registered with the file so jennifer renders
// the import block.
func (g *GoGenerator) Document(doc backend.Document) (string, error) {
	f := jen.NewFile(packageName(doc.Namespace))
	f.HeaderComment(header)

	for _, ext := range doc.Usage.External {
		f.ImportAlias(ext.Namespace, ext.Alias)
	}
	for _, path := range doc.Imports {
		if err := jen.Qual(path, "_").RenderWithFile(io.Discard, f); err != nil {
			return "", errors.Wrapf(err, "failed to import %s", path)
		}
	}
	for _, body := range doc.Bodies {
		f.Line()
		f.Op(body)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", errors.Wrapf(err, "failed to render %s", doc.Name.File)
	}
	return buf.String(), nil
}

func render(stmt *jen.Statement) (string, error) {
	var buf bytes.Buffer
	if err := stmt.Render(&buf); err != nil {
		return "", errors.Wrap(err, "failed to render declaration")
	}
	return buf.String(), nil
}

// comment starts a statement with the doc comment of a declaration
func comment(description string, deprecated bool) *jen.Statement {
	doc := formatGoComment(description, deprecated)
	if doc == "" {
		return jen.Null()
	}
	return jen.Comment(doc).Line()
}
