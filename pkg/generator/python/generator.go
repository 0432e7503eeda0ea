// Package python renders definitions as pydantic models, one module per
// definition.
package python

import (
	"embed"
	"slices"
	"strings"
	"text/template"

	"github.com/blimu-dev/schema-gen/pkg/backend"
	"github.com/blimu-dev/schema-gen/pkg/generator/render"
	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/normalizer"
)

//go:embed templates/*
var templatesFS embed.FS

var templates = render.MustParse(templatesFS, "templates/*.gotmpl", template.FuncMap{
	"bases":     bases,
	"fieldType": fieldType,
	"field":     field,
	"docstring": formatDocstring,
	"comment":   formatPythonComment,
})

const extension = ".py"

var reserved = []string{
	"False", "None", "True", "and", "as", "assert", "async", "await", "break",
	"class", "continue", "def", "del", "elif", "else", "except", "finally",
	"for", "from", "global", "if", "import", "in", "is", "lambda", "nonlocal",
	"not", "or", "pass", "raise", "return", "try", "while", "with", "yield",
}

// PythonGenerator implements backend.Backend for Python
type PythonGenerator struct {
	names normalizer.Normalizer
}

// NewPythonGenerator creates a new Python generator
func NewPythonGenerator() *PythonGenerator {
	return &PythonGenerator{
		names: normalizer.New(normalizer.Rules{
			Class:     normalizer.Pascal,
			Property:  normalizer.Snake,
			Argument:  normalizer.Pascal,
			Method:    normalizer.Snake,
			File:      normalizer.Snake,
			Extension: extension,
			Reserved:  reserved,
		}),
	}
}

func (g *PythonGenerator) Name() string { return "python" }

func (g *PythonGenerator) Capabilities() backend.Capabilities {
	return backend.Capabilities{Extends: true, Generics: true}
}

func (g *PythonGenerator) Normalizer() normalizer.Normalizer { return g.names }
func (g *PythonGenerator) TypeMapper() backend.TypeMapper    { return g }
func (g *PythonGenerator) Writer() backend.Writer            { return g }

func (g *PythonGenerator) Integer(ir.Format) string                 { return "int" }
func (g *PythonGenerator) Number() string                           { return "float" }
func (g *PythonGenerator) Boolean() string                          { return "bool" }
func (g *PythonGenerator) Any() string                              { return "Any" }
func (g *PythonGenerator) Array(item string) string                 { return "List[" + item + "]" }
func (g *PythonGenerator) Map(value string) string                  { return "Dict[str, " + value + "]" }
func (g *PythonGenerator) Group(t string) string                    { return t }
func (g *PythonGenerator) Union(members []string) string            { return "Union[" + strings.Join(members, ", ") + "]" }
func (g *PythonGenerator) Namespaced(namespace, name string) string { return namespace + "." + name }

func (g *PythonGenerator) String(format ir.Format) string {
	switch format {
	case ir.FormatDate:
		return "datetime.date"
	case ir.FormatDateTime:
		return "datetime.datetime"
	case ir.FormatTime:
		return "datetime.time"
	case ir.FormatDuration:
		return "datetime.timedelta"
	case ir.FormatBinary:
		return "bytes"
	default:
		return "str"
	}
}

// Intersection has no typing counterpart
func (g *PythonGenerator) Intersection([]string) string {
	return "Any"
}

func (g *PythonGenerator) Generic(base string, args []string) string {
	return base + "[" + strings.Join(args, ", ") + "]"
}

func (g *PythonGenerator) WriteStruct(decl backend.StructDecl) (string, error) {
	return g.execute("struct.gotmpl", decl)
}

func (g *PythonGenerator) WriteMap(decl backend.MapDecl) (string, error) {
	return g.execute("root.gotmpl", backend.AliasDecl{Name: decl.Name, Description: decl.Description, Target: g.Map(decl.Value), Origin: decl.Origin})
}

func (g *PythonGenerator) WriteArray(decl backend.ArrayDecl) (string, error) {
	return g.execute("root.gotmpl", backend.AliasDecl{Name: decl.Name, Description: decl.Description, Target: g.Array(decl.Item), Origin: decl.Origin})
}

func (g *PythonGenerator) WriteAlias(decl backend.AliasDecl) (string, error) {
	return g.execute("alias.gotmpl", decl)
}

// Imports lists standard library, typing, pydantic, external and sibling
// module imports in that order. Discriminator subtypes are not imported
// since they import the base themselves.
func (g *PythonGenerator) Imports(_ string, usage backend.Usage) []string {
	var imports []string
	if usage.HasDirectFormat(ir.FormatDate, ir.FormatDateTime, ir.FormatTime, ir.FormatDuration) {
		imports = append(imports, "import datetime")
	}

	typing := []string{"Optional"}
	if usage.Any || usage.Intersection {
		typing = append(typing, "Any")
	}
	if usage.Map {
		typing = append(typing, "Dict")
	}
	if usage.Array {
		typing = append(typing, "List")
	}
	if usage.Union {
		typing = append(typing, "Union")
	}
	if usage.Generics {
		typing = append(typing, "Generic", "TypeVar")
	}
	slices.Sort(typing)
	imports = append(imports,
		"from typing import "+strings.Join(typing, ", "),
		"from pydantic import BaseModel, Field, RootModel",
	)

	for _, ext := range usage.External {
		imports = append(imports, "import "+ext.Namespace+" as "+ext.Alias)
	}
	for _, ref := range usage.References {
		imports = append(imports, "from ."+strings.TrimSuffix(ref.File, extension)+" import "+ref.Class)
	}
	return imports
}

// Document assembles a module. Packages are directories in Python, so the
// configured namespace is not rendered.
func (g *PythonGenerator) Document(doc backend.Document) (string, error) {
	return templates.Execute("document.gotmpl", doc)
}

func (g *PythonGenerator) execute(name string, data any) (string, error) {
	out, err := templates.Execute(name, data)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
