// Package typescript renders definitions as TypeScript interfaces and type
// aliases, one module per definition.
package typescript

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
	"comment": docComment,
})

const extension = ".ts"

// reserved are the words that cannot name a type
var reserved = []string{
	"any", "boolean", "break", "case", "catch", "class", "const", "continue",
	"debugger", "default", "delete", "do", "else", "enum", "export", "extends",
	"false", "finally", "for", "function", "if", "import", "in", "instanceof",
	"never", "new", "null", "number", "object", "return", "string", "super",
	"switch", "symbol", "this", "throw", "true", "try", "typeof", "undefined",
	"unknown", "var", "void", "while", "with",
}

// TypeScriptGenerator implements backend.Backend for TypeScript
type TypeScriptGenerator struct {
	names normalizer.Normalizer
}

// NewTypeScriptGenerator creates a new TypeScript generator
func NewTypeScriptGenerator() *TypeScriptGenerator {
	return &TypeScriptGenerator{
		names: names{normalizer.New(normalizer.Rules{
			Class:     normalizer.Pascal,
			Property:  normalizer.Raw,
			Argument:  normalizer.Pascal,
			Method:    normalizer.Camel,
			File:      normalizer.Pascal,
			Extension: extension,
			Reserved:  reserved,
		})},
	}
}

// names keeps property names as written, quoting them when needed
type names struct {
	normalizer.Normalizer
}

func (n names) Property(raw string) string {
	return quotePropertyName(raw)
}

func (g *TypeScriptGenerator) Name() string { return "typescript" }

func (g *TypeScriptGenerator) Capabilities() backend.Capabilities {
	return backend.Capabilities{Extends: true, Generics: true}
}

func (g *TypeScriptGenerator) Normalizer() normalizer.Normalizer { return g.names }
func (g *TypeScriptGenerator) TypeMapper() backend.TypeMapper    { return g }
func (g *TypeScriptGenerator) Writer() backend.Writer            { return g }

func (g *TypeScriptGenerator) String(ir.Format) string                  { return "string" }
func (g *TypeScriptGenerator) Integer(ir.Format) string                 { return "number" }
func (g *TypeScriptGenerator) Number() string                           { return "number" }
func (g *TypeScriptGenerator) Boolean() string                          { return "boolean" }
func (g *TypeScriptGenerator) Any() string                              { return "any" }
func (g *TypeScriptGenerator) Array(item string) string                 { return "Array<" + item + ">" }
func (g *TypeScriptGenerator) Map(value string) string                  { return "Record<string, " + value + ">" }
func (g *TypeScriptGenerator) Group(t string) string                    { return "(" + t + ")" }
func (g *TypeScriptGenerator) Union(members []string) string            { return strings.Join(members, " | ") }
func (g *TypeScriptGenerator) Intersection(members []string) string     { return strings.Join(members, " & ") }
func (g *TypeScriptGenerator) Namespaced(namespace, name string) string { return namespace + "." + name }

func (g *TypeScriptGenerator) Generic(base string, args []string) string {
	return base + "<" + strings.Join(args, ", ") + ">"
}

func (g *TypeScriptGenerator) WriteStruct(decl backend.StructDecl) (string, error) {
	return g.execute("struct.gotmpl", decl)
}

func (g *TypeScriptGenerator) WriteMap(decl backend.MapDecl) (string, error) {
	return g.WriteAlias(backend.AliasDecl{Name: decl.Name, Description: decl.Description, Target: g.Map(decl.Value), Origin: decl.Origin})
}

func (g *TypeScriptGenerator) WriteArray(decl backend.ArrayDecl) (string, error) {
	return g.WriteAlias(backend.AliasDecl{Name: decl.Name, Description: decl.Description, Target: g.Array(decl.Item), Origin: decl.Origin})
}

func (g *TypeScriptGenerator) WriteAlias(decl backend.AliasDecl) (string, error) {
	return g.execute("alias.gotmpl", decl)
}

// Imports returns one named import per referenced or subtype module and a namespace
// import per external package. TypeScript has no use for format imports.
func (g *TypeScriptGenerator) Imports(_ string, usage backend.Usage) []string {
	var imports []string
	for _, ref := range slices.Concat(usage.References, usage.Subtypes) {
		module := strings.TrimSuffix(ref.File, extension)
		imports = append(imports, "import {"+ref.Class+"} from \"./"+module+"\";")
	}
	for _, ext := range usage.External {
		imports = append(imports, "import * as "+ext.Alias+" from \""+ext.Namespace+"\";")
	}
	return imports
}

// Document assembles a module. Modules are their own namespace, so the
// configured namespace is not rendered.
func (g *TypeScriptGenerator) Document(doc backend.Document) (string, error) {
	return templates.Execute("document.gotmpl", doc)
}

func (g *TypeScriptGenerator) execute(name string, data any) (string, error) {
	out, err := templates.Execute(name, data)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
