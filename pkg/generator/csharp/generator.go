// Package csharp renders definitions as System.Text.Json annotated C#
// classes, one file per class.
package csharp

import (
	"fmt"
	"strings"

	"github.com/blimu-dev/schema-gen/pkg/backend"
	"github.com/blimu-dev/schema-gen/pkg/generator/render"
	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/normalizer"
)

const indent = "    "

var reserved = []string{
	"abstract", "as", "base", "bool", "break", "byte", "case", "catch", "char",
	"checked", "class", "const", "continue", "decimal", "default", "delegate",
	"do", "double", "else", "enum", "event", "explicit", "extern", "false",
	"finally", "fixed", "float", "for", "foreach", "goto", "if", "implicit",
	"in", "int", "interface", "internal", "is", "lock", "long", "namespace",
	"new", "null", "object", "operator", "out", "override", "params",
	"private", "protected", "public", "readonly", "ref", "return", "sbyte",
	"sealed", "short", "sizeof", "stackalloc", "static", "string", "struct",
	"switch", "this", "throw", "true", "try", "typeof", "uint", "ulong",
	"unchecked", "unsafe", "ushort", "using", "virtual", "void", "volatile",
	"while",
}

// system are the System types string formats map to
var system = map[ir.Format]string{
	ir.FormatDate:     "DateOnly",
	ir.FormatDateTime: "DateTime",
	ir.FormatTime:     "TimeOnly",
	ir.FormatDuration: "TimeSpan",
	ir.FormatURI:      "Uri",
}

// CSharpGenerator implements backend.Backend for C#
type CSharpGenerator struct {
	names normalizer.Normalizer
}

// NewCSharpGenerator creates a new C# generator
func NewCSharpGenerator() *CSharpGenerator {
	return &CSharpGenerator{
		names: normalizer.New(normalizer.Rules{
			Class:     normalizer.Pascal,
			Property:  normalizer.Pascal,
			Argument:  normalizer.Pascal,
			Method:    normalizer.Pascal,
			File:      normalizer.Pascal,
			Extension: ".cs",
			Reserved:  reserved,
		}),
	}
}

func (g *CSharpGenerator) Name() string { return "csharp" }

func (g *CSharpGenerator) Capabilities() backend.Capabilities {
	return backend.Capabilities{Extends: true, Generics: true}
}

func (g *CSharpGenerator) Normalizer() normalizer.Normalizer { return g.names }
func (g *CSharpGenerator) TypeMapper() backend.TypeMapper    { return g }
func (g *CSharpGenerator) Writer() backend.Writer            { return g }

func (g *CSharpGenerator) Number() string                           { return "double" }
func (g *CSharpGenerator) Boolean() string                          { return "bool" }
func (g *CSharpGenerator) Any() string                              { return "object" }
func (g *CSharpGenerator) Array(item string) string                 { return "List<" + item + ">" }
func (g *CSharpGenerator) Map(value string) string                  { return "Dictionary<string, " + value + ">" }
func (g *CSharpGenerator) Group(t string) string                    { return t }
func (g *CSharpGenerator) Union([]string) string                    { return "object" }
func (g *CSharpGenerator) Intersection([]string) string             { return "object" }
func (g *CSharpGenerator) Namespaced(namespace, name string) string { return namespace + "." + name }

func (g *CSharpGenerator) String(format ir.Format) string {
	if t, ok := system[format]; ok {
		return t
	}
	if format == ir.FormatBinary {
		return "byte[]"
	}
	return "string"
}

func (g *CSharpGenerator) Integer(format ir.Format) string {
	if format == ir.FormatInt64 {
		return "long"
	}
	return "int"
}

func (g *CSharpGenerator) Generic(base string, args []string) string {
	return base + "<" + strings.Join(args, ", ") + ">"
}

func (g *CSharpGenerator) WriteStruct(decl backend.StructDecl) (string, error) {
	var code strings.Builder
	code.WriteString(summary(decl.Description))
	if decl.Deprecated {
		code.WriteString("[System.Obsolete]\n")
	}
	if decl.Discriminator != "" {
		fmt.Fprintf(&code, "[JsonPolymorphic(TypeDiscriminatorPropertyName = %q)]\n", decl.Discriminator)
	}
	for _, m := range decl.Mapping {
		fmt.Fprintf(&code, "[JsonDerivedType(typeof(%s), typeDiscriminator: %q)]\n", m.Type, m.Value)
	}

	code.WriteString("public ")
	if decl.Base {
		code.WriteString("abstract ")
	}
	code.WriteString("class " + decl.Name.Class)
	if len(decl.Generics) > 0 {
		code.WriteString("<" + strings.Join(decl.Generics, ", ") + ">")
	}
	if decl.Extends != "" {
		code.WriteString(" : " + decl.Extends)
	}
	code.WriteString("\n{\n")

	for i, p := range decl.Properties {
		if i > 0 {
			code.WriteString("\n")
		}
		if doc := summary(p.Description); doc != "" {
			code.WriteString(render.Prefix(indent, doc) + "\n")
		}
		if p.Deprecated {
			code.WriteString(indent + "[System.Obsolete]\n")
		}
		fmt.Fprintf(&code, "%s[JsonPropertyName(%q)]\n", indent, p.Name.Raw)

		typ := p.Type
		if !p.Required || p.Nullable {
			typ += "?"
		}
		accessors := "{ get; set; }"
		if p.Readonly {
			accessors = "{ get; init; }"
		}
		fmt.Fprintf(&code, "%spublic %s %s %s\n", indent, typ, p.Name.Property, accessors)
	}
	code.WriteString("}")
	return code.String(), nil
}

func (g *CSharpGenerator) WriteMap(decl backend.MapDecl) (string, error) {
	return summary(decl.Description) + "public class " + decl.Name.Class + " : " + g.Map(decl.Value) + "\n{\n}", nil
}

func (g *CSharpGenerator) WriteArray(decl backend.ArrayDecl) (string, error) {
	return summary(decl.Description) + "public class " + decl.Name.Class + " : " + g.Array(decl.Item) + "\n{\n}", nil
}

// WriteAlias derives from the target of a reference. Other aliases become a
// record wrapping the value.
func (g *CSharpGenerator) WriteAlias(decl backend.AliasDecl) (string, error) {
	code := summary(decl.Description)
	if _, ok := decl.Origin.(*ir.ReferenceType); ok {
		return code + "public class " + decl.Name.Class + " : " + decl.Target + "\n{\n}", nil
	}
	return code + "public record " + decl.Name.Class + "(" + decl.Target + " Value);", nil
}

func (g *CSharpGenerator) Imports(_ string, usage backend.Usage) []string {
	var imports []string
	for _, f := range usage.DirectFormats {
		if _, ok := system[f]; ok {
			imports = append(imports, "using System;")
			break
		}
	}
	if usage.Map || usage.Array {
		imports = append(imports, "using System.Collections.Generic;")
	}
	imports = append(imports, "using System.Text.Json.Serialization;")
	for _, ext := range usage.External {
		imports = append(imports, "using "+ext.Alias+" = "+ext.Namespace+";")
	}
	return imports
}

// Document wraps the bodies in a namespace block when a namespace is set
func (g *CSharpGenerator) Document(doc backend.Document) (string, error) {
	var code strings.Builder
	if len(doc.Imports) > 0 {
		code.WriteString(strings.Join(doc.Imports, "\n") + "\n\n")
	}

	body := strings.Join(doc.Bodies, "\n\n")
	if doc.Namespace == "" {
		code.WriteString(body + "\n")
		return code.String(), nil
	}
	code.WriteString("namespace " + doc.Namespace + "\n{\n")
	code.WriteString(render.Prefix(indent, body) + "\n")
	code.WriteString("}\n")
	return code.String(), nil
}

// summary renders an XML doc comment ending in a newline
func summary(description string) string {
	lines := render.Lines(description)
	if len(lines) == 0 {
		return ""
	}
	text := strings.Join(lines, "\n")
	text = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(text)
	return "/// <summary>\n" + render.Prefix("/// ", text) + "\n/// </summary>\n"
}
