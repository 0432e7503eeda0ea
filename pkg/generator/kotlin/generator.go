// Package kotlin renders definitions as open Kotlin classes with Jackson
// annotations, one file per class. Every property is a nullable var so
// instances can be built empty and filled by the mapper.
package kotlin

import (
	"fmt"
	"strings"

	"github.com/blimu-dev/schema-gen/pkg/backend"
	"github.com/blimu-dev/schema-gen/pkg/generator/render"
	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/normalizer"
)

const indent = "    "

// reserved are the hard keywords of Kotlin
var reserved = []string{
	"as", "break", "class", "continue", "do", "else", "false", "for", "fun",
	"if", "in", "interface", "is", "null", "object", "package", "return",
	"super", "this", "throw", "true", "try", "typealias", "typeof", "val",
	"var", "when", "while",
}

var javaTime = map[ir.Format]string{
	ir.FormatDate:     "LocalDate",
	ir.FormatDateTime: "LocalDateTime",
	ir.FormatTime:     "LocalTime",
	ir.FormatDuration: "Duration",
}

// KotlinGenerator implements backend.Backend for Kotlin
type KotlinGenerator struct {
	names normalizer.Normalizer
}

// NewKotlinGenerator creates a new Kotlin generator
func NewKotlinGenerator() *KotlinGenerator {
	return &KotlinGenerator{
		names: normalizer.New(normalizer.Rules{
			Class:     normalizer.Pascal,
			Property:  normalizer.Camel,
			Argument:  normalizer.Pascal,
			Method:    normalizer.Camel,
			File:      normalizer.Pascal,
			Extension: ".kt",
			Reserved:  reserved,
		}),
	}
}

func (g *KotlinGenerator) Name() string { return "kotlin" }

func (g *KotlinGenerator) Capabilities() backend.Capabilities {
	return backend.Capabilities{Extends: true, Generics: true}
}

func (g *KotlinGenerator) Normalizer() normalizer.Normalizer { return g.names }
func (g *KotlinGenerator) TypeMapper() backend.TypeMapper    { return g }
func (g *KotlinGenerator) Writer() backend.Writer            { return g }

func (g *KotlinGenerator) Number() string                   { return "Double" }
func (g *KotlinGenerator) Boolean() string                  { return "Boolean" }
func (g *KotlinGenerator) Any() string                      { return "Any" }
func (g *KotlinGenerator) Array(item string) string         { return "List<" + item + ">" }
func (g *KotlinGenerator) Map(value string) string          { return "Map<String, " + value + ">" }
func (g *KotlinGenerator) Group(t string) string            { return t }
func (g *KotlinGenerator) Union([]string) string            { return "Any" }
func (g *KotlinGenerator) Intersection([]string) string     { return "Any" }
func (g *KotlinGenerator) Namespaced(_, name string) string { return name }

func (g *KotlinGenerator) String(format ir.Format) string {
	if class, ok := javaTime[format]; ok {
		return class
	}
	switch format {
	case ir.FormatURI:
		return "java.net.URI"
	case ir.FormatBinary:
		return "ByteArray"
	default:
		return "String"
	}
}

func (g *KotlinGenerator) Integer(format ir.Format) string {
	if format == ir.FormatInt64 {
		return "Long"
	}
	return "Int"
}

func (g *KotlinGenerator) Generic(base string, args []string) string {
	return base + "<" + strings.Join(args, ", ") + ">"
}

func (g *KotlinGenerator) WriteStruct(decl backend.StructDecl) (string, error) {
	var code strings.Builder
	code.WriteString(kdoc(decl.Description))
	if decl.Deprecated {
		code.WriteString("@Deprecated(\"\")\n")
	}
	if decl.Discriminator != "" {
		fmt.Fprintf(&code, "@JsonTypeInfo(use = JsonTypeInfo.Id.NAME, include = JsonTypeInfo.As.PROPERTY, property = %q)\n", decl.Discriminator)
	}
	if len(decl.Mapping) > 0 {
		code.WriteString("@JsonSubTypes(\n")
		for _, m := range decl.Mapping {
			fmt.Fprintf(&code, "%sJsonSubTypes.Type(value = %s::class, name = %q),\n", indent, m.Type, m.Value)
		}
		code.WriteString(")\n")
	}

	if decl.Base {
		code.WriteString("abstract class " + decl.Name.Class)
	} else {
		code.WriteString("open class " + decl.Name.Class)
	}
	if len(decl.Generics) > 0 {
		code.WriteString("<" + strings.Join(decl.Generics, ", ") + ">")
	}
	if decl.Extends != "" {
		code.WriteString(" : " + decl.Extends + "()")
	}
	code.WriteString(" {\n")

	for i, p := range decl.Properties {
		if i > 0 {
			code.WriteString("\n")
		}
		if doc := kdoc(p.Description); doc != "" {
			code.WriteString(render.Prefix(indent, doc) + "\n")
		}
		if p.Deprecated {
			code.WriteString(indent + "@Deprecated(\"\")\n")
		}
		fmt.Fprintf(&code, "%s@JsonProperty(%q)\n", indent, p.Name.Raw)
		fmt.Fprintf(&code, "%svar %s: %s? = null\n", indent, p.Name.Property, p.Type)
	}
	code.WriteString("}")
	return code.String(), nil
}

func (g *KotlinGenerator) WriteMap(decl backend.MapDecl) (string, error) {
	return kdoc(decl.Description) +
		"open class " + decl.Name.Class + " : HashMap<String, " + decl.Value + ">() {\n}", nil
}

func (g *KotlinGenerator) WriteArray(decl backend.ArrayDecl) (string, error) {
	return kdoc(decl.Description) +
		"open class " + decl.Name.Class + " : ArrayList<" + decl.Item + ">() {\n}", nil
}

func (g *KotlinGenerator) WriteAlias(decl backend.AliasDecl) (string, error) {
	return kdoc(decl.Description) + "typealias " + decl.Name.Class + " = " + decl.Target, nil
}

// Imports returns the Jackson annotations, java.time classes of the
// document and the external classes
func (g *KotlinGenerator) Imports(_ string, usage backend.Usage) []string {
	imports := []string{"import com.fasterxml.jackson.annotation.JsonProperty"}
	if usage.Discriminator {
		imports = append(imports,
			"import com.fasterxml.jackson.annotation.JsonSubTypes",
			"import com.fasterxml.jackson.annotation.JsonTypeInfo",
		)
	}
	for _, f := range usage.DirectFormats {
		if class, ok := javaTime[f]; ok {
			imports = append(imports, "import java.time."+class)
		}
	}
	for _, ext := range usage.External {
		imports = append(imports, "import "+ext.Namespace+"."+ext.Name)
	}
	return imports
}

func (g *KotlinGenerator) Document(doc backend.Document) (string, error) {
	var code strings.Builder
	if doc.Namespace != "" {
		code.WriteString("package " + doc.Namespace + "\n\n")
	}
	if len(doc.Imports) > 0 {
		code.WriteString(strings.Join(doc.Imports, "\n") + "\n\n")
	}
	code.WriteString(strings.Join(doc.Bodies, "\n\n") + "\n")
	return code.String(), nil
}

// kdoc renders a doc comment ending in a newline, empty without a description
func kdoc(description string) string {
	lines := render.Lines(strings.ReplaceAll(description, "*/", "*\\/"))
	if len(lines) == 0 {
		return ""
	}
	return "/**\n" + render.Prefix(" * ", strings.Join(lines, "\n")) + "\n */\n"
}
