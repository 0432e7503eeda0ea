// Package java renders definitions as Jackson annotated Java classes, one
// file per class.
package java

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
	"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
	"class", "const", "continue", "default", "do", "double", "else", "enum",
	"extends", "final", "finally", "float", "for", "goto", "if", "implements",
	"import", "instanceof", "int", "interface", "long", "native", "new",
	"package", "private", "protected", "public", "return", "short", "static",
	"strictfp", "super", "switch", "synchronized", "this", "throw", "throws",
	"transient", "try", "void", "volatile", "while", "var", "record", "yield",
}

// javaTime maps string formats to java.time classes
var javaTime = map[ir.Format]string{
	ir.FormatDate:     "LocalDate",
	ir.FormatDateTime: "LocalDateTime",
	ir.FormatTime:     "LocalTime",
	ir.FormatDuration: "Duration",
}

// JavaGenerator implements backend.Backend for Java
type JavaGenerator struct {
	names normalizer.Normalizer
}

// NewJavaGenerator creates a new Java generator
func NewJavaGenerator() *JavaGenerator {
	return &JavaGenerator{
		names: normalizer.New(normalizer.Rules{
			Class:     normalizer.Pascal,
			Property:  normalizer.Camel,
			Argument:  normalizer.Pascal,
			Method:    normalizer.Camel,
			File:      normalizer.Pascal,
			Extension: ".java",
			Reserved:  reserved,
		}),
	}
}

func (g *JavaGenerator) Name() string { return "java" }

func (g *JavaGenerator) Capabilities() backend.Capabilities {
	return backend.Capabilities{Extends: true, Generics: true}
}

func (g *JavaGenerator) Normalizer() normalizer.Normalizer { return g.names }
func (g *JavaGenerator) TypeMapper() backend.TypeMapper    { return g }
func (g *JavaGenerator) Writer() backend.Writer            { return g }

func (g *JavaGenerator) Number() string                   { return "Double" }
func (g *JavaGenerator) Boolean() string                  { return "Boolean" }
func (g *JavaGenerator) Any() string                      { return "Object" }
func (g *JavaGenerator) Array(item string) string         { return "java.util.List<" + item + ">" }
func (g *JavaGenerator) Map(value string) string          { return "java.util.Map<String, " + value + ">" }
func (g *JavaGenerator) Group(t string) string            { return t }
func (g *JavaGenerator) Union([]string) string            { return "Object" }
func (g *JavaGenerator) Intersection([]string) string     { return "Object" }
func (g *JavaGenerator) Namespaced(_, name string) string { return name }

func (g *JavaGenerator) String(format ir.Format) string {
	if class, ok := javaTime[format]; ok {
		return class
	}
	switch format {
	case ir.FormatURI:
		return "java.net.URI"
	case ir.FormatBinary:
		return "byte[]"
	default:
		return "String"
	}
}

func (g *JavaGenerator) Integer(format ir.Format) string {
	if format == ir.FormatInt64 {
		return "Long"
	}
	return "Integer"
}

func (g *JavaGenerator) Generic(base string, args []string) string {
	return base + "<" + strings.Join(args, ", ") + ">"
}

func (g *JavaGenerator) WriteStruct(decl backend.StructDecl) (string, error) {
	var code strings.Builder
	code.WriteString(javadoc(decl.Description, decl.Deprecated))
	if decl.Deprecated {
		code.WriteString("@Deprecated\n")
	}
	if decl.Discriminator != "" {
		fmt.Fprintf(&code, "@JsonTypeInfo(use = JsonTypeInfo.Id.NAME, include = JsonTypeInfo.As.PROPERTY, property = %q)\n", decl.Discriminator)
	}
	if len(decl.Mapping) > 0 {
		code.WriteString("@JsonSubTypes({\n")
		for _, m := range decl.Mapping {
			fmt.Fprintf(&code, "%s@JsonSubTypes.Type(value = %s.class, name = %q),\n", indent, m.Type, m.Value)
		}
		code.WriteString("})\n")
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
		code.WriteString(" extends " + decl.Extends)
	}
	code.WriteString(" {\n")

	for _, p := range decl.Properties {
		code.WriteString(indent + "private " + p.Type + " " + p.Name.Property + ";\n")
	}
	for _, p := range decl.Properties {
		code.WriteString("\n")
		if doc := javadoc(p.Description, false); doc != "" {
			code.WriteString(render.Prefix(indent, doc) + "\n")
		}
		fmt.Fprintf(&code, "%s@JsonSetter(%q)\n", indent, p.Name.Raw)
		fmt.Fprintf(&code, "%spublic void %s(%s %s) {\n", indent, p.Name.Method("set"), p.Type, p.Name.Property)
		fmt.Fprintf(&code, "%s%sthis.%s = %s;\n", indent, indent, p.Name.Property, p.Name.Property)
		code.WriteString(indent + "}\n\n")
		if p.Deprecated {
			code.WriteString(indent + "@Deprecated\n")
		}
		fmt.Fprintf(&code, "%s@JsonGetter(%q)\n", indent, p.Name.Raw)
		fmt.Fprintf(&code, "%spublic %s %s() {\n", indent, p.Type, p.Name.Method("get"))
		fmt.Fprintf(&code, "%s%sreturn this.%s;\n", indent, indent, p.Name.Property)
		code.WriteString(indent + "}\n")
	}
	code.WriteString("}")
	return code.String(), nil
}

func (g *JavaGenerator) WriteMap(decl backend.MapDecl) (string, error) {
	return javadoc(decl.Description, false) +
		"public class " + decl.Name.Class + " extends java.util.HashMap<String, " + decl.Value + "> {\n}", nil
}

func (g *JavaGenerator) WriteArray(decl backend.ArrayDecl) (string, error) {
	return javadoc(decl.Description, false) +
		"public class " + decl.Name.Class + " extends java.util.ArrayList<" + decl.Item + "> {\n}", nil
}

// WriteAlias extends the target of a reference. Other aliases become a
// value class that serialises as its single value.
func (g *JavaGenerator) WriteAlias(decl backend.AliasDecl) (string, error) {
	code := javadoc(decl.Description, false)
	if _, ok := decl.Origin.(*ir.ReferenceType); ok {
		return code + "public class " + decl.Name.Class + " extends " + decl.Target + " {\n}", nil
	}

	var sb strings.Builder
	sb.WriteString(code)
	sb.WriteString("public class " + decl.Name.Class + " {\n")
	sb.WriteString(indent + "private final " + decl.Target + " value;\n\n")
	sb.WriteString(indent + "@com.fasterxml.jackson.annotation.JsonCreator\n")
	sb.WriteString(indent + "public " + decl.Name.Class + "(" + decl.Target + " value) {\n")
	sb.WriteString(indent + indent + "this.value = value;\n")
	sb.WriteString(indent + "}\n\n")
	sb.WriteString(indent + "@com.fasterxml.jackson.annotation.JsonValue\n")
	sb.WriteString(indent + "public " + decl.Target + " getValue() {\n")
	sb.WriteString(indent + indent + "return this.value;\n")
	sb.WriteString(indent + "}\n")
	sb.WriteString("}")
	return sb.String(), nil
}

// Imports returns the Jackson annotations, java.time classes of the
// document and the external classes. Definitions share one package and
// need no imports of each other.
func (g *JavaGenerator) Imports(_ string, usage backend.Usage) []string {
	imports := []string{
		"import com.fasterxml.jackson.annotation.JsonGetter;",
		"import com.fasterxml.jackson.annotation.JsonSetter;",
	}
	if usage.Discriminator {
		imports = append(imports,
			"import com.fasterxml.jackson.annotation.JsonSubTypes;",
			"import com.fasterxml.jackson.annotation.JsonTypeInfo;",
		)
	}
	for _, f := range usage.DirectFormats {
		if class, ok := javaTime[f]; ok {
			imports = append(imports, "import java.time."+class+";")
		}
	}
	for _, ext := range usage.External {
		imports = append(imports, "import "+ext.Namespace+"."+ext.Name+";")
	}
	return imports
}

func (g *JavaGenerator) Document(doc backend.Document) (string, error) {
	var code strings.Builder
	if doc.Namespace != "" {
		code.WriteString("package " + doc.Namespace + ";\n\n")
	}
	if len(doc.Imports) > 0 {
		code.WriteString(strings.Join(doc.Imports, "\n") + "\n\n")
	}
	code.WriteString(strings.Join(doc.Bodies, "\n\n") + "\n")
	return code.String(), nil
}

// javadoc renders a doc comment ending in a newline, empty when there is
// nothing to say
func javadoc(description string, deprecated bool) string {
	lines := render.Lines(strings.ReplaceAll(description, "*/", "*\\/"))
	if deprecated {
		lines = append(lines, "@deprecated")
	}
	if len(lines) == 0 {
		return ""
	}
	return "/**\n" + render.Prefix(" * ", strings.Join(lines, "\n")) + "\n */\n"
}
