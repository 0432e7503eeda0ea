package engine

import (
	"fmt"
	"strings"

	"github.com/blimu-dev/schema-gen/pkg/backend"
	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/normalizer"
)

// concatBackend renders every shape as plain name:type pairs
type concatBackend struct {
	caps  backend.Capabilities
	rules normalizer.Rules
}

func newConcat(caps backend.Capabilities) *concatBackend {
	return &concatBackend{
		caps: caps,
		rules: normalizer.Rules{
			Class:     normalizer.Pascal,
			Property:  normalizer.Raw,
			Argument:  normalizer.Pascal,
			Method:    normalizer.Camel,
			File:      normalizer.Raw,
			Extension: ".txt",
		},
	}
}

func (b *concatBackend) Name() string                             { return "concat" }
func (b *concatBackend) Capabilities() backend.Capabilities       { return b.caps }
func (b *concatBackend) Normalizer() normalizer.Normalizer        { return normalizer.New(b.rules) }
func (b *concatBackend) TypeMapper() backend.TypeMapper           { return b }
func (b *concatBackend) Writer() backend.Writer                   { return b }
func (b *concatBackend) Number() string                           { return "number" }
func (b *concatBackend) Boolean() string                          { return "boolean" }
func (b *concatBackend) Any() string                              { return "any" }
func (b *concatBackend) Array(item string) string                 { return "array<" + item + ">" }
func (b *concatBackend) Map(value string) string                  { return "map<" + value + ">" }
func (b *concatBackend) Group(t string) string                    { return "(" + t + ")" }
func (b *concatBackend) Union(members []string) string            { return strings.Join(members, " | ") }
func (b *concatBackend) Intersection(members []string) string     { return strings.Join(members, " & ") }
func (b *concatBackend) Namespaced(namespace, name string) string { return namespace + "." + name }

func (b *concatBackend) String(format ir.Format) string {
	if format == ir.FormatNone {
		return "string"
	}
	return "string:" + string(format)
}

func (b *concatBackend) Integer(format ir.Format) string {
	if format == ir.FormatNone {
		return "integer"
	}
	return "integer:" + string(format)
}

func (b *concatBackend) Generic(base string, args []string) string {
	return base + "<" + strings.Join(args, ",") + ">"
}

func (b *concatBackend) WriteStruct(decl backend.StructDecl) (string, error) {
	var sb strings.Builder
	sb.WriteString("struct " + decl.Name.Class)
	if len(decl.Generics) > 0 {
		sb.WriteString("<" + strings.Join(decl.Generics, ",") + ">")
	}
	if decl.Extends != "" {
		sb.WriteString(" extends " + decl.Extends)
	}
	props := make([]string, 0, len(decl.Properties))
	for _, p := range decl.Properties {
		props = append(props, p.Name.Property+":"+p.Type)
	}
	sb.WriteString("{" + strings.Join(props, ",") + "}")
	if decl.Discriminator != "" {
		var mapping []string
		for _, m := range decl.Mapping {
			mapping = append(mapping, m.Value+"="+m.Type)
		}
		sb.WriteString(fmt.Sprintf(" by %s[%s]", decl.Discriminator, strings.Join(mapping, ",")))
	}
	return sb.String(), nil
}

func (b *concatBackend) WriteMap(decl backend.MapDecl) (string, error) {
	return "map " + decl.Name.Class + "<" + decl.Value + ">", nil
}

func (b *concatBackend) WriteArray(decl backend.ArrayDecl) (string, error) {
	return "array " + decl.Name.Class + "<" + decl.Item + ">", nil
}

func (b *concatBackend) WriteAlias(decl backend.AliasDecl) (string, error) {
	return "alias " + decl.Name.Class + " = " + decl.Target, nil
}

func (b *concatBackend) Imports(namespace string, usage backend.Usage) []string {
	var imports []string
	for _, ref := range usage.References {
		imports = append(imports, "import "+ref.Class)
	}
	for _, sub := range usage.Subtypes {
		imports = append(imports, "subtype "+sub.Class)
	}
	for _, ext := range usage.External {
		imports = append(imports, "import "+ext.Namespace+" as "+ext.Alias)
	}
	for _, f := range usage.Formats {
		imports = append(imports, "format "+string(f))
	}
	return imports
}

func (b *concatBackend) Document(doc backend.Document) (string, error) {
	var lines []string
	if doc.Namespace != "" {
		lines = append(lines, "namespace "+doc.Namespace)
	}
	lines = append(lines, doc.Imports...)
	lines = append(lines, doc.Bodies...)
	return strings.Join(lines, "\n"), nil
}
