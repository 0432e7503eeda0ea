// Package typeschema writes definitions back out as a single TypeSchema
// JSON document. It is the inverse of the loader: loading its output
// yields the same definitions.
package typeschema

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	"github.com/blimu-dev/schema-gen/pkg/backend"
	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/normalizer"
)

// TypeSchemaGenerator implements backend.Backend for TypeSchema JSON
type TypeSchemaGenerator struct {
	names normalizer.Normalizer
}

// NewTypeSchemaGenerator creates a new TypeSchema generator
func NewTypeSchemaGenerator() *TypeSchemaGenerator {
	return &TypeSchemaGenerator{
		names: normalizer.New(normalizer.Rules{
			Class:     normalizer.Raw,
			Property:  normalizer.Raw,
			Argument:  normalizer.Raw,
			Method:    normalizer.Raw,
			File:      normalizer.Raw,
			Extension: ".json",
		}),
	}
}

func (g *TypeSchemaGenerator) Name() string { return "typeschema" }

func (g *TypeSchemaGenerator) Capabilities() backend.Capabilities {
	return backend.Capabilities{Extends: true, Generics: true, SingleFile: true}
}

func (g *TypeSchemaGenerator) Normalizer() normalizer.Normalizer { return g.names }
func (g *TypeSchemaGenerator) TypeMapper() backend.TypeMapper    { return g }
func (g *TypeSchemaGenerator) Writer() backend.Writer            { return g }

// The type expressions below are only consulted by the engine while it
// validates references; declarations are encoded from their IR origin.

func (g *TypeSchemaGenerator) String(ir.Format) string                  { return "string" }
func (g *TypeSchemaGenerator) Integer(ir.Format) string                 { return "integer" }
func (g *TypeSchemaGenerator) Number() string                           { return "number" }
func (g *TypeSchemaGenerator) Boolean() string                          { return "boolean" }
func (g *TypeSchemaGenerator) Any() string                              { return "any" }
func (g *TypeSchemaGenerator) Array(item string) string                 { return "array" }
func (g *TypeSchemaGenerator) Map(value string) string                  { return "map" }
func (g *TypeSchemaGenerator) Group(t string) string                    { return t }
func (g *TypeSchemaGenerator) Union([]string) string                    { return "union" }
func (g *TypeSchemaGenerator) Intersection([]string) string             { return "intersection" }
func (g *TypeSchemaGenerator) Generic(base string, _ []string) string   { return base }
func (g *TypeSchemaGenerator) Namespaced(namespace, name string) string { return namespace + ":" + name }

// WriteStruct encodes the struct. Intersection definitions arrive here
// already merged and are written as plain structs.
func (g *TypeSchemaGenerator) WriteStruct(decl backend.StructDecl) (string, error) {
	return entry(decl.Name.Raw, decl.Origin)
}

func (g *TypeSchemaGenerator) WriteMap(decl backend.MapDecl) (string, error) {
	return entry(decl.Name.Raw, decl.Origin)
}

func (g *TypeSchemaGenerator) WriteArray(decl backend.ArrayDecl) (string, error) {
	return entry(decl.Name.Raw, decl.Origin)
}

func (g *TypeSchemaGenerator) WriteAlias(decl backend.AliasDecl) (string, error) {
	return entry(decl.Name.Raw, decl.Origin)
}

func (g *TypeSchemaGenerator) Imports(string, backend.Usage) []string { return nil }

// Document wraps the definitions into {"definitions": {...}, "$ref": entry}
// and indents the result with two spaces.
func (g *TypeSchemaGenerator) Document(doc backend.Document) (string, error) {
	var raw bytes.Buffer
	raw.WriteString(`{"definitions":{`)
	raw.WriteString(strings.Join(doc.Bodies, ","))
	raw.WriteByte('}')
	if doc.Entry != "" {
		ref, err := json.Marshal(doc.Entry)
		if err != nil {
			return "", errors.WithStack(err)
		}
		raw.WriteString(`,"$ref":`)
		raw.Write(ref)
	}
	raw.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return "", errors.Wrapf(err, "failed to indent %s", doc.Name.File)
	}
	out.WriteByte('\n')
	return out.String(), nil
}

// entry renders one "name": {...} member of the definitions object
func entry(name string, t ir.Type) (string, error) {
	key, err := json.Marshal(name)
	if err != nil {
		return "", errors.WithStack(err)
	}
	value, err := json.Marshal(encode(t))
	if err != nil {
		return "", errors.Wrapf(err, "failed to encode %s", name)
	}
	return string(key) + ":" + string(value), nil
}
