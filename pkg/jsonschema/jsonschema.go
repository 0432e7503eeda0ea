// Package jsonschema imports JSON Schema documents into the type IR. Entries
// of $defs (or definitions) become definitions, sorted by name; a root
// schema that describes a type is registered as well.
package jsonschema

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/loader"
)

// DefaultRootName names a root schema that has neither an explicit name
// nor a title
const DefaultRootName = "Root"

// Load reads the JSON Schema document at location and imports it
func Load(ctx context.Context, location, root string, opts loader.Options) (*ir.Schema, error) {
	data, err := loader.Read(ctx, location, opts)
	if err != nil {
		return nil, err
	}
	schema, err := LoadBytes(data, root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to import %s", location)
	}
	return schema, nil
}

// LoadBytes imports a JSON or YAML encoded JSON Schema document
func LoadBytes(data []byte, root string) (*ir.Schema, error) {
	doc, err := loader.Decode(data)
	if err != nil {
		return nil, err
	}
	return Import(doc, root)
}

// Import converts a decoded document. The key order of doc decides the
// order of struct properties.
func Import(doc *loader.Object, root string) (*ir.Schema, error) {
	s, err := unmarshal(doc)
	if err != nil {
		return nil, err
	}
	return convert(s, doc, root)
}

func unmarshal(doc *loader.Object) (*jsonschema.Schema, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode document")
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "invalid JSON Schema")
	}
	return &s, nil
}
