// Package loader reads TypeSchema documents into the type IR. Documents
// are JSON or YAML, local or fetched over http(s), and are decoded with
// their key order intact so definitions register in document order.
package loader

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/blimu-dev/schema-gen/pkg/ir"
)

// Formats a schema document can be written in
const (
	FormatTypeSchema = "typeschema"
	FormatOpenAPI    = "openapi"
	FormatJSONSchema = "jsonschema"
)

// Load reads and parses the TypeSchema document at location
func Load(ctx context.Context, location string, opts Options) (*ir.Schema, error) {
	data, err := Read(ctx, location, opts)
	if err != nil {
		return nil, err
	}
	schema, err := LoadBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", location)
	}
	return schema, nil
}

// LoadBytes parses a TypeSchema document held in memory
func LoadBytes(data []byte) (*ir.Schema, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Parse(doc)
}

// DetectFormat guesses the format of a decoded document from its top
// level keys
func DetectFormat(doc *Object) string {
	switch {
	case doc.Has("openapi") || doc.Has("swagger"):
		return FormatOpenAPI
	case doc.Has("$schema") || doc.Has("$defs"):
		return FormatJSONSchema
	default:
		return FormatTypeSchema
	}
}
