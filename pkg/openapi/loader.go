// Package openapi imports the components/schemas section of an OpenAPI 3
// document into the type IR
package openapi

import (
	"context"
	"net/url"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/loader"
)

// LoadDocument reads an OpenAPI document from a local file path or an HTTP(S) URL
func LoadDocument(ctx context.Context, input string, opts loader.Options) (*openapi3.T, error) {
	data, err := loader.Read(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	return ParseDocument(ctx, data, input)
}

// ParseDocument parses an OpenAPI document held in memory. location
// resolves relative external references and may be empty.
func ParseDocument(ctx context.Context, data []byte, location string) (*openapi3.T, error) {
	l := openapi3.NewLoader()
	l.IsExternalRefsAllowed = true
	l.Context = ctx

	var (
		doc *openapi3.T
		err error
	)
	if location == "" {
		doc, err = l.LoadFromData(data)
	} else {
		doc, err = l.LoadFromDataWithPath(data, documentURL(location))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse OpenAPI document %s", location)
	}
	return doc, nil
}

// ValidateDocument validates an OpenAPI document
func ValidateDocument(ctx context.Context, doc *openapi3.T) error {
	if err := doc.Validate(ctx); err != nil {
		return errors.Wrap(err, "invalid OpenAPI document")
	}
	return nil
}

// Load reads the OpenAPI document at input and imports its schemas. root
// names the entry definition and may be empty.
func Load(ctx context.Context, input, root string, opts loader.Options) (*ir.Schema, error) {
	doc, err := LoadDocument(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	schema, err := Import(doc, root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to import %s", input)
	}
	return schema, nil
}

func documentURL(location string) *url.URL {
	if loader.IsRemote(location) {
		if u, err := url.Parse(location); err == nil {
			return u
		}
	}
	if abs, err := filepath.Abs(location); err == nil {
		location = abs
	}
	return &url.URL{Path: filepath.ToSlash(location)}
}
