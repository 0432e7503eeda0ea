// Package schemagen generates data types for several languages from one
// schema. A schema is a TypeSchema, OpenAPI or JSON Schema document; each
// target language turns its definitions into source files.
//
// Quick Start:
//
//	import schemagen "github.com/blimu-dev/schema-gen"
//
//	// Generate Go types from a TypeSchema document
//	err := schemagen.Generate(ctx, schemagen.Options{
//		Input:     "./schema.json",
//		Type:      "go",
//		OutDir:    "./model",
//		Namespace: "model",
//	})
//
// For more advanced usage, see the generator and engine packages.
package schemagen

import (
	"context"

	"go.uber.org/zap"

	"github.com/blimu-dev/schema-gen/pkg/engine"
	"github.com/blimu-dev/schema-gen/pkg/generator"
	"github.com/blimu-dev/schema-gen/pkg/ir"
)

// Options describe a single target when no config file is used
type Options struct {
	// Input is a schema file path or HTTP(S) URL
	Input string
	// Format is typeschema, openapi or jsonschema; detected when empty
	Format string
	// RootName names the root definition
	RootName  string
	Type      string
	OutDir    string
	Namespace string
	// Logger receives progress logs, nil discards them
	Logger *zap.Logger
}

// Generate loads the schema and writes the files of one target.
//
// Example:
//
//	err := schemagen.Generate(ctx, schemagen.Options{
//		Input:  "https://example.com/openapi.yaml",
//		Format: "openapi",
//		Type:   "typescript",
//		OutDir: "./types",
//	})
func Generate(ctx context.Context, opts Options) error {
	return generator.NewService(opts.Logger).Generate(ctx, generator.GenerateOptions{
		Fallback: generator.FallbackOptions{
			Input:     opts.Input,
			Format:    opts.Format,
			RootName:  opts.RootName,
			Type:      opts.Type,
			OutDir:    opts.OutDir,
			Namespace: opts.Namespace,
		},
	})
}

// GenerateFromConfig generates every target of a YAML configuration file.
// Optionally, you can pass a target type to generate only those targets.
//
// Example:
//
//	// Generate all targets from config
//	err := schemagen.GenerateFromConfig(ctx, "./schema-gen.yaml")
//
//	// Generate only the Go targets
//	err := schemagen.GenerateFromConfig(ctx, "./schema-gen.yaml", "go")
func GenerateFromConfig(ctx context.Context, configPath string, onlyTarget ...string) error {
	return generator.GenerateFromConfig(ctx, configPath, onlyTarget...)
}

// Render generates the files of one target in memory
func Render(schema *ir.Schema, targetType string, opts engine.Options) (*engine.Output, error) {
	return generator.GenerateFiles(schema, targetType, opts)
}

// Load reads a schema document without generating anything. It is useful
// for checking a schema before generating from it.
func Load(ctx context.Context, input, format, rootName string) (*ir.Schema, error) {
	return generator.ValidateSchema(ctx, input, format, rootName)
}

// Targets lists the available target types
func Targets() []string {
	return generator.NewDefaultRegistry().Available()
}
