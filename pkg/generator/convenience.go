package generator

import (
	"context"

	"github.com/blimu-dev/schema-gen/pkg/config"
	"github.com/blimu-dev/schema-gen/pkg/engine"
	"github.com/blimu-dev/schema-gen/pkg/ir"
)

// GenerateFromConfig is a convenience function for generating from a config file
func GenerateFromConfig(ctx context.Context, configPath string, onlyTarget ...string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	only := ""
	if len(onlyTarget) > 0 {
		only = onlyTarget[0]
	}
	return NewService(nil).GenerateFromConfig(ctx, cfg, only)
}

// GenerateFiles renders schema with the named backend without touching the
// file system
func GenerateFiles(schema *ir.Schema, backendType string, opts engine.Options) (*engine.Output, error) {
	r := NewDefaultRegistry()
	b, ok := r.Get(backendType)
	if !ok {
		return nil, r.unsupported(backendType)
	}
	return engine.Generate(schema, b, opts)
}

// ValidateSchema loads the document at input and checks that it imports
// into a well formed schema
func ValidateSchema(ctx context.Context, input, format, rootName string) (*ir.Schema, error) {
	return NewService(nil).LoadSchema(ctx, input, format, rootName)
}
