package cli

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/blimu-dev/schema-gen/pkg/generator"
	"github.com/blimu-dev/schema-gen/pkg/ir"
)

type FallbackParams struct {
	Input     string
	Format    string
	RootName  string
	Type      string
	OutDir    string
	Namespace string
}

type RunGenerateParams struct {
	ConfigPath string
	OnlyTarget string
	Fallback   FallbackParams
}

func RunGenerate(ctx context.Context, logger *zap.Logger, p RunGenerateParams) error {
	svc := generator.NewService(logger)
	return svc.Generate(ctx, generator.GenerateOptions{
		ConfigPath: p.ConfigPath,
		OnlyTarget: p.OnlyTarget,
		Fallback: generator.FallbackOptions{
			Input:     p.Fallback.Input,
			Format:    p.Fallback.Format,
			RootName:  p.Fallback.RootName,
			Type:      p.Fallback.Type,
			OutDir:    p.Fallback.OutDir,
			Namespace: p.Fallback.Namespace,
		},
	})
}

// RunValidate loads input and reports the definitions it holds
func RunValidate(ctx context.Context, logger *zap.Logger, w io.Writer, input, format, rootName string) error {
	schema, err := generator.NewService(logger).LoadSchema(ctx, input, format, rootName)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %d definitions\n", input, schema.Definitions().Len())
	if root, ok := schema.RootName(); ok {
		fmt.Fprintf(w, "root: %s\n", root)
	}
	for _, line := range Describe(schema) {
		fmt.Fprintln(w, "  "+line)
	}
	return nil
}

// RunTargets prints the registered backend names, one per line
func RunTargets(w io.Writer) {
	for _, name := range generator.NewDefaultRegistry().Available() {
		fmt.Fprintln(w, name)
	}
}

// Describe lists every definition with its kind, in registration order
func Describe(schema *ir.Schema) []string {
	var lines []string
	for name, t := range schema.Definitions().All() {
		lines = append(lines, fmt.Sprintf("%s (%s)", name, t.Kind()))
	}
	return lines
}
