package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blimu-dev/schema-gen/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var verbose bool
	var logger *zap.Logger

	root := &cobra.Command{
		Use:           "schema-gen",
		Short:         "Generate types for several languages from one schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := cli.NewLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress at debug level")

	loggerFn := func() *zap.Logger { return logger }
	root.AddCommand(newGenerateCmd(loggerFn))
	root.AddCommand(newValidateCmd(loggerFn))
	root.AddCommand(newTargetsCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newGenerateCmd(logger func() *zap.Logger) *cobra.Command {
	var configPath string
	var onlyTarget string
	var fallback cli.FallbackParams

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate types for every configured target",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunGenerate(cmd.Context(), logger(), cli.RunGenerateParams{
				ConfigPath: configPath,
				OnlyTarget: onlyTarget,
				Fallback:   fallback,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to schema-gen.yaml config")
	cmd.Flags().StringVar(&onlyTarget, "target", "", "Generate only the targets of this type from config")
	// Fallback single-target flags
	cmd.Flags().StringVar(&fallback.Input, "input", "", "Schema file or URL (json/yaml)")
	cmd.Flags().StringVar(&fallback.Format, "format", "", "Schema format: typeschema, openapi or jsonschema (detected when empty)")
	cmd.Flags().StringVar(&fallback.RootName, "root", "", "Name of the root definition")
	cmd.Flags().StringVar(&fallback.Type, "type", "", "Target type (e.g., go)")
	cmd.Flags().StringVar(&fallback.OutDir, "out", "", "Output directory")
	cmd.Flags().StringVar(&fallback.Namespace, "namespace", "", "Package or namespace of the generated code")

	return cmd
}

func newValidateCmd(logger func() *zap.Logger) *cobra.Command {
	var input, format, rootName string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a schema loads into a well formed set of definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(cmd.Context(), logger(), cmd.OutOrStdout(), input, format, rootName)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Schema file or URL (json/yaml)")
	cmd.Flags().StringVar(&format, "format", "", "Schema format (detected when empty)")
	cmd.Flags().StringVar(&rootName, "root", "", "Name of the root definition")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the available target types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cli.RunTargets(cmd.OutOrStdout())
		},
	}
}
