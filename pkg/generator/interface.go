package generator

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blimu-dev/schema-gen/pkg/backend"
	"github.com/blimu-dev/schema-gen/pkg/config"
	"github.com/blimu-dev/schema-gen/pkg/engine"
	"github.com/blimu-dev/schema-gen/pkg/generator/csharp"
	"github.com/blimu-dev/schema-gen/pkg/generator/golang"
	"github.com/blimu-dev/schema-gen/pkg/generator/java"
	"github.com/blimu-dev/schema-gen/pkg/generator/kotlin"
	"github.com/blimu-dev/schema-gen/pkg/generator/python"
	"github.com/blimu-dev/schema-gen/pkg/generator/typeschema"
	"github.com/blimu-dev/schema-gen/pkg/generator/typescript"
	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/jsonschema"
	"github.com/blimu-dev/schema-gen/pkg/loader"
	"github.com/blimu-dev/schema-gen/pkg/openapi"
)

// Registry manages available backends
type Registry struct {
	backends map[string]backend.Backend
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]backend.Backend),
	}
}

// NewDefaultRegistry returns a registry holding every shipped backend
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(golang.NewGoGenerator())
	r.Register(typescript.NewTypeScriptGenerator())
	r.Register(python.NewPythonGenerator())
	r.Register(java.NewJavaGenerator())
	r.Register(kotlin.NewKotlinGenerator())
	r.Register(csharp.NewCSharpGenerator())
	r.Register(typeschema.NewTypeSchemaGenerator())
	return r
}

// Register adds a backend, replacing one of the same name
func (r *Registry) Register(b backend.Backend) {
	r.backends[b.Name()] = b
}

// Get retrieves a backend by name
func (r *Registry) Get(name string) (backend.Backend, bool) {
	b, ok := r.backends[name]
	return b, ok
}

// Available returns the registered backend names, sorted
func (r *Registry) Available() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) unsupported(name string) error {
	return errors.WithHintf(errors.Newf("unsupported target type: %s", name),
		"available types: %s", strings.Join(r.Available(), ", "))
}

// GenerateOptions contains options for a generation run
type GenerateOptions struct {
	ConfigPath string
	// OnlyTarget generates only the targets of this backend type
	OnlyTarget string
	Fallback   FallbackOptions
}

// FallbackOptions describe a single target when no config file is provided
type FallbackOptions struct {
	Input     string
	Format    string
	RootName  string
	Type      string
	OutDir    string
	Namespace string
}

// Service loads schemas and runs the configured targets
type Service struct {
	registry *Registry
	logger   *zap.Logger
	loader   loader.Options
}

// NewService creates a service over the default registry. A nil logger
// discards all output.
func NewService(logger *zap.Logger) *Service {
	return NewServiceWithRegistry(NewDefaultRegistry(), logger)
}

// NewServiceWithRegistry creates a service over a custom registry
func NewServiceWithRegistry(registry *Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry: registry,
		logger:   logger,
		loader:   loader.Options{HTTPClient: loader.NewHTTPClient(logger), Logger: logger},
	}
}

// Registry returns the backend registry
func (s *Service) Registry() *Registry {
	return s.registry
}

// Generate runs either the config file or the fallback target
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) error {
	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
		return s.GenerateFromConfig(ctx, cfg, opts.OnlyTarget)
	}

	f := opts.Fallback
	if f.Input == "" || f.Type == "" || f.OutDir == "" {
		return errors.WithHint(
			errors.New("either config path or all fallback options must be provided"),
			"pass --config, or --input, --type and --out",
		)
	}
	outDir, err := filepath.Abs(f.OutDir)
	if err != nil {
		return errors.Wrapf(err, "invalid output directory %s", f.OutDir)
	}
	cfg := &config.Config{
		Schema:   f.Input,
		Format:   f.Format,
		RootName: f.RootName,
		Targets:  []config.Target{{Type: f.Type, OutDir: outDir, Namespace: f.Namespace}},
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.GenerateFromConfig(ctx, cfg, opts.OnlyTarget)
}

// LoadSchema reads the schema document at location in the given format.
// An empty format is detected from the document content.
func (s *Service) LoadSchema(ctx context.Context, location, format, rootName string) (*ir.Schema, error) {
	data, err := loader.Read(ctx, location, s.loader)
	if err != nil {
		return nil, err
	}
	if format == "" {
		doc, err := loader.Decode(data)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode %s", location)
		}
		format = loader.DetectFormat(doc)
		s.logger.Debug("detected schema format", zap.String("schema", location), zap.String("format", format))
	}

	var schema *ir.Schema
	switch format {
	case loader.FormatTypeSchema:
		schema, err = loader.LoadBytes(data)
	case loader.FormatJSONSchema:
		schema, err = jsonschema.LoadBytes(data, rootName)
	case loader.FormatOpenAPI:
		doc, perr := openapi.ParseDocument(ctx, data, location)
		if perr != nil {
			return nil, perr
		}
		schema, err = openapi.Import(doc, rootName)
	default:
		return nil, errors.Newf("unknown format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", location)
	}
	return schema, nil
}

// GenerateFromConfig loads the configured schema once and renders every
// target, at most cfg.Concurrency at a time. The first failure cancels the
// targets that have not started.
func (s *Service) GenerateFromConfig(ctx context.Context, cfg *config.Config, onlyTarget string) error {
	schema, err := s.LoadSchema(ctx, cfg.Schema, cfg.Format, cfg.RootName)
	if err != nil {
		return err
	}

	var targets []config.Target
	for _, t := range cfg.Targets {
		if onlyTarget != "" && t.Type != onlyTarget {
			continue
		}
		if _, ok := s.registry.Get(t.Type); !ok {
			return s.registry.unsupported(t.Type)
		}
		targets = append(targets, t)
	}
	if onlyTarget != "" && len(targets) == 0 {
		return errors.Newf("no target of type %s in config", onlyTarget)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Concurrency, 1))
	for _, t := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return s.GenerateTarget(ctx, schema, t)
		})
	}
	return g.Wait()
}

// GenerateTarget renders schema for one target and writes its files
func (s *Service) GenerateTarget(ctx context.Context, schema *ir.Schema, target config.Target) error {
	b, ok := s.registry.Get(target.Type)
	if !ok {
		return s.registry.unsupported(target.Type)
	}
	log := s.logger.With(zap.String("target", target.Type), zap.String("outDir", target.OutDir))
	start := time.Now()
	log.Info("generating target")

	// Ensure output directory exists before pre-commands
	if err := os.MkdirAll(target.OutDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory for target %s", target.Type)
	}
	if err := s.executeCommand(ctx, log, target.PreCommand, target.OutDir, "pre-command"); err != nil {
		return errors.Wrapf(err, "pre-generation command failed for target %s", target.Type)
	}

	out, err := engine.Generate(schema, b, engine.Options{
		Namespace:     target.Namespace,
		ImportAliases: target.ImportAliases,
		BundleName:    target.BundleName,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to generate target %s", target.Type)
	}

	written, err := writeFiles(log, target, out)
	if err != nil {
		return err
	}

	if err := s.executeCommand(ctx, log, target.PostCommand, target.OutDir, "post-command"); err != nil {
		return errors.Wrapf(err, "post-generation command failed for target %s", target.Type)
	}
	log.Info("generated target", zap.Int("files", written), zap.Duration("duration", time.Since(start)))
	return nil
}

// writeFiles writes every file of out below the target directory, skipping
// excluded paths
func writeFiles(log *zap.Logger, target config.Target, out *engine.Output) (int, error) {
	written := 0
	for _, f := range out.Files() {
		path := filepath.Join(target.OutDir, filepath.FromSlash(f.Name))
		if target.ShouldExcludeFile(path) {
			log.Debug("skipping excluded file", zap.String("file", f.Name))
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, errors.Wrapf(err, "failed to create directory for %s", path)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return written, errors.Wrapf(err, "failed to write file %s", path)
		}
		written++
	}
	return written, nil
}

// executeCommand runs a command given in Docker Compose array format
func (s *Service) executeCommand(ctx context.Context, log *zap.Logger, command []string, workDir, label string) error {
	if len(command) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	description := strings.Join(command, " ")
	log.Info("running "+label, zap.String("command", description))
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s (%s) failed", label, description)
	}
	return nil
}
