// Package config loads the YAML file that drives a generation run
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/schema-gen/pkg/loader"
)

// Input formats a schema document can be written in
const (
	FormatTypeSchema = loader.FormatTypeSchema
	FormatOpenAPI    = loader.FormatOpenAPI
	FormatJSONSchema = loader.FormatJSONSchema
)

// Config represents the complete configuration for a generation run
type Config struct {
	// Schema is a file path or an http(s) URL
	Schema string `yaml:"schema"`
	// Format of the schema document, inferred from the content when empty
	Format string `yaml:"format"`
	// RootName registers the root schema of a JSON Schema document
	RootName string `yaml:"rootName"`
	// Concurrency is the number of targets generated in parallel
	Concurrency int      `yaml:"concurrency"`
	Targets     []Target `yaml:"targets"`
}

// Target represents configuration for a single output language
type Target struct {
	// Type is the registered backend name (e.g. "go")
	Type      string `yaml:"type"`
	OutDir    string `yaml:"outDir"`
	Namespace string `yaml:"namespace"`
	// BundleName names the document of single-file backends
	BundleName string `yaml:"bundleName"`
	// ImportAliases maps an alias to the namespace of external types, so a
	// reference "alias:Type" renders as an imported type.
	ImportAliases map[string]string `yaml:"importAliases"`
	// PreCommand is an optional command to run before generation starts.
	// Uses Docker Compose array format: ["rm", "-f", "old.go"]
	// The command will be executed in the output directory.
	PreCommand []string `yaml:"preCommand"`
	// PostCommand is an optional command to run after generation completes.
	// Uses Docker Compose array format: ["gofmt", "-w", "."]
	// The command will be executed in the output directory.
	PostCommand []string `yaml:"postCommand"`
	// ExcludeFiles is a list of file paths (relative to outDir) that should not be written
	// Example: ["location.go", "legacy/"]
	ExcludeFiles []string `yaml:"exclude"`
}

// ShouldExcludeFile checks if a file path should be excluded based on the ExcludeFiles list.
// targetPath should be an absolute path, and the comparison is done relative to OutDir.
func (t *Target) ShouldExcludeFile(targetPath string) bool {
	if len(t.ExcludeFiles) == 0 {
		return false
	}

	relPath, err := filepath.Rel(t.OutDir, targetPath)
	if err != nil {
		// Not under OutDir
		return false
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		relPath = ""
	}

	for _, pattern := range t.ExcludeFiles {
		pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if relPath == pattern {
			return true
		}
		// "src/" excludes everything below src
		if pattern != "" && strings.HasPrefix(relPath, pattern+"/") {
			return true
		}
	}
	return false
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	// Relative paths are relative to the working directory
	for i := range cfg.Targets {
		cfg.Targets[i].OutDir = absolute(cfg.Targets[i].OutDir)
	}
	if !loader.IsRemote(cfg.Schema) {
		cfg.Schema = absolute(cfg.Schema)
	}
	return &cfg, nil
}

// Validate checks required fields and applies defaults
func (c *Config) Validate() error {
	if c.Schema == "" {
		return errors.New("config.schema is required")
	}
	switch c.Format {
	case "", FormatTypeSchema, FormatOpenAPI, FormatJSONSchema:
	default:
		return errors.Newf("unknown format %q", c.Format)
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if len(c.Targets) == 0 {
		return errors.WithHint(errors.New("config.targets is empty"), "add at least one target with type and outDir")
	}
	for i, t := range c.Targets {
		if t.Type == "" || t.OutDir == "" {
			return errors.Newf("targets[%d] missing required fields (type, outDir)", i)
		}
	}
	return nil
}

func absolute(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
