package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/blimu-dev/schema-gen/internal/fixture"
)

const pets = `{
  "definitions": {
    "Pet": {"type": "struct", "properties": {"name": {"type": "string"}}},
    "Pets": {"type": "array", "items": {"$ref": "Pet"}}
  },
  "$ref": "Pets"
}`

func TestRunValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pets.json")
	require.NoError(t, os.WriteFile(path, []byte(pets), 0o644))

	var out bytes.Buffer
	require.NoError(t, RunValidate(context.Background(), zaptest.NewLogger(t), &out, path, "", ""))
	assert.Equal(t, path+": 2 definitions\nroot: Pets\n  Pet (struct)\n  Pets (array)\n", out.String())

	err := RunValidate(context.Background(), zaptest.NewLogger(t), &out, filepath.Join(t.TempDir(), "missing.json"), "", "")
	assert.ErrorContains(t, err, "failed to read")
}

func TestRunGenerate(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "pets.json")
	require.NoError(t, os.WriteFile(input, []byte(pets), 0o644))

	outDir := filepath.Join(dir, "out")
	err := RunGenerate(context.Background(), zaptest.NewLogger(t), RunGenerateParams{
		Fallback: FallbackParams{Input: input, Type: "csharp", OutDir: outDir, Namespace: "Acme.Pets"},
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "Pet.cs"))

	config := filepath.Join(dir, "schema-gen.yaml")
	require.NoError(t, os.WriteFile(config, []byte("schema: "+input+"\ntargets:\n  - type: typeschema\n    outDir: "+outDir+"\n"), 0o644))
	require.NoError(t, RunGenerate(context.Background(), zaptest.NewLogger(t), RunGenerateParams{ConfigPath: config}))
	assert.FileExists(t, filepath.Join(outDir, "schema.json"))
}

func TestRunTargets(t *testing.T) {
	var out bytes.Buffer
	RunTargets(&out)
	assert.Equal(t, "csharp\ngo\njava\nkotlin\npython\ntypeschema\ntypescript\n", out.String())
}

func TestDescribe(t *testing.T) {
	lines := Describe(fixture.Pets())
	assert.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "(")
}

func TestNewLogger(t *testing.T) {
	for _, verbose := range []bool{true, false} {
		logger, err := NewLogger(verbose)
		require.NoError(t, err)
		assert.Equal(t, verbose, logger.Core().Enabled(zapcore.DebugLevel))
	}
}
