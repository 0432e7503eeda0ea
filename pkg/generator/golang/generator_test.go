package golang

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/schema-gen/internal/fixture"
	"github.com/blimu-dev/schema-gen/pkg/engine"
	"github.com/blimu-dev/schema-gen/pkg/ir"
)

func generate(t *testing.T, schema *ir.Schema, opts engine.Options) *engine.Output {
	t.Helper()
	out, err := engine.Generate(schema, NewGoGenerator(), opts)
	require.NoError(t, err)
	return out
}

func file(t *testing.T, out *engine.Output, name string) string {
	t.Helper()
	content, ok := out.Get(name)
	require.True(t, ok, name)
	return content
}

func TestUniversity(t *testing.T) {
	out := generate(t, fixture.University(), engine.Options{})

	tests := []struct {
		file     string
		expected string
	}{
		{"location.go", "// Code generated by schema-gen. DO NOT EDIT.\n\npackage model\n\n// Location of the person\ntype Location struct {\n\tLat  float64 `json:\"lat,omitempty\"`\n\tLong float64 `json:\"long,omitempty\"`\n}\n"},
		{"human.go", "package model\n\n// A simple human\ntype Human struct {\n\tFirstName string    `json:\"firstName\"`\n\tBirth     string    `json:\"birth,omitempty\"`\n\tLocation  *Location `json:\"location,omitempty\"`\n\tTags      []string  `json:\"tags,omitempty\"`\n}\n"},
		{"student.go", "type Student struct {\n\tFirstName      string    `json:\"firstName\"`\n\tBirth          string    `json:\"birth,omitempty\"`\n\tLocation       *Location `json:\"location,omitempty\"`\n\tTags           []string  `json:\"tags,omitempty\"`\n\tMatricleNumber string    `json:\"matricleNumber,omitempty\"`\n}\n"},
		{"student_map.go", "package model\n\ntype StudentMap = map[string]Student\n"},
		{"students.go", "package model\n\ntype Students = []Student\n"},
		{"identifier.go", "package model\n\ntype Identifier = any\n"},
		{"collection.go", "type Collection[T any] struct {\n\tTotalResults int `json:\"totalResults,omitempty\"`\n\tEntries      []T `json:\"entries,omitempty\"`\n}\n"},
		{"student_collection.go", "type StudentCollection struct {\n\tTotalResults int       `json:\"totalResults,omitempty\"`\n\tEntries      []Student `json:\"entries,omitempty\"`\n}\n"},
	}

	assert.Equal(t, len(tests), out.Len())
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			content := file(t, out, tt.file)
			assert.Contains(t, content, tt.expected)
			assert.NotContains(t, content, "import")
		})
	}
}

func TestPackageFromNamespace(t *testing.T) {
	out := generate(t, fixture.University(), engine.Options{Namespace: "github.com/acme/api/v1-types"})
	assert.Contains(t, file(t, out, "location.go"), "\npackage v1types\n")
}

func TestFlattenedDiscriminator(t *testing.T) {
	out := generate(t, fixture.Pets(), engine.Options{})

	assert.Contains(t, file(t, out, "animal.go"), "type Animal struct {\n\tKind string `json:\"kind\"`\n}\n")
	assert.Contains(t, file(t, out, "dog.go"), "type Dog struct {\n\tKind  string `json:\"kind\"`\n\tBarks bool   `json:\"barks,omitempty\"`\n}\n")
	assert.Contains(t, file(t, out, "cat.go"), "\tLives int32  `json:\"lives,omitempty\"`\n")
}

func TestPropertyAttributes(t *testing.T) {
	entry := file(t, generate(t, fixture.Described(), engine.Options{}), "entry.go")

	assert.Contains(t, entry, "package model\n\nimport \"time\"\n\ntype Entry struct {\n")
	assert.Contains(t, entry, "\tId string `json:\"id\"`\n")
	assert.Contains(t, entry, "\t// Free text\n\tNote *string `json:\"note,omitempty\"`\n")
	assert.Contains(t, entry, "\t// Deprecated: do not use.\n\tOld ")
	assert.Contains(t, entry, "time.Time `json:\"created-at,omitempty\"`\n")
}

func TestExternalImports(t *testing.T) {
	defs := ir.NewDefinitions().
		MustAdd("Invoice", ir.NewStructBuilder().
			AddRequired("total", ir.Ref("money:Money")).
			Add("issued", ir.StringWithFormat(ir.FormatDateTime)).
			Build())
	out := generate(t, ir.NewSchema(ir.Ref("Invoice"), defs), engine.Options{
		ImportAliases: map[string]string{"money": "github.com/acme/money"},
	})

	invoice := file(t, out, "invoice.go")
	assert.Contains(t, invoice, "import (\n\tmoney \"github.com/acme/money\"\n\t\"time\"\n)\n")
	assert.Contains(t, invoice, "\tTotal  *money.Money `json:\"total\"`\n")
	assert.Contains(t, invoice, "\tIssued time.Time    `json:\"issued,omitempty\"`\n")
}

func TestQualifiedFieldTypes(t *testing.T) {
	stamp := ir.StringWithFormat(ir.FormatDateTime)
	defs := ir.NewDefinitions().
		MustAdd("Audit", ir.NewStructBuilder().
			AddRequired("seen", ir.ArrayOf(ir.MapOf(stamp))).
			Add("at", ir.StringWithFormat(ir.FormatDateTime)).
			Build())

	audit := file(t, generate(t, ir.NewSchema(nil, defs), engine.Options{}), "audit.go")
	assert.Contains(t, audit, "\nimport \"time\"\n")
	assert.Equal(t, 1, strings.Count(audit, "\"time\""))
	assert.Contains(t, audit, "\tSeen []map[string]time.Time `json:\"seen\"`\n")
	assert.Contains(t, audit, "\tAt   time.Time              `json:\"at,omitempty\"`\n")
}

func TestFormatGoComment(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		deprecated bool
		expected   string
	}{
		{"empty", "", false, ""},
		{"single line", "Hello", false, "// Hello"},
		{"paragraphs", "First\n\nSecond ", false, "// First\n//\n// Second"},
		{"deprecated only", "", true, "// Deprecated: do not use."},
		{"deprecated with text", "Old field", true, "// Old field\n//\n// Deprecated: do not use."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatGoComment(tt.input, tt.deprecated))
		})
	}
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "model"},
		{"types", "types"},
		{"github.com/acme/Api", "api"},
		{"github.com/acme/2fa", "pkg2fa"},
		{"github.com/acme/---", "model"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, packageName(tt.input))
		})
	}
}
