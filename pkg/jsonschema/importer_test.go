package jsonschema

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/schema-gen/pkg/engine"
	"github.com/blimu-dev/schema-gen/pkg/generator/typescript"
	"github.com/blimu-dev/schema-gen/pkg/ir"
	"github.com/blimu-dev/schema-gen/pkg/loader"
)

const person = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "person",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1, "description": "Full name"},
    "age": {"type": "integer", "format": "int32", "exclusiveMinimum": 0},
    "email": {"type": ["string", "null"], "format": "email"},
    "address": {"$ref": "#/$defs/Address"},
    "friends": {"type": "array", "items": {"$ref": "#"}},
    "labels": {"type": "object", "additionalProperties": {"type": "string"}},
    "extra": {"type": "object", "additionalProperties": true},
    "role": {"enum": ["admin", "user"]},
    "contact": {
      "oneOf": [
        {"type": "string"},
        {"type": "object", "properties": {"phone": {"type": "string"}}}
      ]
    },
    "meta": {"type": "object", "properties": {"created": {"type": "string", "format": "date-time"}}}
  },
  "$defs": {
    "Address": {
      "type": "object",
      "properties": {
        "street": {"type": "string"},
        "city": {"type": "string", "deprecated": true}
      }
    },
    "Codes": {"type": "array", "items": {"type": "integer"}, "uniqueItems": true}
  }
}`

func get[T ir.Type](t *testing.T, schema *ir.Schema, name string) T {
	t.Helper()
	def, ok := schema.Definitions().Get(name)
	require.True(t, ok, "missing definition %s", name)
	v, ok := def.(T)
	require.True(t, ok, "definition %s is a %s", name, def.Kind())
	return v
}

func propertyNames(st *ir.StructType) []string {
	var names []string
	for _, p := range st.Properties() {
		names = append(names, p.Name)
	}
	return names
}

func TestImport(t *testing.T) {
	schema, err := LoadBytes([]byte(person), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Person", "Person_Contact_2", "Person_Meta", "Address", "Codes"}, schema.Definitions().Names())
	root, ok := schema.RootName()
	require.True(t, ok)
	assert.Equal(t, "Person", root)

	p := get[*ir.StructType](t, schema, "Person")
	assert.Equal(t, []string{"name", "age", "email", "address", "friends", "labels", "extra", "role", "contact", "meta"}, propertyNames(p))
	assert.Equal(t, []string{"name"}, p.Required())

	t.Run("scalars", func(t *testing.T) {
		name, _ := p.Property("name")
		spec := name.Type.(*ir.StringType).Spec()
		assert.Equal(t, 1, *spec.MinLength)
		assert.Equal(t, "Full name", spec.Description)

		age, _ := p.Property("age")
		num := age.Type.(*ir.IntegerType).Spec()
		assert.Equal(t, ir.FormatInt32, num.Format)
		assert.Equal(t, 0.0, *num.Minimum)
		assert.True(t, num.ExclusiveMinimum)

		email, _ := p.Property("email")
		assert.Equal(t, ir.Format("email"), email.Type.(*ir.StringType).Format())
		assert.True(t, email.Type.Attributes().Nullable)

		role, _ := p.Property("role")
		assert.Equal(t, []any{"admin", "user"}, role.Type.(*ir.StringType).Spec().Enum)
	})

	t.Run("references", func(t *testing.T) {
		address, _ := p.Property("address")
		assert.Equal(t, "Address", address.Type.(*ir.ReferenceType).Target())

		friends, _ := p.Property("friends")
		assert.Equal(t, "Person", friends.Type.(*ir.ArrayType).Items().(*ir.ReferenceType).Target())
	})

	t.Run("maps", func(t *testing.T) {
		labels, _ := p.Property("labels")
		assert.Equal(t, ir.KindString, labels.Type.(*ir.MapType).Values().Kind())

		extra, _ := p.Property("extra")
		assert.True(t, extra.Type.(*ir.MapType).AnyValues())
	})

	t.Run("extracted", func(t *testing.T) {
		contact, _ := p.Property("contact")
		members := contact.Type.(*ir.UnionType).Members()
		require.Len(t, members, 2)
		assert.Equal(t, ir.KindString, members[0].Kind())
		assert.Equal(t, "Person_Contact_2", members[1].(*ir.ReferenceType).Target())

		meta, _ := p.Property("meta")
		assert.Equal(t, "Person_Meta", meta.Type.(*ir.ReferenceType).Target())
		created, ok := get[*ir.StructType](t, schema, "Person_Meta").Property("created")
		require.True(t, ok)
		assert.Equal(t, ir.FormatDateTime, created.Type.(*ir.StringType).Format())
	})

	t.Run("definitions", func(t *testing.T) {
		address := get[*ir.StructType](t, schema, "Address")
		assert.Equal(t, []string{"street", "city"}, propertyNames(address))
		city, _ := address.Property("city")
		assert.True(t, city.Type.Attributes().Deprecated)

		codes := get[*ir.ArrayType](t, schema, "Codes")
		assert.True(t, codes.Spec().UniqueItems)
		assert.Equal(t, ir.KindInteger, codes.Items().Kind())
	})
}

func TestImportNamedRoot(t *testing.T) {
	schema, err := LoadBytes([]byte(person), "Customer")
	require.NoError(t, err)

	root, _ := schema.RootName()
	assert.Equal(t, "Customer", root)
	friends, _ := get[*ir.StructType](t, schema, "Customer").Property("friends")
	assert.Equal(t, "Customer", friends.Type.(*ir.ArrayType).Items().(*ir.ReferenceType).Target())
}

func TestImportDefinitionsOnly(t *testing.T) {
	const doc = `
definitions:
  Tag:
    type: object
    properties:
      name: {type: string}
      value: {type: number, exclusiveMaximum: 10}
`
	schema, err := LoadBytes([]byte(doc), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tag"}, schema.Definitions().Names())
	_, ok := schema.RootName()
	assert.False(t, ok)

	value, _ := get[*ir.StructType](t, schema, "Tag").Property("value")
	spec := value.Type.(*ir.NumberType).Spec()
	assert.Equal(t, 10.0, *spec.Maximum)
	assert.True(t, spec.ExclusiveMaximum)

	schema, err = LoadBytes([]byte(doc), "Tag")
	require.NoError(t, err)
	root, _ := schema.RootName()
	assert.Equal(t, "Tag", root)
}

func TestImportErrors(t *testing.T) {
	_, err := LoadBytes([]byte(`{"$defs": {"A": {"type": "string"}}}`), "Missing")
	var unknown *ir.UnknownReferenceError
	require.True(t, errors.As(err, &unknown))

	_, err = LoadBytes([]byte(`{"title": "A", "type": "object", "$defs": {"A": {"type": "string"}}}`), "")
	var invalid *ir.InvalidSchemaError
	require.True(t, errors.As(err, &invalid))

	_, err = LoadBytes([]byte(`{"type": 12}`), "")
	assert.ErrorContains(t, err, "invalid JSON Schema")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "person.json")
	require.NoError(t, os.WriteFile(path, []byte(person), 0o644))

	schema, err := Load(context.Background(), path, "", loader.Options{})
	require.NoError(t, err)
	assert.Equal(t, 5, schema.Definitions().Len())

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), "", loader.Options{})
	assert.Error(t, err)
}

func TestImportGeneratesTypeScript(t *testing.T) {
	schema, err := LoadBytes([]byte(person), "")
	require.NoError(t, err)

	out, err := engine.Generate(schema, typescript.NewTypeScriptGenerator(), engine.Options{})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Len())
	assert.Contains(t, out.Concat(), "Person")
}
