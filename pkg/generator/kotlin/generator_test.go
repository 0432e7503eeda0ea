package kotlin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/schema-gen/internal/fixture"
	"github.com/blimu-dev/schema-gen/pkg/engine"
	"github.com/blimu-dev/schema-gen/pkg/ir"
)

func generate(t *testing.T, schema *ir.Schema, opts engine.Options) *engine.Output {
	t.Helper()
	out, err := engine.Generate(schema, NewKotlinGenerator(), opts)
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
	out := generate(t, fixture.University(), engine.Options{Namespace: "org.acme"})
	assert.Equal(t, 8, out.Len())

	assert.Equal(t, `package org.acme

import com.fasterxml.jackson.annotation.JsonProperty

/**
 * Location of the person
 */
open class Location {
    @JsonProperty("lat")
    var lat: Double? = null

    @JsonProperty("long")
    var long: Double? = null
}
`, file(t, out, "Location.kt"))

	human := file(t, out, "Human.kt")
	assert.Contains(t, human, "import com.fasterxml.jackson.annotation.JsonProperty\nimport java.time.LocalDate\n\n/**\n * A simple human\n */\nabstract class Human {\n")
	assert.Contains(t, human, "    var birth: LocalDate? = null\n")
	assert.Contains(t, human, "    var location: Location? = null\n")
	assert.Contains(t, human, "    var tags: List<String>? = null\n")

	student := file(t, out, "Student.kt")
	assert.Contains(t, student, "open class Student : Human() {\n    @JsonProperty(\"matricleNumber\")\n    var matricleNumber: String? = null\n}\n")
	assert.NotContains(t, student, "LocalDate")

	assert.Contains(t, file(t, out, "StudentMap.kt"), "open class StudentMap : HashMap<String, Student>() {\n}\n")
	assert.Contains(t, file(t, out, "Students.kt"), "open class Students : ArrayList<Student>() {\n}\n")
	assert.Contains(t, file(t, out, "Identifier.kt"), "typealias Identifier = Any\n")
	assert.Contains(t, file(t, out, "Collection.kt"), "open class Collection<T> {\n    @JsonProperty(\"totalResults\")\n    var totalResults: Int? = null\n\n    @JsonProperty(\"entries\")\n    var entries: List<T>? = null\n}\n")
	assert.Contains(t, file(t, out, "StudentCollection.kt"), "open class StudentCollection : Collection<Student>() {\n}\n")
}

func TestDiscriminator(t *testing.T) {
	out := generate(t, fixture.Pets(), engine.Options{})

	animal := file(t, out, "Animal.kt")
	assert.Equal(t, `import com.fasterxml.jackson.annotation.JsonProperty
import com.fasterxml.jackson.annotation.JsonSubTypes
import com.fasterxml.jackson.annotation.JsonTypeInfo

@JsonTypeInfo(use = JsonTypeInfo.Id.NAME, include = JsonTypeInfo.As.PROPERTY, property = "kind")
@JsonSubTypes(
    JsonSubTypes.Type(value = Dog::class, name = "dog"),
    JsonSubTypes.Type(value = Cat::class, name = "cat"),
)
abstract class Animal {
    @JsonProperty("kind")
    var kind: String? = null
}
`, animal)

	cat := file(t, out, "Cat.kt")
	assert.NotContains(t, cat, "JsonSubTypes")
	assert.Contains(t, cat, "open class Cat : Animal() {\n    @JsonProperty(\"lives\")\n    var lives: Int? = null\n}\n")
}

func TestPropertyAttributes(t *testing.T) {
	entry := file(t, generate(t, fixture.Described(), engine.Options{}), "Entry.kt")

	assert.Contains(t, entry, "import java.time.LocalDateTime\n")
	assert.Contains(t, entry, "\n    /**\n     * Free text\n     */\n    @JsonProperty(\"note\")\n    var note: String? = null\n")
	assert.Contains(t, entry, "    @Deprecated(\"\")\n    @JsonProperty(\"old\")\n    var old: Int? = null\n")
	assert.Contains(t, entry, "    @JsonProperty(\"created-at\")\n    var createdAt: LocalDateTime? = null\n")
}

func TestReservedAndExternal(t *testing.T) {
	defs := ir.NewDefinitions().
		MustAdd("Invoice", ir.NewStructBuilder().
			Add("total", ir.Ref("money:Amount")).
			Add("object", ir.IntegerWithFormat(ir.FormatInt64)).
			Build()).
		MustAdd("Bill", ir.Ref("Invoice"))

	out := generate(t, ir.NewSchema(ir.Ref("Bill"), defs), engine.Options{
		Namespace:     "org.acme.billing",
		ImportAliases: map[string]string{"money": "org.acme.money"},
	})

	invoice := file(t, out, "Invoice.kt")
	assert.Contains(t, invoice, "package org.acme.billing\n\nimport com.fasterxml.jackson.annotation.JsonProperty\nimport org.acme.money.Amount\n\n")
	assert.Contains(t, invoice, "    var total: Amount? = null\n")
	assert.Contains(t, invoice, "    @JsonProperty(\"object\")\n    var object_: Long? = null\n")
	assert.Contains(t, file(t, out, "Bill.kt"), "typealias Bill = Invoice\n")
}

func TestKdoc(t *testing.T) {
	assert.Empty(t, kdoc(""))
	assert.Equal(t, "/**\n * a *\\/\n *\n * b\n */\n", kdoc("a */\n\nb"))
}
