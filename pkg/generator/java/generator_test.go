package java

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
	out, err := engine.Generate(schema, NewJavaGenerator(), opts)
	require.NoError(t, err)
	return out
}

func file(t *testing.T, out *engine.Output, name string) string {
	t.Helper()
	content, ok := out.Get(name)
	require.True(t, ok, name)
	return content
}

func TestReservedPropertyAccessors(t *testing.T) {
	out := generate(t, fixture.University(), engine.Options{Namespace: "org.acme"})

	assert.Equal(t, `package org.acme;

import com.fasterxml.jackson.annotation.JsonGetter;
import com.fasterxml.jackson.annotation.JsonSetter;

/**
 * Location of the person
 */
public class Location {
    private Double lat;
    private Double long_;

    @JsonSetter("lat")
    public void setLat(Double lat) {
        this.lat = lat;
    }

    @JsonGetter("lat")
    public Double getLat() {
        return this.lat;
    }

    @JsonSetter("long")
    public void setLong(Double long_) {
        this.long_ = long_;
    }

    @JsonGetter("long")
    public Double getLong() {
        return this.long_;
    }
}
`, file(t, out, "Location.java"))
}

func TestUniversity(t *testing.T) {
	out := generate(t, fixture.University(), engine.Options{Namespace: "org.acme"})

	human := file(t, out, "Human.java")
	assert.Contains(t, human, "import com.fasterxml.jackson.annotation.JsonSetter;\nimport java.time.LocalDate;\n\n/**\n * A simple human\n */\npublic abstract class Human {\n")
	assert.Contains(t, human, "    private LocalDate birth;\n")
	assert.Contains(t, human, "    private java.util.List<String> tags;\n")
	assert.Contains(t, human, "    public void setFirstName(String firstName) {\n        this.firstName = firstName;\n    }\n")

	student := file(t, out, "Student.java")
	assert.Equal(t, `package org.acme;

import com.fasterxml.jackson.annotation.JsonGetter;
import com.fasterxml.jackson.annotation.JsonSetter;

public class Student extends Human {
    private String matricleNumber;

    @JsonSetter("matricleNumber")
    public void setMatricleNumber(String matricleNumber) {
        this.matricleNumber = matricleNumber;
    }

    @JsonGetter("matricleNumber")
    public String getMatricleNumber() {
        return this.matricleNumber;
    }
}
`, student)
	assert.NotContains(t, student, "LocalDate")

	assert.Contains(t, file(t, out, "StudentMap.java"), "public class StudentMap extends java.util.HashMap<String, Student> {\n}\n")
	assert.Contains(t, file(t, out, "Students.java"), "public class Students extends java.util.ArrayList<Student> {\n}\n")
	assert.Contains(t, file(t, out, "StudentCollection.java"), "public class StudentCollection extends Collection<Student> {\n}\n")

	collection := file(t, out, "Collection.java")
	assert.Contains(t, collection, "public class Collection<T> {\n    private Integer totalResults;\n    private java.util.List<T> entries;\n")

	assert.Contains(t, file(t, out, "Identifier.java"), `public class Identifier {
    private final Object value;

    @com.fasterxml.jackson.annotation.JsonCreator
    public Identifier(Object value) {
        this.value = value;
    }

    @com.fasterxml.jackson.annotation.JsonValue
    public Object getValue() {
        return this.value;
    }
}
`)
}

func TestDiscriminator(t *testing.T) {
	out := generate(t, fixture.Pets(), engine.Options{})

	animal := file(t, out, "Animal.java")
	assert.Contains(t, animal, `import com.fasterxml.jackson.annotation.JsonGetter;
import com.fasterxml.jackson.annotation.JsonSetter;
import com.fasterxml.jackson.annotation.JsonSubTypes;
import com.fasterxml.jackson.annotation.JsonTypeInfo;

@JsonTypeInfo(use = JsonTypeInfo.Id.NAME, include = JsonTypeInfo.As.PROPERTY, property = "kind")
@JsonSubTypes({
    @JsonSubTypes.Type(value = Dog.class, name = "dog"),
    @JsonSubTypes.Type(value = Cat.class, name = "cat"),
})
public abstract class Animal {
    private String kind;
`)
	assert.NotContains(t, animal, "package ")

	cat := file(t, out, "Cat.java")
	assert.NotContains(t, cat, "JsonSubTypes")
	assert.Contains(t, cat, "public class Cat extends Animal {\n    private Integer lives;\n")
}

func TestPropertyAttributes(t *testing.T) {
	out := generate(t, fixture.Described(), engine.Options{})

	entry := file(t, out, "Entry.java")
	assert.Contains(t, entry, "import java.time.LocalDateTime;\n")
	assert.Contains(t, entry, "\n    /**\n     * Free text\n     */\n    @JsonSetter(\"note\")\n")
	assert.Contains(t, entry, "    @Deprecated\n    @JsonGetter(\"old\")\n    public Integer getOld() {\n")
	assert.Contains(t, entry, "    @JsonGetter(\"created-at\")\n    public LocalDateTime getCreatedAt() {\n        return this.createdAt;\n    }\n")
}

func TestExternalAndReferenceAlias(t *testing.T) {
	defs := ir.NewDefinitions().
		MustAdd("Invoice", ir.NewStructBuilder().Add("total", ir.Ref("money:Amount")).Build()).
		MustAdd("Bill", ir.Ref("Invoice"))

	out := generate(t, ir.NewSchema(ir.Ref("Bill"), defs), engine.Options{
		ImportAliases: map[string]string{"money": "org.acme.money"},
	})

	invoice := file(t, out, "Invoice.java")
	assert.Contains(t, invoice, "import org.acme.money.Amount;\n")
	assert.Contains(t, invoice, "    private Amount total;\n")
	assert.Contains(t, file(t, out, "Bill.java"), "public class Bill extends Invoice {\n}\n")
}

func TestJavadoc(t *testing.T) {
	assert.Empty(t, javadoc("", false))
	assert.Equal(t, "/**\n * @deprecated\n */\n", javadoc("", true))
	assert.Equal(t, "/**\n * a *\\/\n *\n * b\n */\n", javadoc("a */\n\nb", false))
}
