// Package fixture builds the schemas the backend tests render
package fixture

import "github.com/blimu-dev/schema-gen/pkg/ir"

// University returns a schema covering structs, inheritance, maps, arrays,
// unions and generics. The root is StudentCollection.
//
//	Location           struct {lat, long}
//	Human              base struct {firstName*, birth(date), location, tags}
//	Student            Human + {matricleNumber}
//	StudentMap         map of Student
//	Students           array of Student
//	Identifier         string | integer
//	Collection<T>      struct {totalResults, entries: T[]}
//	StudentCollection  Collection<T=Student>
func University() *ir.Schema {
	defs := ir.NewDefinitions().
		MustAdd("Location", ir.NewStructBuilder().
			Description("Location of the person").
			Add("lat", ir.Number()).
			Add("long", ir.Number()).
			Build()).
		MustAdd("Human", ir.NewStructBuilder().
			Description("A simple human").
			Base(true).
			AddRequired("firstName", ir.String()).
			Add("birth", ir.StringWithFormat(ir.FormatDate)).
			Add("location", ir.Ref("Location")).
			Add("tags", ir.ArrayOf(ir.String())).
			Build()).
		MustAdd("Student", ir.NewStructBuilder().
			Extends(ir.Ref("Human")).
			Add("matricleNumber", ir.String()).
			Build()).
		MustAdd("StudentMap", ir.MapOf(ir.Ref("Student"))).
		MustAdd("Students", ir.ArrayOf(ir.Ref("Student"))).
		MustAdd("Identifier", ir.UnionOf(ir.String(), ir.Integer())).
		MustAdd("Collection", ir.NewStructBuilder().
			Generics("T").
			Add("totalResults", ir.Integer()).
			Add("entries", ir.ArrayOf(ir.Generic("T"))).
			Build()).
		MustAdd("StudentCollection", ir.NewStructBuilder().
			Extends(ir.Ref("Collection", ir.Template{Name: "T", Type: ir.Ref("Student")})).
			Build())
	return ir.NewSchema(ir.Ref("StudentCollection"), defs)
}

// Pets returns a schema with a discriminated base struct. The root is Animal.
func Pets() *ir.Schema {
	defs := ir.NewDefinitions().
		MustAdd("Animal", ir.NewStructBuilder().
			Base(true).
			AddRequired("kind", ir.String()).
			Discriminator("kind",
				ir.Mapping{Type: "Dog", Value: "dog"},
				ir.Mapping{Type: "Cat", Value: "cat"}).
			Build()).
		MustAdd("Dog", ir.NewStructBuilder().
			Extends(ir.Ref("Animal")).
			Add("barks", ir.Boolean()).
			Build()).
		MustAdd("Cat", ir.NewStructBuilder().
			Extends(ir.Ref("Animal")).
			Add("lives", ir.IntegerWithFormat(ir.FormatInt32)).
			Build())
	return ir.NewSchema(ir.Ref("Animal"), defs)
}

// Described returns a single struct whose properties carry attributes
func Described() *ir.Schema {
	defs := ir.NewDefinitions().
		MustAdd("Entry", ir.NewStructBuilder().
			AddRequired("id", ir.NewString(ir.StringSpec{Attributes: ir.Attributes{Readonly: true}})).
			Add("note", ir.NewString(ir.StringSpec{Attributes: ir.Attributes{Description: "Free text", Nullable: true}})).
			Add("old", ir.NewInteger(ir.NumericSpec{Attributes: ir.Attributes{Deprecated: true}})).
			Add("created-at", ir.StringWithFormat(ir.FormatDateTime)).
			Build())
	return ir.NewSchema(ir.Ref("Entry"), defs)
}
