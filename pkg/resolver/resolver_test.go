package resolver

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/schema-gen/pkg/ir"
)

func propertyNames(st *ir.StructType) []string {
	var names []string
	for _, p := range st.Properties() {
		names = append(names, p.Name)
	}
	return names
}

func fooBar() *ir.Definitions {
	return ir.NewDefinitions().
		MustAdd("Foo", ir.NewStructBuilder().AddRequired("foo", ir.String()).Build()).
		MustAdd("Bar", ir.NewStructBuilder().Add("bar", ir.String()).Build())
}

func TestResolveReference(t *testing.T) {
	location := ir.NewStructBuilder().Add("lat", ir.Number()).Build()
	defs := ir.NewDefinitions().
		MustAdd("Location", location).
		MustAdd("Place", ir.Ref("Location")).
		MustAdd("Spot", ir.Ref("Place"))

	got, err := ResolveReference("Spot", defs)
	require.NoError(t, err)
	assert.Same(t, location, got)

	got, err = ResolveReference("Location", defs)
	require.NoError(t, err)
	assert.Same(t, location, got)
}

func TestResolveUnknownReference(t *testing.T) {
	defs := ir.NewDefinitions().MustAdd("A", ir.Ref("Missing"))

	_, err := ResolveReference("A", defs)
	var unknown *ir.UnknownReferenceError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Missing", unknown.Name)
}

func TestResolveCycle(t *testing.T) {
	tests := []struct {
		name     string
		defs     *ir.Definitions
		start    string
		wantPath []string
	}{
		{
			name:     "self",
			defs:     ir.NewDefinitions().MustAdd("A", ir.Ref("A")),
			start:    "A",
			wantPath: []string{"A", "A"},
		},
		{
			name: "chain",
			defs: ir.NewDefinitions().
				MustAdd("A", ir.Ref("B")).
				MustAdd("B", ir.Ref("C")).
				MustAdd("C", ir.Ref("A")),
			start:    "A",
			wantPath: []string{"A", "B", "C", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveReference(tt.start, tt.defs)
			var cyclic *ir.CyclicReferenceError
			require.True(t, errors.As(err, &cyclic), "got %v", err)
			assert.Equal(t, tt.wantPath, cyclic.Path)
		})
	}
}

func TestResolverMemoIsPerInstance(t *testing.T) {
	defs := ir.NewDefinitions().MustAdd("A", ir.String())
	r := New(defs)

	first, err := r.Resolve("A")
	require.NoError(t, err)
	second, err := r.Resolve("A")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Same(t, defs, r.Definitions())
}

func TestResolveIntersection(t *testing.T) {
	result, err := ResolveIntersection(ir.AllOf(ir.Ref("Foo"), ir.Ref("Bar")), fooBar())
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar"}, propertyNames(result))
	assert.Equal(t, []string{"foo"}, result.Required())
	assert.Nil(t, result.Extends())
}

func TestResolveIntersectionLastWriterWins(t *testing.T) {
	defs := ir.NewDefinitions().
		MustAdd("Foo", ir.NewStructBuilder().Add("id", ir.String()).Add("foo", ir.String()).Build()).
		MustAdd("Bar", ir.NewStructBuilder().AddRequired("id", ir.Integer()).Add("bar", ir.String()).Build())

	result, err := ResolveIntersection(ir.AllOf(ir.Ref("Foo"), ir.Ref("Bar")), defs)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "foo", "bar"}, propertyNames(result))

	id, ok := result.Property("id")
	require.True(t, ok)
	assert.Equal(t, ir.KindInteger, id.Type.Kind())
	assert.True(t, id.Required)
}

func TestResolveIntersectionRejectsNonStructs(t *testing.T) {
	defs := fooBar().MustAdd("Flag", ir.Boolean())

	_, err := ResolveIntersection(ir.AllOf(ir.Ref("Foo"), ir.Ref("Flag")), defs)
	var invalid *ir.InvalidSchemaError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Reason, "all-of must contain only struct types")

	_, err = ResolveIntersection(ir.AllOf(ir.Ref("Foo"), ir.Boolean()), defs)
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "allOf[1]", invalid.Location)
}

func TestResolveNestedIntersection(t *testing.T) {
	defs := fooBar().
		MustAdd("FooBar", ir.AllOf(ir.Ref("Foo"), ir.Ref("Bar"))).
		MustAdd("Baz", ir.NewStructBuilder().Add("baz", ir.Boolean()).Build())

	result, err := ResolveIntersection(ir.AllOf(ir.Ref("FooBar"), ir.Ref("Baz")), defs)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar", "baz"}, propertyNames(result))

	st, err := New(defs).ResolveStruct("FooBar")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar"}, propertyNames(st))
}

func TestResolveIntersectionCycle(t *testing.T) {
	defs := fooBar().
		MustAdd("Loop", ir.AllOf(ir.Ref("Foo"), ir.Ref("Loop")))

	_, err := New(defs).ResolveStruct("Loop")
	var cyclic *ir.CyclicReferenceError
	require.True(t, errors.As(err, &cyclic), "got %v", err)
	assert.Equal(t, []string{"Loop", "Loop"}, cyclic.Path)
}
