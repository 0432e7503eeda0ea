package ir

import (
	"iter"
	"slices"

	"github.com/cockroachdb/errors"
)

// Definitions is the registry of named types. Iteration follows
// registration order. Once sealed by NewSchema it rejects further writes.
type Definitions struct {
	names  []string
	types  map[string]Type
	sealed bool
}

// NewDefinitions returns an empty registry
func NewDefinitions() *Definitions {
	return &Definitions{types: make(map[string]Type)}
}

// Add registers t under name
func (d *Definitions) Add(name string, t Type) error {
	switch {
	case d.sealed:
		return errors.Newf("definitions are sealed, cannot add %q", name)
	case name == "":
		return errors.New("definition name is empty")
	case t == nil:
		return errors.Newf("definition %q has no type", name)
	}
	if _, ok := d.types[name]; ok {
		return errors.Newf("definition %q is already registered", name)
	}
	d.names = append(d.names, name)
	d.types[name] = t
	return nil
}

// MustAdd is Add that panics on error, convenient for building fixtures
func (d *Definitions) MustAdd(name string, t Type) *Definitions {
	if err := d.Add(name, t); err != nil {
		panic(err)
	}
	return d
}

// Get returns the type registered under name
func (d *Definitions) Get(name string) (Type, bool) {
	t, ok := d.types[name]
	return t, ok
}

func (d *Definitions) Has(name string) bool {
	_, ok := d.types[name]
	return ok
}

// Names returns the registered names in registration order
func (d *Definitions) Names() []string {
	return slices.Clone(d.names)
}

func (d *Definitions) Len() int {
	return len(d.names)
}

// All iterates the definitions in registration order
func (d *Definitions) All() iter.Seq2[string, Type] {
	return func(yield func(string, Type) bool) {
		for _, name := range d.names {
			if !yield(name, d.types[name]) {
				return
			}
		}
	}
}

func (d *Definitions) seal() {
	d.sealed = true
}
