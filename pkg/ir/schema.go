package ir

// Schema is a root type plus the definitions it depends on. It is read only
// and may be shared between concurrent generation runs.
type Schema struct {
	root Type
	defs *Definitions
}

// NewSchema seals defs and returns the schema. root is conventionally a
// reference into defs and may be nil when the document has no entry point.
func NewSchema(root Type, defs *Definitions) *Schema {
	if defs == nil {
		defs = NewDefinitions()
	}
	defs.seal()
	return &Schema{root: root, defs: defs}
}

func (s *Schema) Root() Type                { return s.root }
func (s *Schema) Definitions() *Definitions { return s.defs }

// RootName returns the definition the root references, if any
func (s *Schema) RootName() (string, bool) {
	ref, ok := s.root.(*ReferenceType)
	if !ok {
		return "", false
	}
	return ref.Target(), true
}
