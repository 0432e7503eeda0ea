// Package normalizer maps raw schema identifiers to identifiers that are
// legal in a target language. Every backend builds its names through a
// Normalizer so casing and reserved word escaping stay consistent.
package normalizer

import (
	"strings"
	"unicode"

	"github.com/blimu-dev/schema-gen/pkg/utils"
)

// Casing is an identifier casing style
type Casing int

const (
	// Raw keeps the identifier as written in the schema
	Raw Casing = iota
	Pascal
	Camel
	Snake
	Kebab
	ScreamingSnake
)

// Apply re-cases s
func (c Casing) Apply(s string) string {
	switch c {
	case Pascal:
		return utils.ToPascalCase(s)
	case Camel:
		return utils.ToCamelCase(s)
	case Snake:
		return utils.ToSnakeCase(s)
	case Kebab:
		return utils.ToKebabCase(s)
	case ScreamingSnake:
		return utils.ToScreamingSnakeCase(s)
	default:
		return s
	}
}

func (c Casing) String() string {
	switch c {
	case Pascal:
		return "pascal"
	case Camel:
		return "camel"
	case Snake:
		return "snake"
	case Kebab:
		return "kebab"
	case ScreamingSnake:
		return "screaming-snake"
	default:
		return "raw"
	}
}

// Normalizer converts raw identifiers into target identifiers
type Normalizer interface {
	// Class returns a type or class identifier
	Class(raw string) string
	// Property returns a field identifier
	Property(raw string) string
	// Argument returns a parameter or type parameter identifier
	Argument(raw string) string
	// Method returns a method identifier, prefix words come first
	// (e.g. Method("name", "get") -> "getName")
	Method(raw string, prefix ...string) string
	// File returns a file name including the extension
	File(raw string) string
}

// Rules configures a Normalizer
type Rules struct {
	Class    Casing
	Property Casing
	Argument Casing
	Method   Casing
	File     Casing
	// Extension is appended to file names, including the dot
	Extension string
	// Reserved words of the target language
	Reserved []string
	// EscapeSuffix is appended to reserved identifiers, "_" when empty
	EscapeSuffix string
}

type normalizer struct {
	rules    Rules
	reserved map[string]struct{}
}

// New returns a Normalizer applying rules
func New(rules Rules) Normalizer {
	if rules.EscapeSuffix == "" {
		rules.EscapeSuffix = "_"
	}
	reserved := make(map[string]struct{}, len(rules.Reserved))
	for _, w := range rules.Reserved {
		reserved[w] = struct{}{}
	}
	return &normalizer{rules: rules, reserved: reserved}
}

func (n *normalizer) Class(raw string) string {
	return n.escape(n.rules.Class.Apply(raw))
}

func (n *normalizer) Property(raw string) string {
	return n.escape(n.rules.Property.Apply(raw))
}

func (n *normalizer) Argument(raw string) string {
	return n.escape(n.rules.Argument.Apply(raw))
}

func (n *normalizer) Method(raw string, prefix ...string) string {
	if len(prefix) == 0 {
		return n.escape(n.rules.Method.Apply(raw))
	}
	if n.rules.Method == Raw {
		return n.escape(strings.Join(prefix, "") + utils.Capitalize(raw))
	}
	words := append(append([]string{}, prefix...), raw)
	return n.escape(n.rules.Method.Apply(strings.Join(words, " ")))
}

func (n *normalizer) File(raw string) string {
	name := n.rules.File.Apply(raw)
	if name == "" {
		name = "_"
	}
	return name + n.rules.Extension
}

func (n *normalizer) escape(id string) string {
	if id == "" {
		return "_"
	}
	if unicode.IsDigit(rune(id[0])) {
		id = "_" + id
	}
	if _, ok := n.reserved[id]; ok {
		id += n.rules.EscapeSuffix
	}
	return id
}
