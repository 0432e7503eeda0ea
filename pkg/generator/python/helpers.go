package python

import (
	"strconv"
	"strings"

	"github.com/blimu-dev/schema-gen/pkg/backend"
)

func bases(decl backend.StructDecl) string {
	parent := "BaseModel"
	if decl.Extends != "" {
		parent = decl.Extends
	}
	if len(decl.Generics) == 0 {
		return parent
	}
	return parent + ", Generic[" + strings.Join(decl.Generics, ", ") + "]"
}

func fieldType(p backend.Property) string {
	if !p.Required || p.Nullable {
		return "Optional[" + p.Type + "]"
	}
	return p.Type
}

// field renders the pydantic Field call, the alias keeps the raw name on
// the wire
func field(p backend.Property) string {
	var args []string
	if !p.Required {
		args = append(args, "default=None")
	}
	args = append(args, "alias="+strconv.Quote(p.Name.Raw))
	if p.Deprecated {
		args = append(args, "deprecated=True")
	}
	if p.Readonly {
		args = append(args, "frozen=True")
	}
	return "Field(" + strings.Join(args, ", ") + ")"
}

// formatDocstring formats a string for use in Python docstrings
func formatDocstring(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, `"""`, `\"\"\"`)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var result []string
	for _, line := range lines {
		result = append(result, strings.TrimRight("    "+strings.TrimSpace(line), " "))
	}
	return strings.Join(result, "\n")
}

// formatPythonComment formats a string as a Python raw string docstring for property descriptions
func formatPythonComment(s string) string {
	if s == "" {
		return ""
	}
	escaped := strings.ReplaceAll(s, `"""`, `\"\"\"`)
	return "r\"\"\"" + escaped + "\"\"\""
}
