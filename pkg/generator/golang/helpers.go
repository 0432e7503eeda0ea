package golang

import (
	"regexp"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/blimu-dev/schema-gen/pkg/backend"
	"github.com/blimu-dev/schema-gen/pkg/ir"
)

var invalidPackageChars = regexp.MustCompile(`[^a-z0-9_]`)

// fieldType points at referenced definitions and nullable scalars
func fieldType(p backend.Property) string {
	if p.Reference || (p.Nullable && isScalar(p.Origin)) {
		return "*" + p.Type
	}
	return p.Type
}

// typeCode turns a rendered field type into jennifer code, qualifying
// types of other packages
func typeCode(expr string) jen.Code {
	switch {
	case strings.HasPrefix(expr, "*"):
		return jen.Op("*").Add(typeCode(expr[1:]))
	case strings.HasPrefix(expr, "[]"):
		return jen.Index().Add(typeCode(expr[2:]))
	case strings.HasPrefix(expr, "map[string]"):
		return jen.Map(jen.String()).Add(typeCode(expr[len("map[string]"):]))
	}
	if q, ok := qualified[expr]; ok {
		return jen.Qual(q[0], q[1])
	}
	return jen.Id(expr)
}

func isScalar(t ir.Type) bool {
	switch t.(type) {
	case *ir.StringType, *ir.IntegerType, *ir.NumberType, *ir.BooleanType:
		return true
	}
	return false
}

func jsonTag(p backend.Property) string {
	if p.Required {
		return p.Name.Raw
	}
	return p.Name.Raw + ",omitempty"
}

// formatGoComment formats a string as a proper Go comment, handling multiline descriptions
func formatGoComment(s string, deprecated bool) string {
	s = strings.TrimSpace(s)
	if s == "" && !deprecated {
		return ""
	}

	var result []string
	if s != "" {
		for _, line := range strings.Split(s, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				result = append(result, "//")
			} else {
				result = append(result, "// "+line)
			}
		}
	}
	if deprecated {
		if len(result) > 0 {
			result = append(result, "//")
		}
		result = append(result, "// Deprecated: do not use.")
	}
	return strings.Join(result, "\n")
}

// packageName ensures the package name is valid for Go
func packageName(namespace string) string {
	// Extract the last part of the package name if it looks like a module path
	parts := strings.Split(namespace, "/")
	name := strings.ToLower(parts[len(parts)-1])
	name = invalidPackageChars.ReplaceAllString(name, "")

	// Ensure it doesn't start with a number
	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		name = "pkg" + name
	}
	if name == "" {
		name = DefaultPackage
	}
	return name
}
