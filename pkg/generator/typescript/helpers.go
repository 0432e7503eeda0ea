package typescript

import (
	"strings"

	"github.com/blimu-dev/schema-gen/pkg/generator/render"
)

// quotePropertyName quotes TypeScript property names that contain special characters
func quotePropertyName(name string) string {
	needsQuoting := name == ""
	for _, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '_' || char == '$') {
			needsQuoting = true
			break
		}
	}

	// Also quote if the name starts with a number
	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		needsQuoting = true
	}

	if needsQuoting {
		return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
	}
	return name
}

// docComment renders a JSDoc block, empty when there is nothing to say
func docComment(indent, description string, deprecated bool) string {
	lines := render.Lines(strings.ReplaceAll(description, "*/", "*\\/"))
	if len(lines) == 0 && !deprecated {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(indent + "/**\n")
	for _, line := range lines {
		sb.WriteString(strings.TrimRight(indent+" * "+line, " ") + "\n")
	}
	if deprecated {
		sb.WriteString(indent + " * @deprecated\n")
	}
	sb.WriteString(indent + " */\n")
	return sb.String()
}
