// Package render holds the template plumbing shared by the template driven
// backends.
package render

import (
	"bytes"
	"io/fs"
	"maps"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"

	"github.com/blimu-dev/schema-gen/pkg/utils"
)

// Templates is a parsed set of *.gotmpl files
type Templates struct {
	root *template.Template
}

// FuncMap returns the sprig functions merged with the casing helpers and
// extra. Entries of extra win.
func FuncMap(extra template.FuncMap) template.FuncMap {
	funcMap := template.FuncMap{
		"pascal":  utils.ToPascalCase,
		"camel":   utils.ToCamelCase,
		"snake":   utils.ToSnakeCase,
		"kebab":   utils.ToKebabCase,
		"lines":   Lines,
		"prefix":  Prefix,
		"joinAll": strings.Join,
	}
	maps.Copy(funcMap, sprig.TxtFuncMap())
	maps.Copy(funcMap, extra)
	return funcMap
}

// Parse parses every file matching pattern in fsys. Templates are addressed
// by their base name.
func Parse(fsys fs.FS, pattern string, extra template.FuncMap) (*Templates, error) {
	root, err := template.New("").Funcs(FuncMap(extra)).ParseFS(fsys, pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse templates %s", pattern)
	}
	return &Templates{root: root}, nil
}

// MustParse is like Parse but panics on error. It is meant for package
// level template sets backed by embed.FS.
func MustParse(fsys fs.FS, pattern string, extra template.FuncMap) *Templates {
	t, err := Parse(fsys, pattern, extra)
	if err != nil {
		panic(err)
	}
	return t
}

// Execute renders the named template with data
func (t *Templates) Execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.root.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute template %s", name)
	}
	return buf.String(), nil
}

// Lines splits a possibly multi-line text, dropping trailing blank lines
func Lines(s string) []string {
	s = strings.TrimRight(strings.ReplaceAll(s, "\r\n", "\n"), "\n ")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Prefix prepends p to every line of s
func Prefix(p, s string) string {
	lines := Lines(s)
	for i, l := range lines {
		lines[i] = strings.TrimRight(p+l, " ")
	}
	return strings.Join(lines, "\n")
}
