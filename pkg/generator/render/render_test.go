package render

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/hello.gotmpl": {Data: []byte(`{{ pascal .Name }}:{{ .Name | upper }}:{{ shout .Name }}`)},
	}
	tpl, err := Parse(fsys, "templates/*.gotmpl", map[string]any{
		"shout": func(s string) string { return s + "!" },
	})
	require.NoError(t, err)

	out, err := tpl.Execute("hello.gotmpl", map[string]string{"Name": "first_name"})
	require.NoError(t, err)
	assert.Equal(t, "FirstName:FIRST_NAME:first_name!", out)

	_, err = tpl.Execute("missing.gotmpl", nil)
	assert.Error(t, err)
}

func TestParseFailure(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/broken.gotmpl": {Data: []byte(`{{ .Name `)},
	}
	_, err := Parse(fsys, "templates/*.gotmpl", nil)
	assert.Error(t, err)
	assert.Panics(t, func() { MustParse(fsys, "templates/*.gotmpl", nil) })
}

func TestLines(t *testing.T) {
	assert.Nil(t, Lines(""))
	assert.Equal(t, []string{"a", "b"}, Lines("a\r\nb\n\n"))
	assert.Equal(t, " * a\n *\n * b", Prefix(" * ", "a\n\nb"))
}
