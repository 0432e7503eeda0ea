package engine

import (
	"strings"
)

// File is one rendered output document
type File struct {
	Name    string
	Content string
}

// Output is the ordered set of files a generation run produced. Files
// follow definition registration order.
type Output struct {
	files []File
}

func (o *Output) add(f File) {
	o.files = append(o.files, f)
}

// Files returns the files in generation order
func (o *Output) Files() []File {
	out := make([]File, len(o.files))
	copy(out, o.files)
	return out
}

// Map returns the files keyed by file name
func (o *Output) Map() map[string]string {
	m := make(map[string]string, len(o.files))
	for _, f := range o.files {
		m[f.Name] = f.Content
	}
	return m
}

// Get returns the content of the named file
func (o *Output) Get(name string) (string, bool) {
	for _, f := range o.files {
		if f.Name == name {
			return f.Content, true
		}
	}
	return "", false
}

// Concat joins every file into one document, in generation order
func (o *Output) Concat() string {
	parts := make([]string, 0, len(o.files))
	for _, f := range o.files {
		parts = append(parts, f.Content)
	}
	return strings.Join(parts, "\n")
}

func (o *Output) Len() int {
	return len(o.files)
}
