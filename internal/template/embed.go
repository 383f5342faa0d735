package template

import (
	"embed"
	"sort"
	"strings"
)

// builtinFS embeds the built-in template set, the last stop in the
// resolution chain.
//
//go:embed builtin/*.md
var builtinFS embed.FS

// Builtin returns the raw bytes of a built-in template by filename.
func Builtin(name string) ([]byte, error) {
	return builtinFS.ReadFile("builtin/" + name)
}

// BuiltinNames lists the built-in template filenames in sorted order.
func BuiltinNames() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// BuiltinTemplate loads a built-in template with its metadata split out.
func BuiltinTemplate(name string) (*Template, error) {
	raw, err := Builtin(name)
	if err != nil {
		return nil, err
	}
	return newTemplate(name, OriginBuiltin, "", raw), nil
}
