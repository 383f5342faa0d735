package template

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Meta is the optional YAML frontmatter carried by a template.
// It is display metadata only and never reaches the rendered output.
type Meta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

var frontmatterDelim = []byte("---")

// SplitFrontmatter separates a `---` fenced YAML frontmatter block from the
// template body. Documents without a leading fence are returned unchanged
// with empty metadata, as is a fence that never closes or fails to parse.
func SplitFrontmatter(raw []byte) (Meta, []byte) {
	trimmed := bytes.TrimLeft(raw, "\n")
	if !bytes.HasPrefix(trimmed, frontmatterDelim) {
		return Meta{}, raw
	}

	rest := trimmed[len(frontmatterDelim):]
	if len(rest) > 0 && rest[0] == '\r' {
		rest = rest[1:]
	}
	if len(rest) == 0 || rest[0] != '\n' {
		return Meta{}, raw
	}
	rest = rest[1:]

	end := bytes.Index(rest, append([]byte("\n"), frontmatterDelim...))
	if end < 0 {
		return Meta{}, raw
	}

	block := rest[:end]
	body := rest[end+1+len(frontmatterDelim):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))

	var meta Meta
	if err := yaml.Unmarshal(block, &meta); err != nil {
		return Meta{}, raw
	}
	return meta, body
}
