package config

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/knadh/koanf/maps"
)

// KVParser implements koanf.Parser for scribe's line-oriented config format:
// one `key=value` assignment per line, `#` comments and blank lines ignored,
// values optionally wrapped in single or double quotes.
//
// A line without an `=` separator is skipped with a warning written to the
// configured diagnostics writer; it is never a fatal parse error.
type KVParser struct {
	warn   io.Writer
	origin string
}

// KVOption configures a KVParser.
type KVOption func(*KVParser)

// WithWarnings directs malformed-line diagnostics to w, attributing them to
// origin (typically the file path). A nil writer discards diagnostics.
func WithWarnings(w io.Writer, origin string) KVOption {
	return func(p *KVParser) {
		p.warn = w
		p.origin = origin
	}
}

// NewKVParser creates a parser for the key=value config format.
func NewKVParser(opts ...KVOption) *KVParser {
	p := &KVParser{warn: io.Discard}
	for _, opt := range opts {
		opt(p)
	}
	if p.warn == nil {
		p.warn = io.Discard
	}
	return p
}

// Unmarshal parses key=value bytes into a nested map keyed by dot segments,
// the shape koanf expects from a Parser.
func (p *KVParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	flat, err := p.parse(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	generic := make(map[string]interface{}, len(flat))
	for k, v := range flat {
		generic[k] = v
	}
	return maps.Unflatten(generic, Delim), nil
}

// Marshal renders a config map back to the key=value format with keys sorted,
// quoting values that would otherwise lose whitespace or read as a comment.
func (p *KVParser) Marshal(m map[string]interface{}) ([]byte, error) {
	flat, _ := maps.Flatten(m, nil, Delim)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		v := fmt.Sprintf("%v", flat[k])
		if needsQuoting(v) {
			v = `"` + v + `"`
		}
		fmt.Fprintf(&buf, "%s=%s\n", k, v)
	}
	return buf.Bytes(), nil
}

// parse reads assignments line by line into a flat map of normalized keys.
func (p *KVParser) parse(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, rawValue, found := strings.Cut(line, "=")
		if !found {
			p.warnf("line %d: skipping malformed entry (no '=' separator): %q", lineNo, line)
			continue
		}

		key = NormalizeKey(key)
		if key == "" {
			p.warnf("line %d: skipping entry with empty key", lineNo)
			continue
		}

		values[key] = unquote(strings.TrimSpace(rawValue))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return values, nil
}

func (p *KVParser) warnf(format string, args ...any) {
	prefix := "Warning: "
	if p.origin != "" {
		prefix = fmt.Sprintf("Warning: %s: ", p.origin)
	}
	fmt.Fprintf(p.warn, prefix+format+"\n", args...)
}

// unquote strips one level of surrounding double or single quotes.
// Unquoted values are used verbatim after trimming.
func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

func needsQuoting(v string) bool {
	if v == "" {
		return false
	}
	return v != strings.TrimSpace(v) || strings.HasPrefix(v, "#") ||
		strings.HasPrefix(v, `"`) || strings.HasPrefix(v, `'`)
}

// NormalizeKey lowers a config key to canonical lowercase-dot form.
// Keys are case-insensitive on input.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
