package config

import (
	"fmt"
	"sort"

	"github.com/knadh/koanf/v2"
)

// Delim separates segments of a config key path (e.g. "api.model").
const Delim = "."

// SourceKind identifies where a configuration value came from.
type SourceKind string

const (
	SourceDefault  SourceKind = "default"
	SourceEnv      SourceKind = "env"
	SourceUser     SourceKind = "user"
	SourceProject  SourceKind = "project"
	SourceOverride SourceKind = "override"
)

// Source is a read-only snapshot of one configuration layer: a flat mapping of
// normalized keys to string values plus the layer's identity. Building a
// Source (reading files or the environment) is the caller's job; Resolve
// never touches the filesystem or environment.
type Source struct {
	Kind   SourceKind
	Path   string // file path for file-backed sources, informational
	Values map[string]string
}

// Resolved is the merged view over an ordered set of sources.
type Resolved struct {
	k       *koanf.Koanf
	origins map[string]SourceKind
}

// Resolve merges sources into a single flat configuration. Sources are given
// in ascending precedence: a key present in a later source shadows earlier
// definitions, and per-invocation overrides shadow everything. Absent keys
// fall through to earlier sources. Resolution is pure and deterministic.
func Resolve(sources []Source, overrides map[string]string) *Resolved {
	k := koanf.New(Delim)
	origins := make(map[string]SourceKind)

	for _, src := range sources {
		setAll(k, origins, src.Values, src.Kind)
	}
	if len(overrides) > 0 {
		setAll(k, origins, overrides, SourceOverride)
	}

	return &Resolved{k: k, origins: origins}
}

// setAll applies a value map in sorted key order so resolution output is
// stable regardless of map iteration order.
func setAll(k *koanf.Koanf, origins map[string]SourceKind, values map[string]string, kind SourceKind) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		normalized := NormalizeKey(key)
		if normalized == "" {
			continue
		}
		k.Set(normalized, values[key])
		origins[normalized] = kind
	}
}

// Get returns the resolved string value for a key, or "" when unset.
func (r *Resolved) Get(key string) string {
	return r.k.String(NormalizeKey(key))
}

// Has reports whether a key is defined in any source.
func (r *Resolved) Has(key string) bool {
	return r.k.Exists(NormalizeKey(key))
}

// Origin reports which source supplied the winning value for a key.
func (r *Resolved) Origin(key string) (SourceKind, bool) {
	kind, ok := r.origins[NormalizeKey(key)]
	return kind, ok
}

// All returns every resolved key-value pair as flat strings.
func (r *Resolved) All() map[string]string {
	flat := r.k.All()
	out := make(map[string]string, len(flat))
	for key, value := range flat {
		out[key] = fmt.Sprintf("%v", value)
	}
	return out
}

// Keys returns all resolved keys in sorted order.
func (r *Resolved) Keys() []string {
	keys := r.k.Keys()
	sort.Strings(keys)
	return keys
}

// Settings unmarshals the resolved configuration into the typed Settings
// view. Type coercion (string to int/float/bool) happens here, at the
// consumer boundary, not during resolution.
func (r *Resolved) Settings() (*Settings, error) {
	var s Settings
	if err := r.k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}
	return &s, nil
}
