package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds the standard four-layer source list with one key defined
// everywhere, for precedence tests.
func chain(key string, def, env, user, project string) []Source {
	sources := []Source{
		{Kind: SourceDefault, Values: map[string]string{key: def}},
	}
	if env != "" {
		sources = append(sources, Source{Kind: SourceEnv, Values: map[string]string{key: env}})
	} else {
		sources = append(sources, Source{Kind: SourceEnv, Values: map[string]string{}})
	}
	if user != "" {
		sources = append(sources, Source{Kind: SourceUser, Values: map[string]string{key: user}})
	} else {
		sources = append(sources, Source{Kind: SourceUser, Values: map[string]string{}})
	}
	if project != "" {
		sources = append(sources, Source{Kind: SourceProject, Values: map[string]string{key: project}})
	} else {
		sources = append(sources, Source{Kind: SourceProject, Values: map[string]string{}})
	}
	return sources
}

func TestResolve_PrecedenceChain(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		sources    []Source
		overrides  map[string]string
		want       string
		wantOrigin SourceKind
	}{
		"override wins over everything": {
			sources:    chain("api.model", "d", "c", "b", "a"),
			overrides:  map[string]string{"api.model": "o"},
			want:       "o",
			wantOrigin: SourceOverride,
		},
		"project wins when no override": {
			sources:    chain("api.model", "d", "c", "b", "a"),
			want:       "a",
			wantOrigin: SourceProject,
		},
		"user wins when project absent": {
			sources:    chain("api.model", "d", "c", "b", ""),
			want:       "b",
			wantOrigin: SourceUser,
		},
		"env wins when user and project absent": {
			sources:    chain("api.model", "d", "c", "", ""),
			want:       "c",
			wantOrigin: SourceEnv,
		},
		"default when nothing else defines the key": {
			sources:    chain("api.model", "d", "", "", ""),
			want:       "d",
			wantOrigin: SourceDefault,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			resolved := Resolve(tt.sources, tt.overrides)
			assert.Equal(t, tt.want, resolved.Get("api.model"))

			origin, ok := resolved.Origin("api.model")
			require.True(t, ok)
			assert.Equal(t, tt.wantOrigin, origin)
		})
	}
}

func TestResolve_EnvShadowsDefault(t *testing.T) {
	t.Parallel()

	resolved := Resolve([]Source{
		{Kind: SourceDefault, Values: map[string]string{"api.model": "x"}},
		{Kind: SourceEnv, Values: map[string]string{"api.model": "y"}},
	}, nil)

	assert.Equal(t, "y", resolved.Get("api.model"))
}

func TestResolve_Deterministic(t *testing.T) {
	t.Parallel()

	sources := []Source{
		DefaultSource(),
		{Kind: SourceProject, Values: map[string]string{
			"api.model":     "m",
			"project.title": "t",
			"output.mode":   "append",
		}},
	}

	first := Resolve(sources, nil).All()
	second := Resolve(sources, nil).All()
	assert.Equal(t, first, second, "resolving the same sources twice yields identical output")
}

func TestResolve_KeysCaseInsensitive(t *testing.T) {
	t.Parallel()

	resolved := Resolve([]Source{
		{Kind: SourceProject, Values: map[string]string{"API.Model": "gpt"}},
	}, nil)

	assert.Equal(t, "gpt", resolved.Get("api.model"))
	assert.Equal(t, "gpt", resolved.Get("API.MODEL"))
	assert.True(t, resolved.Has("Api.Model"))
}

func TestResolve_AbsenceFallsThrough(t *testing.T) {
	t.Parallel()

	resolved := Resolve([]Source{
		{Kind: SourceDefault, Values: map[string]string{"a.one": "1", "a.two": "2"}},
		{Kind: SourceProject, Values: map[string]string{"a.two": "22"}},
	}, nil)

	assert.Equal(t, "1", resolved.Get("a.one"), "key absent in higher source keeps lower value")
	assert.Equal(t, "22", resolved.Get("a.two"))
}

func TestResolved_Settings(t *testing.T) {
	t.Parallel()

	resolved := Resolve([]Source{
		DefaultSource(),
		{Kind: SourceProject, Values: map[string]string{
			"api.temperature": "0.2",
			"api.timeout":     "30",
			"project.title":   "demo",
		}},
	}, nil)

	settings, err := resolved.Settings()
	require.NoError(t, err)

	assert.InDelta(t, 0.2, settings.API.Temperature, 1e-9)
	assert.Equal(t, 30, settings.API.Timeout)
	assert.Equal(t, "demo", settings.Project.Title)
	assert.Equal(t, "auto", settings.Output.Mode)
	assert.Equal(t, "CHANGELOG.md", settings.Changelog.File)
}
