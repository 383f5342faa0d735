package config

// Settings is the typed view over a resolved configuration, for CLI
// consumers that want coerced values instead of raw strings.
type Settings struct {
	API       APISettings      `koanf:"api"`
	Project   ProjectSettings  `koanf:"project"`
	Todos     TodosSettings    `koanf:"todos"`
	Version   VersionSettings  `koanf:"version"`
	Output    OutputSettings   `koanf:"output"`
	Changelog FileTarget       `koanf:"changelog"`
	Release   FileTarget       `koanf:"release"`
	Announce  FileTarget       `koanf:"announce"`
	Templates TemplateSettings `koanf:"templates"`
	Prompt    PromptSettings   `koanf:"prompt"`
}

// APISettings configures the completion provider endpoint.
type APISettings struct {
	URL         string  `koanf:"url"`
	Key         string  `koanf:"key"`
	Model       string  `koanf:"model"`
	Temperature float64 `koanf:"temperature"`
	// Timeout is the request timeout in seconds. 0 disables the timeout.
	Timeout int `koanf:"timeout"`
}

// ProjectSettings identifies the project in rendered documents.
type ProjectSettings struct {
	Title string `koanf:"title"`
}

// TodosSettings configures open-item extraction from diffs.
type TodosSettings struct {
	Pattern string `koanf:"pattern"`
}

// VersionSettings configures version detection.
type VersionSettings struct {
	File    string `koanf:"file"`
	Pattern string `koanf:"pattern"`
}

// OutputSettings carries the default output mode.
type OutputSettings struct {
	Mode string `koanf:"mode"`
}

// FileTarget names the default output file for one document kind.
type FileTarget struct {
	File string `koanf:"file"`
}

// TemplateSettings carries template-search overrides.
type TemplateSettings struct {
	Dir string `koanf:"dir"`
}

// PromptSettings carries free-form prompt guidance.
type PromptSettings struct {
	Rules   string `koanf:"rules"`
	Example string `koanf:"example"`
}
