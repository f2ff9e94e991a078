package parser

// Config controls a parse run. Zero values mean "use the parser's
// defaults"; DefaultConfig fills in the cross-language baseline.
type Config struct {
	// IncludeExtensions limits the scan to these extensions (lowercase, no
	// dot). Empty means the parser's own default set.
	IncludeExtensions []string `json:"include_extensions,omitempty" yaml:"include_extensions"`

	// ExcludeDirs prunes whole directory subtrees by base name.
	ExcludeDirs []string `json:"exclude_dirs,omitempty" yaml:"exclude_dirs"`

	// ExcludePatterns prunes paths matching glob patterns.
	ExcludePatterns []string `json:"exclude_patterns,omitempty" yaml:"exclude_patterns"`

	// Encoding is the expected source encoding. Only "utf-8" is honored;
	// other values are recorded as file warnings.
	Encoding string `json:"encoding,omitempty" yaml:"encoding"`

	// ParseExternalDeps includes vendored third-party code in the scan.
	ParseExternalDeps bool `json:"parse_external_deps,omitempty" yaml:"parse_external_deps"`

	// MaxDepth caps directory recursion; 0 means unlimited.
	MaxDepth int `json:"max_depth,omitempty" yaml:"max_depth"`

	// HashContents computes a content hash for every scanned file.
	HashContents bool `json:"hash_contents,omitempty" yaml:"hash_contents"`

	// UseGitignore honors .gitignore files found under the root.
	UseGitignore bool `json:"use_gitignore,omitempty" yaml:"use_gitignore"`

	// LanguageOptions carries parser-specific switches.
	LanguageOptions map[string]string `json:"language_options,omitempty" yaml:"language_options"`
}

// DefaultConfig is the baseline shared by all parsers. ExcludeDirs is left
// empty on purpose: an empty list means each parser applies its own
// language-specific exclusions.
func DefaultConfig() Config {
	return Config{Encoding: "utf-8"}
}

// Option returns a language option value, or "".
func (c Config) Option(key string) string {
	return c.LanguageOptions[key]
}
