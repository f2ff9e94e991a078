package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/devpware/codeatlas/internal/parser"
)

// ProjectConfig holds project-level settings loaded from codeatlas.yml.
type ProjectConfig struct {
	// ProjectName overrides the directory-derived project name.
	ProjectName string `yaml:"project_name,omitempty"`

	// Parser forces a parser id instead of auto-detection.
	Parser string `yaml:"parser,omitempty"`

	// Workers sets the parallel parse width; 0 means serial.
	Workers int `yaml:"workers,omitempty"`

	ExcludeDirs     []string          `yaml:"exclude_dirs,omitempty"`
	ExcludePatterns []string          `yaml:"exclude_patterns,omitempty"`
	MaxDepth        int               `yaml:"max_depth,omitempty"`
	HashContents    bool              `yaml:"hash_contents,omitempty"`
	UseGitignore    bool              `yaml:"use_gitignore,omitempty"`
	LanguageOptions map[string]string `yaml:"language_options,omitempty"`
}

// Load attempts to read codeatlas.yml or codeatlas.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists; a file that exists but does not parse is an error.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"codeatlas.yml", "codeatlas.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// ParserConfig folds the project settings into a parse config, starting
// from the cross-language baseline.
func (c *ProjectConfig) ParserConfig() parser.Config {
	pc := parser.DefaultConfig()
	pc.ExcludeDirs = append(pc.ExcludeDirs, c.ExcludeDirs...)
	pc.ExcludePatterns = append(pc.ExcludePatterns, c.ExcludePatterns...)
	pc.MaxDepth = c.MaxDepth
	pc.HashContents = c.HashContents
	pc.UseGitignore = c.UseGitignore
	if len(c.LanguageOptions) > 0 {
		pc.LanguageOptions = make(map[string]string, len(c.LanguageOptions))
		for k, v := range c.LanguageOptions {
			pc.LanguageOptions[k] = v
		}
	}
	return pc
}
