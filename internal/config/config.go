// Package config loads the optional per-corpus settings file.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/agentchanti/kbregistry/pkg/core"
)

const (
	// ConfigFileName is the name of the settings file (without
	// extension) looked up at the corpus root.
	ConfigFileName = ".kbreg"
	// ConfigFileExt is the settings file extension.
	ConfigFileExt = "yaml"
)

// Audit tunes the advisory quality checks.
type Audit struct {
	MaxWords             int      `mapstructure:"max_words"`
	MinErrorsPerLanguage int      `mapstructure:"min_errors_per_language"`
	ExpectedLanguages    []string `mapstructure:"expected_languages"`
}

// Config is the per-corpus settings document. Every field has a
// default; a missing settings file is not an error.
type Config struct {
	// MarkdownDirs maps content directory names to category values.
	MarkdownDirs map[string]string `mapstructure:"markdown_dirs"`
	// ErrorsDir holds the YAML error dictionaries.
	ErrorsDir string `mapstructure:"errors_dir"`
	// Manifest is the manifest filename at the corpus root.
	Manifest string `mapstructure:"manifest"`
	// OutputDir receives release archives.
	OutputDir string `mapstructure:"output_dir"`
	Audit     Audit  `mapstructure:"audit"`
}

// DefaultConfig returns the stock registry layout and thresholds.
func DefaultConfig() Config {
	rules := core.DefaultAuditRules()
	return Config{
		MarkdownDirs: map[string]string{
			"patterns":   string(core.CategoryPattern),
			"adrs":       string(core.CategoryADR),
			"docs":       string(core.CategoryDoc),
			"behavioral": string(core.CategoryBehavioral),
		},
		ErrorsDir: "errors",
		Manifest:  "manifest.json",
		OutputDir: "dist",
		Audit: Audit{
			MaxWords:             rules.MaxWords,
			MinErrorsPerLanguage: rules.MinErrorsPerLanguage,
			ExpectedLanguages:    rules.ExpectedLanguages,
		},
	}
}

// Load reads the settings file at the corpus root, falling back to
// defaults when the file does not exist.
func Load(root string) (Config, error) {
	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileExt)
	v.AddConfigPath(root)

	defaults := DefaultConfig()
	v.SetDefault("markdown_dirs", defaults.MarkdownDirs)
	v.SetDefault("errors_dir", defaults.ErrorsDir)
	v.SetDefault("manifest", defaults.Manifest)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("audit.max_words", defaults.Audit.MaxWords)
	v.SetDefault("audit.min_errors_per_language", defaults.Audit.MinErrorsPerLanguage)
	v.SetDefault("audit.expected_languages", defaults.Audit.ExpectedLanguages)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read %s.%s: %w", ConfigFileName, ConfigFileExt, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode settings: %w", err)
	}
	return cfg, nil
}

// CategoryDirs converts the configured directory mapping into domain
// categories, rejecting values outside the closed category set.
func (c Config) CategoryDirs() (map[string]core.Category, error) {
	out := make(map[string]core.Category, len(c.MarkdownDirs))
	for dir, cat := range c.MarkdownDirs {
		if !core.ValidCategory(cat) {
			return nil, fmt.Errorf("markdown_dirs.%s: unknown category %q", dir, cat)
		}
		out[dir] = core.Category(cat)
	}
	return out, nil
}

// AuditRules converts the audit settings into domain rules.
func (c Config) AuditRules() core.AuditRules {
	return core.AuditRules{
		MaxWords:             c.Audit.MaxWords,
		MinErrorsPerLanguage: c.Audit.MinErrorsPerLanguage,
		ExpectedLanguages:    c.Audit.ExpectedLanguages,
	}
}
