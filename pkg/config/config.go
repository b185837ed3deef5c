package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultQuality             = 85
	DefaultStylesheetThreshold = 50000
	DefaultWatchDebounceMS     = 500
	DefaultLogLevel            = "warn"
)

type Config struct {
	// Processing
	Kinds        []string `yaml:"kinds"`
	DryRun       bool     `yaml:"dry_run"`
	Quality      int      `yaml:"quality"`
	ForceImages  bool     `yaml:"force_images"`
	BackupSuffix string   `yaml:"backup_suffix"`
	Exclude      []string `yaml:"exclude"`
	Precompress  []string `yaml:"precompress"`

	// Advisories
	Advisories          bool  `yaml:"advisories"`
	StylesheetThreshold int64 `yaml:"stylesheet_threshold"`

	// Watch
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	// Output
	LogLevel   string `yaml:"log_level"`
	ColorTheme string `yaml:"color_theme"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		Kinds:               []string{"css", "js", "html", "image"},
		DryRun:              false,
		Quality:             DefaultQuality,
		ForceImages:         false,
		BackupSuffix:        ".backup",
		Exclude:             []string{"**/node_modules/**", "**/.git/**"},
		Precompress:         []string{},
		Advisories:          true,
		StylesheetThreshold: DefaultStylesheetThreshold,
		WatchDebounceMS:     DefaultWatchDebounceMS,
		LogLevel:            DefaultLogLevel,
		ColorTheme:          "auto",
	}
}

// Load reads configuration from the specified file path, then applies
// WEBOPT_* environment overrides
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// A missing file means defaults
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides values from the environment
func (c *Config) applyEnv() error {
	if v := os.Getenv("WEBOPT_QUALITY"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid WEBOPT_QUALITY %q: %w", v, err)
		}
		c.Quality = q
	}
	if v := os.Getenv("WEBOPT_KINDS"); v != "" {
		c.Kinds = SplitList(v)
	}
	if v := os.Getenv("WEBOPT_DRY_RUN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid WEBOPT_DRY_RUN %q: %w", v, err)
		}
		c.DryRun = b
	}
	if v := os.Getenv("WEBOPT_PRECOMPRESS"); v != "" {
		c.Precompress = SplitList(v)
	}
	if v := os.Getenv("WEBOPT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// applyDefaults fills in values left empty by the file
func (c *Config) applyDefaults() {
	if len(c.Kinds) == 0 {
		c.Kinds = []string{"css", "js", "html", "image"}
	}
	if c.Quality == 0 {
		c.Quality = DefaultQuality
	}
	if c.BackupSuffix == "" {
		c.BackupSuffix = ".backup"
	}
	if c.StylesheetThreshold <= 0 {
		c.StylesheetThreshold = DefaultStylesheetThreshold
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = DefaultWatchDebounceMS
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.ColorTheme == "" {
		c.ColorTheme = "auto"
	}
	if c.Precompress == nil {
		c.Precompress = []string{}
	}
}

// Validate checks values that cannot be silently defaulted
func (c *Config) Validate() error {
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", c.Quality)
	}

	for _, k := range c.Kinds {
		if !isValidKind(k) {
			return fmt.Errorf("unknown asset kind %q (valid: css, js, html, image)", k)
		}
	}

	for _, p := range c.Precompress {
		switch strings.ToLower(p) {
		case "gzip", "gz", "brotli", "br", "zstd", "zst":
		default:
			return fmt.Errorf("unknown precompression algorithm %q (valid: gzip, brotli, zstd)", p)
		}
	}

	return nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SplitList splits a comma separated flag or env value
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isValidKind(kind string) bool {
	validKinds := []string{"css", "js", "javascript", "html", "htm", "image", "images", "img"}
	for _, valid := range validKinds {
		if strings.ToLower(strings.TrimSpace(kind)) == valid {
			return true
		}
	}
	return false
}
