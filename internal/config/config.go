// Package config loads mdhtml's YAML configuration and maps it onto render
// options and sanitize policies.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdhtml/internal/render"
	"git.home.luguber.info/inful/mdhtml/internal/sanitize"
	"git.home.luguber.info/inful/mdhtml/internal/util/sets"
)

// HTML handling mode names accepted in config files.
const (
	HTMLModeSanitize = "sanitize"
	HTMLModeUnsafe   = "unsafe"
	HTMLModeEscape   = "escape"
)

// Config represents the application configuration.
type Config struct {
	Render RenderConfig `yaml:"render"`
	Output OutputConfig `yaml:"output"`
	Server ServerConfig `yaml:"server"`
}

// RenderConfig selects rendering behavior.
type RenderConfig struct {
	// HTML is one of "sanitize", "unsafe", "escape".
	HTML string `yaml:"html,omitempty"`

	SoftAsHardLineBreak bool `yaml:"soft_as_hard_line_break,omitempty"`

	Sanitize SanitizeConfig `yaml:"sanitize,omitempty"`
}

// SanitizeConfig tunes the allow-list policy used when html is "sanitize".
type SanitizeConfig struct {
	// ReplaceDefaults makes Elements/Attributes the whole policy instead
	// of additions to the built-in one.
	ReplaceDefaults bool     `yaml:"replace_defaults,omitempty"`
	Elements        []string `yaml:"elements,omitempty"`
	Attributes      []string `yaml:"attributes,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Render: RenderConfig{HTML: HTMLModeSanitize},
		Output: OutputConfig{Directory: "./site"},
		Server: ServerConfig{Listen: ":8080"},
	}
}

// Load loads configuration from the specified file. Environment variables
// referenced as ${VAR} in the file are expanded; a .env/.env.local file, if
// present, is loaded first without overriding the process environment.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads the first .env-style file found. Existing process
// environment variables are never overwritten (godotenv.Load semantics).
func loadEnvFiles() {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

// Validate checks field values that cannot be checked by unmarshalling.
func (c *Config) Validate() error {
	switch c.Render.HTML {
	case HTMLModeSanitize, HTMLModeUnsafe, HTMLModeEscape:
	default:
		return fmt.Errorf("render.html: unknown mode %q (want %s, %s or %s)",
			c.Render.HTML, HTMLModeSanitize, HTMLModeUnsafe, HTMLModeEscape)
	}
	if c.Output.Directory == "" {
		return fmt.Errorf("output.directory must not be empty")
	}
	return nil
}

// Policy builds the sanitize policy described by the config: the built-in
// allow-lists extended with any configured names, or exactly the configured
// names when replace_defaults is set.
func (c *Config) Policy() sanitize.Policy {
	s := c.Render.Sanitize
	if s.ReplaceDefaults {
		return sanitize.Policy{
			Elements:   sets.New(s.Elements...),
			Attributes: sets.New(s.Attributes...),
		}
	}
	p := sanitize.DefaultPolicy()
	if len(s.Elements) > 0 {
		p.Elements = p.Elements.Union(sets.New(s.Elements...))
	}
	if len(s.Attributes) > 0 {
		p.Attributes = p.Attributes.Union(sets.New(s.Attributes...))
	}
	return p
}

// RenderOptions maps the config onto render.Options.
func (c *Config) RenderOptions() render.Options {
	opts := render.Options{SoftAsHardLineBreak: c.Render.SoftAsHardLineBreak}
	switch c.Render.HTML {
	case HTMLModeUnsafe:
		opts.HTML = render.ParseUnsafe()
	case HTMLModeEscape:
		opts.HTML = render.DontParse()
	default:
		opts.HTML = render.SanitizeWith(c.Policy())
	}
	return opts
}
