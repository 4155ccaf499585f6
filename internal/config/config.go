package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/markis/gh-coach/internal/typer"
)

const (
	configDirName = "gh-coach"
	defaultConfig = ".config"
)

var configFiles = []string{
	"config.yaml",
	"config.yml",
	"config.toml",
}

// Config represents the structure of the configuration file used by the application.
type Config struct {
	Model   string            `yaml:"model" toml:"model" default:"gpt-4o"`
	Render  Render            `yaml:"render" toml:"render"`
	Typing  Typing            `yaml:"typing" toml:"typing"`
	Prompts map[string]Prompt `yaml:"prompts" toml:"prompts"`
}

// Render controls terminal output.
type Render struct {
	// Format is "markdown" or "plain".
	Format string `yaml:"format" toml:"format" default:"markdown"`
	Wrap   int    `yaml:"wrap" toml:"wrap" default:"120"`
}

// Typing controls the simulated typing animation.
type Typing struct {
	Profile  string        `yaml:"profile" toml:"profile" default:"human"`
	MinDelay time.Duration `yaml:"min_delay" toml:"min_delay"`
	MaxDelay time.Duration `yaml:"max_delay" toml:"max_delay"`
}

// Prompt is a predefined command exposed as a subcommand.
type Prompt struct {
	Prompt string `yaml:"prompt" toml:"prompt"`
	Model  string `yaml:"model" toml:"model"`
}

// UnmarshalYAML accepts either a bare string or a {prompt, model} mapping.
func (p *Prompt) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		p.Prompt = node.Value
		return nil
	}
	type plain Prompt
	return node.Decode((*plain)(p))
}

// UnmarshalTOML accepts either a bare string or a {prompt, model} table.
func (p *Prompt) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		p.Prompt = v
	case map[string]any:
		p.Prompt, _ = v["prompt"].(string)
		p.Model, _ = v["model"].(string)
	default:
		return fmt.Errorf("prompt must be a string or a table, got %T", v)
	}
	return nil
}

// TypingProfile resolves the configured profile and any bound overrides.
func (c *Config) TypingProfile() (typer.Profile, error) {
	profile, ok := typer.ProfileByName(c.Typing.Profile)
	if !ok {
		return typer.Profile{}, fmt.Errorf("%w: unknown profile %q", typer.ErrInvalidProfile, c.Typing.Profile)
	}
	profile = profile.WithBounds(c.Typing.MinDelay, c.Typing.MaxDelay)
	if err := profile.Validate(); err != nil {
		return typer.Profile{}, err
	}
	return profile, nil
}

// PlainText reports whether markdown rendering is disabled.
func (c *Config) PlainText() bool {
	return strings.EqualFold(c.Render.Format, "plain")
}

// configResult is a struct used to return the configuration and any error that occurs during loading.
type configResult struct {
	config *Config
	err    error
}

// newDefaultConfig creates a new default configuration.
func newDefaultConfig() *Config {
	cfg := &Config{Prompts: map[string]Prompt{}}
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("invalid config defaults: %v", err))
	}
	return cfg
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return newDefaultConfig()
}

// getConfigPath retrieves the path to the configuration directory based on the XDG_CONFIG_HOME environment variable.
func getConfigPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configHome = filepath.Join(home, defaultConfig)
	}

	return filepath.Join(configHome, configDirName), nil
}

// tryLoadConfig attempts to load a configuration file from the specified path.
func tryLoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := newDefaultConfig()
	if filepath.Ext(path) == ".toml" {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Prompts == nil {
		cfg.Prompts = map[string]Prompt{}
	}

	return cfg, nil
}

// LoadConfig loads the configuration from the user's home directory, with a timeout.
func LoadConfig(ctx context.Context) (*Config, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result := make(chan configResult, 1)

	go func() {
		cfg, err := loadConfigFiles(ctx)
		result <- configResult{config: cfg, err: err}
	}()

	done := ctx.Done()
	select {
	case <-done:
		return nil, ctx.Err()
	case r := <-result:
		return r.config, r.err
	}
}

// loadConfigFiles loads configuration files from the user's home directory.
func loadConfigFiles(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error before loading config: %w", err)
	}

	configDir, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Return default config early if directory doesn't exist
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return newDefaultConfig(), nil
	}

	for _, filename := range configFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cfg, err := tryLoadConfig(filepath.Join(configDir, filename))
		if err == nil {
			return cfg, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config from %s: %w", filename, err)
		}
	}

	return newDefaultConfig(), nil
}
