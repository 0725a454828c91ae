package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/atinylittleshell/gsuggest/pkg/suggest"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_PROMPT           = "> "
	DEFAULT_ASSISTANT_HEIGHT = 6
	DEFAULT_LISTEN_ADDR      = "127.0.0.1:8080"
)

// Environment variables that override the config file.
const (
	ENV_URL       = "GSUGGEST_URL"
	ENV_LOG_LEVEL = "GSUGGEST_LOG_LEVEL"
	ENV_HEIGHT    = "GSUGGEST_ASSISTANT_HEIGHT"
)

// Config is the application configuration, usually read from
// ~/.config/gsuggest/config.yaml.
type Config struct {
	// URL is the endpoint prefix the query is appended to.
	URL string `yaml:"url" toml:"url"`

	Options  suggest.Options   `yaml:"options" toml:"options"`
	Template string            `yaml:"template" toml:"template"`
	Headers  map[string]string `yaml:"headers" toml:"headers"`

	// AssistantHeight is the number of candidate rows shown at once.
	AssistantHeight int `yaml:"assistantHeight" toml:"assistantHeight"`

	Prompt      string `yaml:"prompt" toml:"prompt"`
	Placeholder string `yaml:"placeholder" toml:"placeholder"`
	Mouse       bool   `yaml:"mouse" toml:"mouse"`
	LogLevel    string `yaml:"logLevel" toml:"logLevel"`

	// Record keeps committed selections in the selections database.
	Record bool `yaml:"record" toml:"record"`

	Serve ServeConfig `yaml:"serve" toml:"serve"`
}

// ServeConfig configures the demo endpoint.
type ServeConfig struct {
	Addr       string `yaml:"addr" toml:"addr"`
	Candidates string `yaml:"candidates" toml:"candidates"`
	ArrayName  string `yaml:"arrayName" toml:"arrayName"`
	Field      string `yaml:"field" toml:"field"`
	Limit      int    `yaml:"limit" toml:"limit"`
	Watch      bool   `yaml:"watch" toml:"watch"`
}

func Default() Config {
	return Config{
		Options:         suggest.DefaultOptions(),
		AssistantHeight: DEFAULT_ASSISTANT_HEIGHT,
		Prompt:          DEFAULT_PROMPT,
		LogLevel:        "info",
		Record:          true,
		Serve: ServeConfig{
			Addr:  DEFAULT_LISTEN_ADDR,
			Field: suggest.DefaultMatchWith,
			Limit: 10,
		},
	}
}

// Load reads the config file at path on top of the defaults and applies
// environment overrides. A missing file is not an error unless required is
// set, which callers use for paths the user passed explicitly.
func Load(path string, required bool) (Config, error) {
	return load(path, required, os.LookupEnv)
}

func load(path string, required bool, lookupEnv func(string) (string, bool)) (Config, error) {
	config := Default()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, content, &config); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if url, ok := lookupEnv(ENV_URL); ok && url != "" {
		config.URL = url
	}
	if level, ok := lookupEnv(ENV_LOG_LEVEL); ok && level != "" {
		config.LogLevel = level
	}
	if height, ok := lookupEnv(ENV_HEIGHT); ok && height != "" {
		parsed, err := strconv.Atoi(height)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", ENV_HEIGHT, height, err)
		}
		config.AssistantHeight = parsed
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// decode picks the format from the file extension. Anything that is not
// .toml is read as YAML.
func decode(path string, content []byte, config *Config) error {
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		_, err := toml.Decode(string(content), config)
		return err
	}
	return yaml.Unmarshal(content, config)
}

func (c Config) Validate() error {
	if err := c.Options.Validate(); err != nil {
		return err
	}
	if c.AssistantHeight <= 0 {
		return fmt.Errorf("assistantHeight must be positive, got %d", c.AssistantHeight)
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid logLevel %q: %w", c.LogLevel, err)
	}
	return nil
}

// GetLogLevel returns the configured level, falling back to info.
func (c Config) GetLogLevel() zap.AtomicLevel {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return level
}

// Header returns the configured request headers.
func (c Config) Header() http.Header {
	header := http.Header{}
	for name, value := range c.Headers {
		header.Set(name, value)
	}
	return header
}
