// Package config loads provider configuration from a YAML file and resolves
// it into a wire.ProviderConfig. The API key itself never lives in the file;
// the file names the environment variable that holds it, and resolution
// happens here at the edge so the core packages only ever see a resolved
// string value.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JTan2231/wire"
	"github.com/JTan2231/wire/adapter"
)

// Sentinel errors for configuration loading.
var (
	ErrKeyEnvUnset = errors.New("config: api key environment variable is not set")
)

// Default environment variable per provider, used when api_key_env is omitted.
var defaultKeyEnv = map[adapter.Provider]string{
	adapter.ProviderOpenAI:    "OPENAI_API_KEY",
	adapter.ProviderAnthropic: "ANTHROPIC_API_KEY",
	adapter.ProviderGemini:    "GEMINI_API_KEY",
}

// File mirrors the YAML configuration document.
type File struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Stream    bool   `yaml:"stream"`
	MaxTokens int    `yaml:"max_tokens"`
	Thinking  string `yaml:"thinking"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates a YAML configuration document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	if f.Provider == "" && f.Model == "" {
		return errors.New("config: provider or model is required")
	}
	if f.Provider != "" {
		if _, err := adapter.ParseProvider(f.Provider); err != nil {
			return err
		}
	}
	if f.Thinking != "" {
		if _, err := wire.ParseThinkingLevel(f.Thinking); err != nil {
			return err
		}
	}
	if f.BaseURL != "" {
		if _, err := wire.ParseEndpoint(f.BaseURL); err != nil {
			return err
		}
	}
	return nil
}

// ProviderTag returns the configured provider, inferring it from the model
// when the provider field is omitted.
func (f *File) ProviderTag() (adapter.Provider, error) {
	if f.Provider != "" {
		return adapter.ParseProvider(f.Provider)
	}
	return adapter.ProviderForModel(f.Model)
}

// Resolve produces a wire.ProviderConfig, reading the API key from the
// configured environment variable (or the provider's conventional one).
func (f *File) Resolve() (wire.ProviderConfig, error) {
	provider, err := f.ProviderTag()
	if err != nil {
		return wire.ProviderConfig{}, err
	}

	keyEnv := f.APIKeyEnv
	if keyEnv == "" {
		keyEnv = defaultKeyEnv[provider]
	}
	key := os.Getenv(keyEnv)
	if key == "" {
		return wire.ProviderConfig{}, fmt.Errorf("%w: %s", ErrKeyEnvUnset, keyEnv)
	}

	cfg := wire.ProviderConfig{
		APIKey:    key,
		Model:     f.Model,
		Stream:    f.Stream,
		MaxTokens: f.MaxTokens,
	}
	if f.Thinking != "" {
		cfg.Thinking, _ = wire.ParseThinkingLevel(f.Thinking)
	}
	if f.BaseURL != "" {
		ep, err := wire.ParseEndpoint(f.BaseURL)
		if err != nil {
			return wire.ProviderConfig{}, err
		}
		cfg.Endpoint = &ep
	}
	return cfg, nil
}
