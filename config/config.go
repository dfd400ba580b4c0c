// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads the optional YAML configuration file used by the
// command-line tools. Everything in it can also be set through flags;
// the file only provides defaults so repeated invocations against the
// same corpus stay short.
package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/paperlens/ai"
)

// Embedding backend kinds accepted by the CLI.
const (
	KindOpenAI   = "openai"
	KindGoogleAI = "googleai"
	KindMock     = "mock"
)

// EmbeddingConfig selects and configures the embedding backend.
type EmbeddingConfig struct {
	// Kind is one of "openai", "googleai", or "mock".
	Kind string `yaml:"kind,omitempty"`

	// Host is the base URL of an OpenAI-compatible service. Ignored by
	// the googleai and mock backends.
	Host string `yaml:"host,omitempty"`

	Model     string `yaml:"model,omitempty"`
	Dimension int    `yaml:"dimension,omitempty"`

	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never lives in the config file.
	APIKeyEnv string `yaml:"api_key_env,omitempty"`

	MaxInputTokens    int     `yaml:"max_input_tokens,omitempty"`
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"`
	Burst             int     `yaml:"burst,omitempty"`
}

// SearchDefaults are applied to search commands when the corresponding
// flags are absent.
type SearchDefaults struct {
	Venues []string `yaml:"venues,omitempty"`
	Years  []int    `yaml:"years,omitempty"`
	TopK   int      `yaml:"top_k,omitempty"`
}

// Config is the root of the CLI configuration file.
type Config struct {
	DBPath    string          `yaml:"db_path,omitempty"`
	Embedding EmbeddingConfig `yaml:"embedding,omitempty"`
	Search    SearchDefaults  `yaml:"search,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	base := ai.DefaultConfig()
	return &Config{
		DBPath: "./papers_db",
		Embedding: EmbeddingConfig{
			Kind:           KindOpenAI,
			Host:           base.Host,
			Model:          base.Model,
			Dimension:      base.Dimension,
			MaxInputTokens: base.MaxInputTokens,
		},
		Search: SearchDefaults{TopK: 10},
	}
}

// Load reads the configuration file at path. A missing file is not an
// error; the defaults are returned instead, so the tools work out of the
// box against a local embedding service.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

var validKinds = []string{KindOpenAI, KindGoogleAI, KindMock}

// Validate checks the fields the YAML layer cannot.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if !slices.Contains(validKinds, c.Embedding.Kind) {
		return fmt.Errorf("embedding.kind %q: must be one of openai, googleai, mock", c.Embedding.Kind)
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding.dimension must be positive")
	}
	if c.Search.TopK <= 0 {
		return fmt.Errorf("search.top_k must be positive")
	}
	return nil
}

// APIKey resolves the embedding API key from the configured environment
// variable. Empty when no variable is configured or set.
func (c *Config) APIKey() string {
	if c.Embedding.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Embedding.APIKeyEnv)
}

// AIConfig converts the embedding section into an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithHost(c.Embedding.Host),
		ai.WithModel(c.Embedding.Model),
		ai.WithDimension(c.Embedding.Dimension),
		ai.WithMaxInputTokens(c.Embedding.MaxInputTokens),
	}
	if key := c.APIKey(); key != "" {
		opts = append(opts, ai.WithAPIKey(key))
	}
	if c.Embedding.RequestsPerSecond > 0 {
		opts = append(opts, ai.WithRateLimit(c.Embedding.RequestsPerSecond, c.Embedding.Burst))
	}
	return ai.NewConfig(opts...)
}
