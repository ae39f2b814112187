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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for inference service implementations.
type Config struct {
	// Host is the base URL for the OpenAI-compatible chat API.
	// Example: "https://openrouter.ai/api/v1"
	Host string

	// APIKey is the bearer token for the inference service.
	APIKey string

	// DefaultModel is used when a request does not name a model.
	// Example: "x-ai/grok-4.1-fast:free"
	DefaultModel string

	// Timeout is the hard wall-clock budget for a single inference call.
	// It must sit strictly inside the enclosing trigger's total budget.
	// Default: 55 seconds.
	Timeout time.Duration

	// MaxTokens caps the model's completion length. Default: 8000.
	MaxTokens int

	// Temperature controls sampling. Default: 0.3 for consistent output.
	Temperature float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the chat API base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithDefaultModel sets the fallback model identifier.
func WithDefaultModel(model string) ConfigOption {
	return func(c *Config) {
		c.DefaultModel = model
	}
}

// WithTimeout sets the hard per-call deadline.
func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxTokens sets the completion token cap.
func WithMaxTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// DefaultConfig returns a Config with defaults for OpenRouter.
func DefaultConfig() *Config {
	return &Config{
		Host:         "https://openrouter.ai/api/v1",
		DefaultModel: "x-ai/grok-4.1-fast:free",
		Timeout:      55 * time.Second,
		MaxTokens:    8000,
		Temperature:  0.3,
	}
}

// NewConfig creates a Config with defaults and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in canonical form. It adds the /v1
// suffix to the host if missing, which OpenAI-compatible APIs require.
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validating.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required")
	}
	if c.DefaultModel == "" {
		return errors.New("ai config: DefaultModel is required")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	if c.MaxTokens <= 0 {
		return errors.New("ai config: MaxTokens must be positive")
	}
	return nil
}
