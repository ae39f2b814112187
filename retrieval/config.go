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


package retrieval

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Strategy selects the retrieval implementation.
type Strategy string

const (
	// StrategyActor polls a hosted scraping job to completion.
	StrategyActor Strategy = "actor"
	// StrategyPages walks the provider's paged comment API.
	StrategyPages Strategy = "pages"
)

// Config holds configuration shared by the retrieval strategies.
type Config struct {
	// Strategy picks the implementation. Default: StrategyActor.
	Strategy Strategy

	// MaxComments is the global cap on retrieved comments. The final
	// sequence is clipped to this size. Default: 2000.
	MaxComments int

	// ActorBaseURL is the actor platform API root. Default:
	// "https://api.apify.com". Overridable for tests.
	ActorBaseURL string

	// ActorToken authenticates against the actor platform.
	ActorToken string

	// ActorID names the scraping actor to run.
	// Default: "bernardo~youtube-comment-scraper".
	ActorID string

	// PollInterval is the fixed delay between job status checks.
	// Default: 5 seconds.
	PollInterval time.Duration

	// PollCeiling is the overall wall-clock budget for a scraping job.
	// Default: 5 minutes.
	PollCeiling time.Duration

	// PagesBaseURL is the paged comment API root. Default:
	// "https://www.googleapis.com/youtube/v3". Overridable for tests.
	PagesBaseURL string

	// PagesAPIKey authenticates against the paged comment API.
	PagesAPIKey string

	// PageSize is the per-page item limit the provider accepts.
	// Default: 100.
	PageSize int

	// HTTPClient is the client used for all provider calls.
	// Default: http.DefaultClient.
	HTTPClient *http.Client
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithStrategy selects the retrieval strategy.
func WithStrategy(s Strategy) ConfigOption {
	return func(c *Config) {
		c.Strategy = s
	}
}

// WithMaxComments sets the global comment cap.
func WithMaxComments(n int) ConfigOption {
	return func(c *Config) {
		c.MaxComments = n
	}
}

// WithActorBaseURL sets the actor platform API root.
func WithActorBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.ActorBaseURL = url
	}
}

// WithActorToken sets the actor platform token.
func WithActorToken(token string) ConfigOption {
	return func(c *Config) {
		c.ActorToken = token
	}
}

// WithActorID sets the scraping actor identifier.
func WithActorID(id string) ConfigOption {
	return func(c *Config) {
		c.ActorID = id
	}
}

// WithPollInterval sets the delay between job status checks.
func WithPollInterval(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.PollInterval = d
	}
}

// WithPollCeiling sets the overall job wall-clock budget.
func WithPollCeiling(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.PollCeiling = d
	}
}

// WithPagesBaseURL sets the paged comment API root.
func WithPagesBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.PagesBaseURL = url
	}
}

// WithPagesAPIKey sets the paged comment API key.
func WithPagesAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.PagesAPIKey = key
	}
}

// WithHTTPClient sets the HTTP client used for provider calls.
func WithHTTPClient(client *http.Client) ConfigOption {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Strategy:     StrategyActor,
		MaxComments:  2000,
		ActorBaseURL: "https://api.apify.com",
		ActorID:      "bernardo~youtube-comment-scraper",
		PollInterval: 5 * time.Second,
		PollCeiling:  5 * time.Minute,
		PagesBaseURL: "https://www.googleapis.com/youtube/v3",
		PageSize:     100,
		HTTPClient:   http.DefaultClient,
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

// Validate checks that the configuration is complete for its strategy.
func (c *Config) Validate() error {
	if c.MaxComments <= 0 {
		return errors.New("retrieval config: MaxComments must be positive")
	}
	if c.HTTPClient == nil {
		return errors.New("retrieval config: HTTPClient is required")
	}
	switch c.Strategy {
	case StrategyActor:
		if c.ActorToken == "" {
			return errors.New("retrieval config: ActorToken is required for the actor strategy")
		}
		if c.ActorID == "" {
			return errors.New("retrieval config: ActorID is required for the actor strategy")
		}
		if c.PollInterval <= 0 || c.PollCeiling <= 0 {
			return errors.New("retrieval config: PollInterval and PollCeiling must be positive")
		}
	case StrategyPages:
		if c.PagesAPIKey == "" {
			return errors.New("retrieval config: PagesAPIKey is required for the pages strategy")
		}
		if c.PageSize <= 0 {
			return errors.New("retrieval config: PageSize must be positive")
		}
	default:
		return fmt.Errorf("retrieval config: unknown strategy %q", c.Strategy)
	}
	return nil
}

// NewSource creates the Source selected by the configuration.
//
// Returns the Source interface to enforce abstraction.
func NewSource(config *Config) (Source, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch config.Strategy {
	case StrategyActor:
		return newActorSource(config), nil
	case StrategyPages:
		return newPagedSource(config), nil
	}
	return nil, fmt.Errorf("retrieval config: unknown strategy %q", config.Strategy)
}
