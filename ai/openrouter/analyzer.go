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


package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/commentlens/ai"
	"github.com/poiesic/commentlens/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Analyzer implements ai.Analyzer against an OpenAI-compatible chat API.
// Each call runs under a hard deadline taken from the configuration; the
// in-flight request is cancelled when the deadline elapses.
type Analyzer struct {
	client       llms.Model
	defaultModel string
	timeout      time.Duration
	maxTokens    int
	temperature  float64
	logger       *slog.Logger
}

// newAnalyzer is an internal constructor that returns the concrete type.
func newAnalyzer(config *ai.Config) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.DefaultModel),
	)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		client:       client,
		defaultModel: config.DefaultModel,
		timeout:      config.Timeout,
		maxTokens:    config.MaxTokens,
		temperature:  config.Temperature,
		logger:       slog.Default().With("component", "openrouter-analyzer"),
	}, nil
}

// NewAnalyzer creates an analyzer using the provided configuration.
//
// Returns the ai.Analyzer interface to enforce abstraction.
func NewAnalyzer(config *ai.Config) (ai.Analyzer, error) {
	return newAnalyzer(config)
}

// Analyze submits the ranked excerpt to the model and parses the structured
// response. The call is bounded by the configured timeout; on expiry the
// request is aborted and core.ErrUpstreamTimeout is returned.
func (a *Analyzer) Analyze(ctx context.Context, video core.VideoInfo, comments []core.Comment, totalCount int, model string) (*ai.Analysis, core.TokenUsage, error) {
	var usage core.TokenUsage

	if len(comments) == 0 {
		return nil, usage, fmt.Errorf("%w: no comments to analyze", core.ErrInvalidInput)
	}
	if model == "" {
		model = a.defaultModel
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(video, totalCount, comments)),
			},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.logger.Debug("starting inference", "model", model, "excerpt", len(comments), "total", totalCount)

	response, err := a.client.GenerateContent(ctx, content,
		llms.WithModel(model),
		llms.WithTemperature(a.temperature),
		llms.WithMaxTokens(a.maxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			a.logger.Warn("inference timed out", "model", model, "budget", a.timeout)
			return nil, usage, fmt.Errorf("%w: inference exceeded %s; try a smaller input or a faster model", core.ErrUpstreamTimeout, a.timeout)
		}
		a.logger.Error("inference call failed", "model", model, "err", err)
		return nil, usage, fmt.Errorf("%w: %s", core.ErrUpstreamFailure, remoteErrorMessage(err))
	}

	if len(response.Choices) < 1 {
		return nil, usage, fmt.Errorf("%w: no completion choices returned", core.ErrUpstreamFailure)
	}

	choice := response.Choices[0]
	usage = tokenUsage(choice.GenerationInfo)

	raw := stripCodeFences(choice.Content)

	var analysis ai.Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		a.logger.Error("failed to parse model response", "model", model, "err", err, "response", raw)
		return nil, usage, fmt.Errorf("%w: %v; raw output: %s", core.ErrMalformedOutput, err, raw)
	}

	return &analysis, usage, nil
}

// tokenUsage extracts token counts from the generation info when the
// backend reports them. Missing counts stay zero.
func tokenUsage(info map[string]any) core.TokenUsage {
	var usage core.TokenUsage
	if n, ok := info["PromptTokens"].(int); ok {
		usage.Input = n
	}
	if n, ok := info["CompletionTokens"].(int); ok {
		usage.Output = n
	}
	return usage
}

// remoteErrorMessage extracts a readable cause from a failed API call on a
// best-effort basis: a structured error message if the body was JSON, a
// generic message field if present, otherwise the raw error text.
func remoteErrorMessage(err error) string {
	text := err.Error()

	// API client errors embed the response body after the last colon-space
	// separated status fragment. Look for an embedded JSON object.
	if start := strings.Index(text, "{"); start >= 0 {
		var payload struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
			Message string `json:"message"`
		}
		if jsonErr := json.Unmarshal([]byte(text[start:]), &payload); jsonErr == nil {
			if payload.Error.Message != "" {
				return payload.Error.Message
			}
			if payload.Message != "" {
				return payload.Message
			}
		}
	}
	return text
}
