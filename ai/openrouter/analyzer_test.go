package openrouter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/commentlens/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// stubModel implements llms.Model with injectable behavior.
type stubModel struct {
	response *llms.ContentResponse
	err      error
	delay    time.Duration
}

func (s *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAnalyzer(model llms.Model, timeout time.Duration) *Analyzer {
	return &Analyzer{
		client:       model,
		defaultModel: "test/model",
		timeout:      timeout,
		maxTokens:    8000,
		temperature:  0.3,
		logger:       testLogger(),
	}
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content: content,
				GenerationInfo: map[string]any{
					"PromptTokens":     120,
					"CompletionTokens": 80,
				},
			},
		},
	}
}

func sampleComments() []core.Comment {
	return []core.Comment{
		{Text: "Great video", Author: "a", Likes: 10},
		{Text: "Please cover X next", Author: "b", Likes: 5},
	}
}

func TestAnalyzeParsesFencedOutput(t *testing.T) {
	raw := "```json\n{\"sentiment_analysis\":{\"breakdown\":{\"positive\":70,\"negative\":10,\"neutral\":20},\"overall_tone\":\"Positive\",\"sentiment_drivers\":{\"positive_drivers\":[\"quality\"],\"negative_drivers\":[]}},\"actionable_recommendations\":[\"do more\"]}\n```"
	a := newTestAnalyzer(&stubModel{response: textResponse(raw)}, time.Second)

	analysis, usage, err := a.Analyze(context.Background(), core.VideoInfo{Title: "t"}, sampleComments(), 2, "")
	require.NoError(t, err)
	require.NotNil(t, analysis.SentimentAnalysis)
	assert.Equal(t, 70, analysis.SentimentAnalysis.Breakdown.Positive)
	assert.Equal(t, []string{"do more"}, analysis.Recommendations)
	assert.Equal(t, 120, usage.Input)
	assert.Equal(t, 80, usage.Output)

	// Omitted sections stay nil for the assembler to default.
	assert.Nil(t, analysis.KnowledgeGaps)
	assert.Nil(t, analysis.LikesAndResonance)
}

func TestAnalyzeMalformedOutput(t *testing.T) {
	a := newTestAnalyzer(&stubModel{response: textResponse("this is not json at all")}, time.Second)

	_, _, err := a.Analyze(context.Background(), core.VideoInfo{}, sampleComments(), 2, "")
	require.ErrorIs(t, err, core.ErrMalformedOutput)
	// The raw text must travel with the error for diagnostics.
	assert.Contains(t, err.Error(), "this is not json at all")
}

func TestAnalyzeTimeout(t *testing.T) {
	deadline := 100 * time.Millisecond
	a := newTestAnalyzer(&stubModel{delay: 10 * time.Second}, deadline)

	start := time.Now()
	_, _, err := a.Analyze(context.Background(), core.VideoInfo{}, sampleComments(), 2, "")
	elapsed := time.Since(start)

	require.ErrorIs(t, err, core.ErrUpstreamTimeout)
	assert.Less(t, elapsed, deadline+deadline/10+50*time.Millisecond,
		"timeout must surface promptly, not hang")
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	remoteErr := errors.New(`API returned unexpected status code: 429: {"error":{"message":"rate limited, slow down"}}`)
	a := newTestAnalyzer(&stubModel{err: remoteErr}, time.Second)

	_, _, err := a.Analyze(context.Background(), core.VideoInfo{}, sampleComments(), 2, "")
	require.ErrorIs(t, err, core.ErrUpstreamFailure)
	assert.Contains(t, err.Error(), "rate limited, slow down")
}

func TestAnalyzeEmptyExcerpt(t *testing.T) {
	a := newTestAnalyzer(&stubModel{}, time.Second)
	_, _, err := a.Analyze(context.Background(), core.VideoInfo{}, nil, 0, "")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  \n```json{\"a\":1}```  ", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFences(tt.in))
	}
}

func TestRemoteErrorMessage(t *testing.T) {
	err := errors.New(`status 500: {"message":"internal"}`)
	assert.Equal(t, "internal", remoteErrorMessage(err))

	err = errors.New("plain failure, no body")
	assert.Equal(t, "plain failure, no body", remoteErrorMessage(err))

	err = errors.New(`status 400: {not valid json`)
	assert.Equal(t, `status 400: {not valid json`, remoteErrorMessage(err))
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := buildUserPrompt(core.VideoInfo{Title: "My Video", Channel: "My Channel"}, 300, sampleComments())

	assert.Contains(t, prompt, `300 comments`)
	assert.Contains(t, prompt, `"My Video"`)
	assert.Contains(t, prompt, "My Channel")
	assert.Contains(t, prompt, "[1] (10 likes) a: Great video")
	assert.Contains(t, prompt, "[2] (5 likes) b: Please cover X next")
}
