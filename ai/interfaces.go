package ai

import (
	"context"

	"github.com/poiesic/commentlens/core"
)

// Analyzer extracts structured audience insights from a set of comments.
// Implementations must be thread-safe for concurrent use and must honor
// ctx cancellation: when the deadline elapses the in-flight call is
// aborted and core.ErrUpstreamTimeout is returned, never a hang.
type Analyzer interface {
	// Analyze submits the comments for one video to the model and returns
	// the raw structured output. comments is the ranked excerpt selected
	// for inference; totalCount is the size of the full retrieved set and
	// is only used for prompt context. model may be empty, in which case
	// the implementation's configured default is used.
	//
	// Returns core.ErrUpstreamTimeout when the call exceeds its budget,
	// core.ErrUpstreamFailure when the remote service rejects the call,
	// and core.ErrMalformedOutput when the response cannot be parsed.
	Analyze(ctx context.Context, video core.VideoInfo, comments []core.Comment, totalCount int, model string) (*Analysis, core.TokenUsage, error)
}

// Analysis is the model's raw structured output. Every section is optional:
// nil means the model omitted it. Defaulting is the assembler's job, not
// the analyzer's.
type Analysis struct {
	SentimentAnalysis      *core.SentimentAnalysis `json:"sentiment_analysis"`
	KnowledgeGaps          []core.InsightItem      `json:"knowledge_gaps"`
	DemandSignals          []core.InsightItem      `json:"demand_signals"`
	MythsAndMisconceptions []core.InsightItem      `json:"myths_and_misconceptions"`
	PainPoints             []core.InsightItem      `json:"pain_points"`
	LikesAndResonance      *core.Resonance         `json:"likes_and_resonance"`
	Recommendations        []string                `json:"actionable_recommendations"`
}
