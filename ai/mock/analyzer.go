package mock

import (
	"context"

	"github.com/poiesic/commentlens/ai"
	"github.com/poiesic/commentlens/core"
)

// MockAnalyzer is a test double for ai.Analyzer.
// It allows custom behavior injection via function fields.
type MockAnalyzer struct {
	// AnalyzeFunc is called by Analyze if set.
	// If nil, a fixed neutral analysis is returned.
	AnalyzeFunc func(ctx context.Context, video core.VideoInfo, comments []core.Comment, totalCount int, model string) (*ai.Analysis, core.TokenUsage, error)

	callCount int
}

// NewMockAnalyzer creates a mock analyzer with default behavior.
// Note: returns the concrete type to allow test assertions.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

// Analyze returns the injected behavior, or a fixed neutral analysis.
func (m *MockAnalyzer) Analyze(ctx context.Context, video core.VideoInfo, comments []core.Comment, totalCount int, model string) (*ai.Analysis, core.TokenUsage, error) {
	m.callCount++

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, video, comments, totalCount, model)
	}

	return &ai.Analysis{
		SentimentAnalysis: &core.SentimentAnalysis{
			Breakdown:   core.SentimentBreakdown{Positive: 50, Negative: 20, Neutral: 30},
			OverallTone: "Mostly positive",
			Drivers: core.SentimentDrivers{
				PositiveDrivers: []string{"clear explanations"},
				NegativeDrivers: []string{"audio quality"},
			},
		},
		Recommendations: []string{"keep the current format"},
	}, core.TokenUsage{Input: 100, Output: 50}, nil
}

// CallCount returns the number of times Analyze was called.
func (m *MockAnalyzer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockAnalyzer) Reset() {
	m.callCount = 0
	m.AnalyzeFunc = nil
}
