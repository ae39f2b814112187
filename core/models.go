package core

import (
	"time"
)

// Comment is a single audience comment retrieved from the provider.
type Comment struct {
	Text        string `json:"text"`
	Author      string `json:"author"`
	Likes       int    `json:"likes"`
	PublishedAt string `json:"publishedAt"`
	ReplyCount  int    `json:"replyCount"`
}

// VideoInfo identifies the video a set of comments belongs to.
type VideoInfo struct {
	Title   string `json:"title"`
	Channel string `json:"channel"`
	URL     string `json:"url"`
}

// SentimentBreakdown holds the positive/negative/neutral split as percentages.
// The model is asked for values summing to 100 but this is not enforced.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// SentimentDrivers lists the reasons behind positive and negative sentiment.
type SentimentDrivers struct {
	PositiveDrivers []string `json:"positive_drivers"`
	NegativeDrivers []string `json:"negative_drivers"`
}

// SentimentAnalysis is the sentiment section of an analysis.
type SentimentAnalysis struct {
	Breakdown   SentimentBreakdown `json:"breakdown"`
	OverallTone string             `json:"overall_tone"`
	Drivers     SentimentDrivers   `json:"sentiment_drivers"`
}

// InsightItem is one entry in a list-valued insight category.
type InsightItem struct {
	Text            string   `json:"text"`
	Frequency       int      `json:"frequency,omitempty"`
	Examples        []string `json:"examples,omitempty"`
	EngagementScore int      `json:"engagement_score,omitempty"`
}

// Resonance captures what landed well with the audience and what did not.
type Resonance struct {
	WhatResonated []InsightItem `json:"what_resonated"`
	WhatFellFlat  []InsightItem `json:"what_fell_flat"`
}

// TopComments holds the ranked display views. These are always derived from
// the full retrieved set, never taken from model output.
type TopComments struct {
	MostLiked     []Comment `json:"most_liked"`
	MostDiscussed []Comment `json:"most_discussed"`
}

// VideoMeta describes the analyzed video inside an AnalysisResult.
type VideoMeta struct {
	Title                 string `json:"title"`
	Channel               string `json:"channel"`
	URL                   string `json:"url"`
	TotalCommentsAnalyzed int    `json:"total_comments_analyzed"`
	AnalysisTimestamp     string `json:"analysis_timestamp"`
}

// AnalysisResult is the fully assembled insight report for one video.
// Field names match the wire format consumed by clients.
type AnalysisResult struct {
	VideoInfo              VideoMeta         `json:"video_info"`
	SentimentAnalysis      SentimentAnalysis `json:"sentiment_analysis"`
	KnowledgeGaps          []InsightItem     `json:"knowledge_gaps"`
	DemandSignals          []InsightItem     `json:"demand_signals"`
	MythsAndMisconceptions []InsightItem     `json:"myths_and_misconceptions"`
	PainPoints             []InsightItem     `json:"pain_points"`
	LikesAndResonance      Resonance         `json:"likes_and_resonance"`
	TopComments            TopComments       `json:"top_comments"`
	Recommendations        []string          `json:"actionable_recommendations"`
}

// TokenUsage reports prompt and completion token counts for one inference call.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// AnalysisRecord is the persisted unit: one completed analysis plus the
// metadata needed to list and reload it.
type AnalysisRecord struct {
	ID            string          `json:"id"`
	VideoID       string          `json:"videoId"`
	VideoTitle    string          `json:"videoTitle"`
	VideoChannel  string          `json:"videoChannel"`
	VideoURL      string          `json:"videoUrl"`
	Model         string          `json:"modelUsed"`
	TotalComments int             `json:"totalComments"`
	Analysis      *AnalysisResult `json:"analysis"`
	TokensUsed    *TokenUsage     `json:"tokensUsed,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// AnalysisSummary is the listing view of an AnalysisRecord.
type AnalysisSummary struct {
	ID            string    `json:"id"`
	VideoTitle    string    `json:"videoTitle"`
	VideoChannel  string    `json:"videoChannel"`
	Model         string    `json:"modelUsed"`
	TotalComments int       `json:"totalComments"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Summary returns the listing view of the record.
func (r *AnalysisRecord) Summary() *AnalysisSummary {
	return &AnalysisSummary{
		ID:            r.ID,
		VideoTitle:    r.VideoTitle,
		VideoChannel:  r.VideoChannel,
		Model:         r.Model,
		TotalComments: r.TotalComments,
		CreatedAt:     r.CreatedAt,
	}
}

// ModelOption describes one selectable inference model.
type ModelOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AvailableModels is the catalog of models clients may request.
// The first entry is the default.
var AvailableModels = []ModelOption{
	{
		ID:          "x-ai/grok-4.1-fast:free",
		Name:        "Grok 4.1 Fast (FREE)",
		Description: "xAI's agentic model, 2M context - Default",
	},
	{
		ID:          "openai/gpt-4o-mini",
		Name:        "GPT-4o Mini",
		Description: "Compact version of GPT-4o, cost-effective",
	},
	{
		ID:          "openai/gpt-4o",
		Name:        "GPT-4o",
		Description: "OpenAI's flagship multimodal model",
	},
	{
		ID:          "anthropic/claude-sonnet-4.5",
		Name:        "Claude Sonnet 4.5",
		Description: "Balanced performance and speed",
	},
	{
		ID:          "google/gemini-2.5-pro-preview-06-05",
		Name:        "Gemini 2.5 Pro",
		Description: "High quality Google model",
	},
	{
		ID:          "google/gemini-2.5-flash-preview-05-20",
		Name:        "Gemini 2.5 Flash",
		Description: "Fast & cost-effective Google model",
	},
}

// DefaultModel returns the catalog default model identifier.
func DefaultModel() string {
	return AvailableModels[0].ID
}
