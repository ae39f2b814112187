package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/commentlens/ai"
	"github.com/poiesic/commentlens/ai/mock"
	"github.com/poiesic/commentlens/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSource serves a fixed comment set.
type stubSource struct {
	comments []core.Comment
	video    core.VideoInfo
	err      error
}

func (s *stubSource) Fetch(ctx context.Context, videoID string) ([]core.Comment, core.VideoInfo, error) {
	if s.err != nil {
		return nil, core.VideoInfo{}, s.err
	}
	return s.comments, s.video, nil
}

// stubRepo records the last saved record and can be made to fail.
type stubRepo struct {
	mu      sync.Mutex
	saved   *core.AnalysisRecord
	saveErr error
}

func (r *stubRepo) SaveAnalysis(ctx context.Context, record *core.AnalysisRecord) (*core.AnalysisRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	stored := *record
	stored.ID = "stored-id"
	r.saved = &stored
	return &stored, nil
}

func (r *stubRepo) GetAnalysis(ctx context.Context, id string) (*core.AnalysisRecord, error) {
	return nil, core.ErrNotFound
}

func (r *stubRepo) ListAnalyses(ctx context.Context, limit int) ([]*core.AnalysisSummary, error) {
	return []*core.AnalysisSummary{}, nil
}

func (r *stubRepo) Close() error { return nil }

// recordingNotifier captures the notification sequence.
type recordingNotifier struct {
	mu        sync.Mutex
	events    []string
	completed *core.AnalysisRecord
	failCause error
	sendErr   error
}

func (n *recordingNotifier) record(event string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.sendErr
}

func (n *recordingNotifier) Retrieved(ctx context.Context, job *Job, totalComments int) error {
	return n.record(fmt.Sprintf("retrieved:%d", totalComments))
}

func (n *recordingNotifier) NoContent(ctx context.Context, job *Job) error {
	return n.record("no_content")
}

func (n *recordingNotifier) Completed(ctx context.Context, job *Job, record *core.AnalysisRecord) error {
	n.mu.Lock()
	n.completed = record
	n.mu.Unlock()
	return n.record("completed")
}

func (n *recordingNotifier) Failed(ctx context.Context, job *Job, cause error) error {
	n.mu.Lock()
	n.failCause = cause
	n.mu.Unlock()
	return n.record("failed")
}

func syntheticComments(n int) []core.Comment {
	comments := make([]core.Comment, 0, n)
	for i := 1; i <= n; i++ {
		comments = append(comments, core.Comment{
			Text:   fmt.Sprintf("comment %d", i),
			Author: fmt.Sprintf("user%d", i),
			Likes:  i,
		})
	}
	return comments
}

func TestOrchestratorRunEndToEnd(t *testing.T) {
	source := &stubSource{
		comments: syntheticComments(300),
		video:    core.VideoInfo{Title: "Go Concurrency Patterns", Channel: "GopherCon", URL: "https://www.youtube.com/watch?v=f6kdp27TYZs"},
	}
	analyzer := mock.NewMockAnalyzer()
	var excerptSize int
	analyzer.AnalyzeFunc = func(ctx context.Context, video core.VideoInfo, comments []core.Comment, totalCount int, model string) (*ai.Analysis, core.TokenUsage, error) {
		excerptSize = len(comments)
		assert.Equal(t, 300, totalCount)
		return &ai.Analysis{Recommendations: []string{"record a part two"}}, core.TokenUsage{Input: 1200, Output: 400}, nil
	}
	repo := &stubRepo{}
	notifier := &recordingNotifier{}

	orch, err := NewOrchestrator(source, analyzer, repo, notifier,
		WithLogger(testLogger()),
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }))
	require.NoError(t, err)

	job := NewJob("f6kdp27TYZs", source.video.URL, "openai/gpt-4o-mini", "https://hooks.example.com/cb")
	record, err := orch.Run(context.Background(), job)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, StageDone, job.Stage)
	assert.Equal(t, 150, excerptSize, "inference sees the ranked excerpt, not the full set")
	assert.Equal(t, "openai/gpt-4o-mini", record.Model)
	assert.Equal(t, 300, record.TotalComments)
	assert.Equal(t, "stored-id", record.ID, "persisted record flows back to the caller")
	require.NotNil(t, record.TokensUsed)
	assert.Equal(t, 1200, record.TokensUsed.Input)

	// Display views come from the full set: likes run 1..300, so the most
	// liked view starts at 300 and holds five entries.
	require.NotNil(t, record.Analysis)
	mostLiked := record.Analysis.TopComments.MostLiked
	require.Len(t, mostLiked, 5)
	assert.Equal(t, 300, mostLiked[0].Likes)
	assert.Equal(t, 296, mostLiked[4].Likes)

	assert.Equal(t, []string{"retrieved:300", "completed"}, notifier.events)
	require.NotNil(t, notifier.completed)
	assert.Equal(t, "stored-id", notifier.completed.ID)
}

func TestOrchestratorRunDefaultModel(t *testing.T) {
	source := &stubSource{comments: syntheticComments(3)}
	orch, err := NewOrchestrator(source, mock.NewMockAnalyzer(), nil, nil, WithLogger(testLogger()))
	require.NoError(t, err)

	job := NewJob("vid", "url", "", "")
	record, err := orch.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultModel(), record.Model)
}

func TestOrchestratorRunNoComments(t *testing.T) {
	source := &stubSource{comments: nil}
	notifier := &recordingNotifier{}
	orch, err := NewOrchestrator(source, mock.NewMockAnalyzer(), nil, notifier, WithLogger(testLogger()))
	require.NoError(t, err)

	job := NewJob("vid", "url", "", "")
	record, err := orch.Run(context.Background(), job)

	assert.Nil(t, record)
	assert.ErrorIs(t, err, core.ErrNoContent)
	assert.Equal(t, StageDone, job.Stage, "no content is a clean finish, not a failure")
	assert.Equal(t, []string{"no_content"}, notifier.events)
}

func TestOrchestratorRunRetrievalFailure(t *testing.T) {
	cause := fmt.Errorf("%w: actor run FAILED", core.ErrUpstreamFailure)
	source := &stubSource{err: cause}
	analyzer := mock.NewMockAnalyzer()
	notifier := &recordingNotifier{}
	orch, err := NewOrchestrator(source, analyzer, nil, notifier, WithLogger(testLogger()))
	require.NoError(t, err)

	job := NewJob("vid", "url", "", "")
	_, err = orch.Run(context.Background(), job)

	assert.ErrorIs(t, err, core.ErrUpstreamFailure)
	assert.Equal(t, StageFailed, job.Stage)
	assert.Equal(t, cause, job.LastError)
	assert.Equal(t, 0, analyzer.CallCount(), "no inference after failed retrieval")
	assert.Equal(t, []string{"failed"}, notifier.events)
	assert.ErrorIs(t, notifier.failCause, core.ErrUpstreamFailure)
}

func TestOrchestratorRunInferenceFailure(t *testing.T) {
	source := &stubSource{comments: syntheticComments(10)}
	analyzer := mock.NewMockAnalyzer()
	analyzer.AnalyzeFunc = func(ctx context.Context, video core.VideoInfo, comments []core.Comment, totalCount int, model string) (*ai.Analysis, core.TokenUsage, error) {
		return nil, core.TokenUsage{}, fmt.Errorf("%w: inference exceeded deadline", core.ErrUpstreamTimeout)
	}
	repo := &stubRepo{}
	notifier := &recordingNotifier{}
	orch, err := NewOrchestrator(source, analyzer, repo, notifier, WithLogger(testLogger()))
	require.NoError(t, err)

	job := NewJob("vid", "url", "", "")
	_, err = orch.Run(context.Background(), job)

	assert.ErrorIs(t, err, core.ErrUpstreamTimeout)
	assert.Equal(t, StageFailed, job.Stage)
	assert.Nil(t, repo.saved, "nothing persisted after failed inference")
	assert.Equal(t, []string{"retrieved:10", "failed"}, notifier.events)
}

func TestOrchestratorRunPersistenceFailureIsNonFatal(t *testing.T) {
	source := &stubSource{comments: syntheticComments(10)}
	repo := &stubRepo{saveErr: errors.New("disk full")}
	notifier := &recordingNotifier{}
	orch, err := NewOrchestrator(source, mock.NewMockAnalyzer(), repo, notifier, WithLogger(testLogger()))
	require.NoError(t, err)

	job := NewJob("vid", "url", "", "")
	record, err := orch.Run(context.Background(), job)

	require.NoError(t, err, "a storage fault must not lose the result")
	require.NotNil(t, record)
	assert.Empty(t, record.ID, "unsaved record carries no storage id")
	assert.Equal(t, StageDone, job.Stage)
	assert.Equal(t, []string{"retrieved:10", "completed"}, notifier.events)
}

func TestOrchestratorRunNotifierErrorsIgnored(t *testing.T) {
	source := &stubSource{comments: syntheticComments(10)}
	notifier := &recordingNotifier{sendErr: errors.New("callback gone")}
	orch, err := NewOrchestrator(source, mock.NewMockAnalyzer(), nil, notifier, WithLogger(testLogger()))
	require.NoError(t, err)

	job := NewJob("vid", "url", "", "")
	record, err := orch.Run(context.Background(), job)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, StageDone, job.Stage)
}

func TestOrchestratorRunWithoutNotifier(t *testing.T) {
	source := &stubSource{comments: syntheticComments(2)}
	orch, err := NewOrchestrator(source, mock.NewMockAnalyzer(), nil, nil, WithLogger(testLogger()))
	require.NoError(t, err)

	record, err := orch.Run(context.Background(), NewJob("vid", "url", "", ""))
	require.NoError(t, err)
	assert.NotNil(t, record)
}

func TestNewOrchestratorValidation(t *testing.T) {
	_, err := NewOrchestrator(nil, mock.NewMockAnalyzer(), nil, nil)
	assert.ErrorIs(t, err, ErrSourceRequired)

	_, err = NewOrchestrator(&stubSource{}, nil, nil, nil)
	assert.ErrorIs(t, err, ErrAnalyzerRequired)
}

func TestOrchestratorWithTopK(t *testing.T) {
	source := &stubSource{comments: syntheticComments(50)}
	analyzer := mock.NewMockAnalyzer()
	var excerptSize int
	analyzer.AnalyzeFunc = func(ctx context.Context, video core.VideoInfo, comments []core.Comment, totalCount int, model string) (*ai.Analysis, core.TokenUsage, error) {
		excerptSize = len(comments)
		return &ai.Analysis{}, core.TokenUsage{}, nil
	}
	orch, err := NewOrchestrator(source, analyzer, nil, nil, WithTopK(20), WithLogger(testLogger()))
	require.NoError(t, err)

	_, err = orch.Run(context.Background(), NewJob("vid", "url", "", ""))
	require.NoError(t, err)
	assert.Equal(t, 20, excerptSize)
}
