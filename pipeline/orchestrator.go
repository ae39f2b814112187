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


package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/commentlens/ai"
	"github.com/poiesic/commentlens/core"
	"github.com/poiesic/commentlens/retrieval"
	"github.com/poiesic/commentlens/storage"
)

// ProgressNotifier receives stage-completion updates for one job.
// Implementations deliver to the job's callback address; a delivery error
// is returned for logging but must never fail the job.
type ProgressNotifier interface {
	// Retrieved reports that comment retrieval finished.
	Retrieved(ctx context.Context, job *Job, totalComments int) error

	// NoContent reports that the video has zero retrievable comments.
	// This is a final delivery; no further updates follow.
	NoContent(ctx context.Context, job *Job) error

	// Completed delivers the final result. Exactly one of Completed,
	// NoContent or Failed closes out a chat-ops job.
	Completed(ctx context.Context, job *Job, record *core.AnalysisRecord) error

	// Failed delivers the terminal error.
	Failed(ctx context.Context, job *Job, cause error) error
}

// Orchestrator sequences retrieval, ranking, inference, assembly,
// persistence and notification for one job at a time. It holds no mutable
// state across runs and is safe for concurrent use.
type Orchestrator struct {
	source   retrieval.Source
	analyzer ai.Analyzer
	repo     storage.AnalysisRepository
	notifier ProgressNotifier
	topK     int
	now      func() time.Time
	logger   *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithTopK sets the size of the ranked excerpt passed to inference.
// Default is 150.
func WithTopK(k int) OrchestratorOption {
	return func(o *Orchestrator) {
		if k > 0 {
			o.topK = k
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the time source used for result timestamps.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// NewOrchestrator creates an orchestrator. source and analyzer are
// required; repo and notifier may be nil, disabling persistence and
// notification respectively.
func NewOrchestrator(source retrieval.Source, analyzer ai.Analyzer, repo storage.AnalysisRepository, notifier ProgressNotifier, opts ...OrchestratorOption) (*Orchestrator, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	o := &Orchestrator{
		source:   source,
		analyzer: analyzer,
		repo:     repo,
		notifier: notifier,
		topK:     150,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   slog.Default().With("component", "orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run executes the job to a terminal stage and returns the assembled
// record. A nil record with a nil error never occurs; zero retrievable
// comments surface as core.ErrNoContent with the job ending in Done, not
// Failed.
func (o *Orchestrator) Run(ctx context.Context, job *Job) (*core.AnalysisRecord, error) {
	logger := o.logger.With("jobId", job.ID, "videoId", job.VideoID)

	if err := job.advance(StageRetrieving); err != nil {
		return nil, err
	}
	comments, video, err := o.source.Fetch(ctx, job.VideoID)
	if err != nil {
		return nil, o.failJob(ctx, job, logger, err)
	}

	if len(comments) == 0 {
		// An empty comment stream ends the job cleanly; there is nothing
		// to infer over and nothing to persist.
		job.Stage = StageDone
		o.deliver(ctx, logger, func() error { return o.notifier.NoContent(ctx, job) })
		logger.Info("no comments retrievable, job done")
		return nil, fmt.Errorf("%w: video %s has no retrievable comments", core.ErrNoContent, job.VideoID)
	}

	logger.Info("comments retrieved", "count", len(comments))
	o.deliver(ctx, logger, func() error { return o.notifier.Retrieved(ctx, job, len(comments)) })

	if err := job.advance(StageInferring); err != nil {
		return nil, err
	}
	excerpt := TopK(RankByLikes(comments), o.topK)
	raw, usage, err := o.analyzer.Analyze(ctx, video, excerpt, len(comments), job.Model)
	if err != nil {
		return nil, o.failJob(ctx, job, logger, err)
	}

	result := Assemble(raw, comments, video, len(comments), o.now())

	record := &core.AnalysisRecord{
		VideoID:       job.VideoID,
		VideoTitle:    video.Title,
		VideoChannel:  video.Channel,
		VideoURL:      video.URL,
		Model:         o.modelUsed(job.Model),
		TotalComments: len(comments),
		Analysis:      result,
		TokensUsed:    &usage,
		CreatedAt:     o.now(),
	}

	if err := job.advance(StagePersisting); err != nil {
		return nil, err
	}
	if o.repo != nil {
		saved, err := o.repo.SaveAnalysis(ctx, record)
		if err != nil {
			// Best-effort durability: the caller still gets the result.
			logger.Warn("failed to persist analysis", "err", err)
		} else {
			record = saved
		}
	}

	if err := job.advance(StageNotifying); err != nil {
		return nil, err
	}
	o.deliver(ctx, logger, func() error { return o.notifier.Completed(ctx, job, record) })

	job.Stage = StageDone
	logger.Info("job done", "model", record.Model, "comments", record.TotalComments)
	return record, nil
}

// failJob marks the job failed, sends the final failure notification and
// returns the terminal error.
func (o *Orchestrator) failJob(ctx context.Context, job *Job, logger *slog.Logger, cause error) error {
	job.fail(cause)
	logger.Error("job failed", "stage", job.Stage, "err", cause)
	o.deliver(ctx, logger, func() error { return o.notifier.Failed(ctx, job, cause) })
	return cause
}

// deliver runs one notification, logging delivery failures without
// propagating them.
func (o *Orchestrator) deliver(ctx context.Context, logger *slog.Logger, send func() error) {
	if o.notifier == nil {
		return
	}
	if err := send(); err != nil {
		logger.Warn("callback delivery failed", "err", err)
	}
}

func (o *Orchestrator) modelUsed(requested string) string {
	if requested != "" {
		return requested
	}
	return core.DefaultModel()
}
