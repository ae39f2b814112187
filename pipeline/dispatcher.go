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
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	defaultWorkers   = 4
	defaultJobBudget = 7 * time.Minute
)

// Dispatcher runs pipeline jobs detached from the triggering request.
// Each dispatched job gets its own cancellation context bounded by the
// total job budget, so the inbound handler can acknowledge immediately and
// hold no reference to the running work.
type Dispatcher struct {
	pool      *ants.Pool
	orch      *Orchestrator
	jobBudget time.Duration
	logger    *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*dispatcherSettings)

type dispatcherSettings struct {
	workers   int
	jobBudget time.Duration
	logger    *slog.Logger
}

// WithWorkers sets the worker pool size. Default is 4.
func WithWorkers(n int) DispatcherOption {
	return func(s *dispatcherSettings) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithJobBudget sets the total wall-clock budget for one detached job,
// covering retrieval, inference, persistence and notification together.
// Default is 7 minutes.
func WithJobBudget(d time.Duration) DispatcherOption {
	return func(s *dispatcherSettings) {
		if d > 0 {
			s.jobBudget = d
		}
	}
}

// WithDispatcherLogger sets a custom logger.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(s *dispatcherSettings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher over the given orchestrator.
func NewDispatcher(orch *Orchestrator, opts ...DispatcherOption) (*Dispatcher, error) {
	settings := &dispatcherSettings{
		workers:   defaultWorkers,
		jobBudget: defaultJobBudget,
		logger:    slog.Default().With("component", "dispatcher"),
	}
	for _, opt := range opts {
		opt(settings)
	}

	pool, err := ants.NewPool(settings.workers)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		pool:      pool,
		orch:      orch,
		jobBudget: settings.jobBudget,
		logger:    settings.logger,
	}, nil
}

// Dispatch submits the job for background execution. The run's context is
// independent of the caller's: cancelling the inbound request does not
// cancel the job.
func (d *Dispatcher) Dispatch(job *Job) error {
	if d.pool.IsClosed() {
		return ErrDispatcherReleased
	}
	return d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.jobBudget)
		defer cancel()

		if _, err := d.orch.Run(ctx, job); err != nil {
			d.logger.Warn("background job ended with error",
				"jobId", job.ID, "stage", job.Stage.String(), "err", err)
		}
	})
}

// Release shuts down the worker pool. The dispatcher should not be used
// after calling Release.
func (d *Dispatcher) Release() {
	d.pool.Release()
}
