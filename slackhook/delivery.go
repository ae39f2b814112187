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


package slackhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/commentlens/core"
	"github.com/poiesic/commentlens/pipeline"
)

// defaultDeliveryTimeout bounds one notification post.
const defaultDeliveryTimeout = 10 * time.Second

// Notifier posts progress and result messages to response URLs. It
// implements pipeline.ProgressNotifier; jobs without a response URL are
// silently skipped so the same orchestrator serves non-chat entry points.
type Notifier struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) NotifierOption {
	return func(n *Notifier) {
		if client != nil {
			n.client = client
		}
	}
}

// WithDeliveryTimeout bounds a single post. Default is 10 seconds.
func WithDeliveryTimeout(d time.Duration) NotifierOption {
	return func(n *Notifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithNotifierLogger sets a custom logger.
func WithNotifierLogger(logger *slog.Logger) NotifierOption {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNotifier creates a notifier with the given options.
func NewNotifier(opts ...NotifierOption) *Notifier {
	n := &Notifier{
		client:  http.DefaultClient,
		timeout: defaultDeliveryTimeout,
		logger:  slog.Default().With("component", "slackhook"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify posts one message to the response URL. Each message is sent at
// most once; there is no retry.
func (n *Notifier) Notify(ctx context.Context, responseURL string, msg *Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %s", ErrDeliveryFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: response url returned status %d", ErrDeliveryFailed, resp.StatusCode)
	}

	n.logger.Debug("notification delivered", "status", resp.StatusCode)
	return nil
}

// Retrieved implements pipeline.ProgressNotifier.
func (n *Notifier) Retrieved(ctx context.Context, job *pipeline.Job, totalComments int) error {
	if job.ResponseURL == "" {
		return nil
	}
	return n.Notify(ctx, job.ResponseURL, ProgressMessage(totalComments))
}

// NoContent implements pipeline.ProgressNotifier.
func (n *Notifier) NoContent(ctx context.Context, job *pipeline.Job) error {
	if job.ResponseURL == "" {
		return nil
	}
	return n.Notify(ctx, job.ResponseURL, NoContentMessage(job.VideoURL))
}

// Completed implements pipeline.ProgressNotifier.
func (n *Notifier) Completed(ctx context.Context, job *pipeline.Job, record *core.AnalysisRecord) error {
	if job.ResponseURL == "" {
		return nil
	}
	return n.Notify(ctx, job.ResponseURL, ResultMessage(record))
}

// Failed implements pipeline.ProgressNotifier.
func (n *Notifier) Failed(ctx context.Context, job *pipeline.Job, cause error) error {
	if job.ResponseURL == "" {
		return nil
	}
	return n.Notify(ctx, job.ResponseURL, FailureMessage(cause))
}
