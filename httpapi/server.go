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


package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/commentlens/ai"
	"github.com/poiesic/commentlens/pipeline"
	"github.com/poiesic/commentlens/retrieval"
	"github.com/poiesic/commentlens/storage"
)

// Server holds the wired components behind the HTTP surface. Any of repo,
// dispatcher or signingSecret may be absent; the corresponding endpoints
// then refuse their requests instead of panicking.
type Server struct {
	source        retrieval.Source
	analyzer      ai.Analyzer
	repo          storage.AnalysisRepository
	dispatcher    *pipeline.Dispatcher
	signingSecret string
	defaultModel  string
	topK          int
	now           func() time.Time
	logger        *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithSigningSecret enables the chat-ops endpoints with the given secret.
func WithSigningSecret(secret string) ServerOption {
	return func(s *Server) { s.signingSecret = secret }
}

// WithDefaultModel sets the model used when a request names none.
func WithDefaultModel(model string) ServerOption {
	return func(s *Server) {
		if model != "" {
			s.defaultModel = model
		}
	}
}

// WithExcerptSize sets the ranked excerpt size for the synchronous
// analysis endpoint. Default is 150.
func WithExcerptSize(k int) ServerOption {
	return func(s *Server) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithServerLogger sets a custom logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithServerClock sets the time source used for signature checks and
// result timestamps.
func WithServerClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// NewServer assembles the HTTP surface over the given components.
// repo and dispatcher may be nil.
func NewServer(source retrieval.Source, analyzer ai.Analyzer, repo storage.AnalysisRepository, dispatcher *pipeline.Dispatcher, opts ...ServerOption) *Server {
	s := &Server{
		source:     source,
		analyzer:   analyzer,
		repo:       repo,
		dispatcher: dispatcher,
		topK:       150,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     slog.Default().With("component", "httpapi"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/retrieve", s.handleRetrieve)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/history", s.handleListHistory)
	mux.HandleFunc("GET /api/history/{id}", s.handleGetHistory)
	mux.HandleFunc("POST /api/history", s.handleSaveHistory)
	mux.HandleFunc("GET /api/models", s.handleListModels)
	mux.HandleFunc("POST /slack/command", s.handleSlackCommand)
	mux.HandleFunc("POST /slack/events", s.handleSlackEvents)

	return s.logRequests(mux)
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start))
	})
}
