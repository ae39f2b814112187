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


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/commentlens/ai"
	"github.com/poiesic/commentlens/ai/openrouter"
	"github.com/poiesic/commentlens/httpapi"
	"github.com/poiesic/commentlens/pipeline"
	"github.com/poiesic/commentlens/retrieval"
	"github.com/poiesic/commentlens/slackhook"
	"github.com/poiesic/commentlens/storage"
	"github.com/poiesic/commentlens/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "commentlensd",
		Usage: "YouTube comment analysis service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and chat-ops endpoints",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory (empty disables history)",
					},
					&cli.StringFlag{
						Name:     "openrouter-key",
						Usage:    "OpenRouter API key",
						EnvVars:  []string{"OPENROUTER_API_KEY"},
						Required: true,
					},
					&cli.StringFlag{
						Name:  "openrouter-host",
						Usage: "OpenRouter host URL",
						Value: "https://openrouter.ai/api/v1",
					},
					&cli.StringFlag{
						Name:  "default-model",
						Usage: "Model used when a request names none",
					},
					&cli.StringFlag{
						Name:    "slack-signing-secret",
						Usage:   "Signing secret for chat-ops request verification",
						EnvVars: []string{"SLACK_SIGNING_SECRET"},
					},
					&cli.StringFlag{
						Name:  "retrieval",
						Usage: "Comment retrieval strategy (actor or pages)",
						Value: "actor",
					},
					&cli.StringFlag{
						Name:    "actor-token",
						Usage:   "Scraping actor platform API token",
						EnvVars: []string{"APIFY_API_TOKEN"},
					},
					&cli.StringFlag{
						Name:  "actor-id",
						Usage: "Scraping actor identifier",
					},
					&cli.StringFlag{
						Name:    "youtube-key",
						Usage:   "Data API key for the pages strategy",
						EnvVars: []string{"YOUTUBE_API_KEY"},
					},
					&cli.IntFlag{
						Name:  "max-comments",
						Usage: "Cap on retrieved comments per video",
						Value: 2000,
					},
					&cli.DurationFlag{
						Name:  "infer-timeout",
						Usage: "Hard deadline for one inference call",
						Value: 55 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "job-budget",
						Usage: "Total wall-clock budget for one background job",
						Value: 7 * time.Minute,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Background worker pool size",
						Value: 4,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	logger := slog.Default().With("component", "serve")

	// Retrieval source
	source, err := newSource(c)
	if err != nil {
		return fmt.Errorf("invalid retrieval configuration: %w", err)
	}

	// Analyzer
	aiOpts := []ai.ConfigOption{
		ai.WithHost(c.String("openrouter-host")),
		ai.WithAPIKey(c.String("openrouter-key")),
		ai.WithTimeout(c.Duration("infer-timeout")),
	}
	if model := c.String("default-model"); model != "" {
		aiOpts = append(aiOpts, ai.WithDefaultModel(model))
	}
	aiConfig := ai.NewConfig(aiOpts...)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}
	analyzer, err := openrouter.NewAnalyzer(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	// History storage is optional; without a database path the service
	// still serves retrieval, analysis and chat-ops.
	var repo storage.AnalysisRepository
	if dbPath := c.String("db"); dbPath != "" {
		backend, err := badger.OpenBackend(dbPath, false)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		repo, err = badger.NewAnalysisRepository(backend)
		if err != nil {
			backend.Close()
			return fmt.Errorf("failed to create repository: %w", err)
		}
		defer repo.Close()
	}

	// Background pipeline
	notifier := slackhook.NewNotifier()
	orch, err := pipeline.NewOrchestrator(source, analyzer, repo, notifier)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	dispatcher, err := pipeline.NewDispatcher(orch,
		pipeline.WithWorkers(c.Int("workers")),
		pipeline.WithJobBudget(c.Duration("job-budget")),
	)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	defer dispatcher.Release()

	// HTTP surface
	server := httpapi.NewServer(source, analyzer, repo, dispatcher,
		httpapi.WithSigningSecret(c.String("slack-signing-secret")),
		httpapi.WithDefaultModel(c.String("default-model")),
	)

	httpServer := &http.Server{
		Addr:    c.String("addr"),
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// newSource builds the retrieval source for the selected strategy.
func newSource(c *cli.Context) (retrieval.Source, error) {
	strategy := retrieval.Strategy(c.String("retrieval"))

	opts := []retrieval.ConfigOption{
		retrieval.WithStrategy(strategy),
		retrieval.WithMaxComments(c.Int("max-comments")),
	}
	switch strategy {
	case retrieval.StrategyActor:
		opts = append(opts, retrieval.WithActorToken(c.String("actor-token")))
		if actorID := c.String("actor-id"); actorID != "" {
			opts = append(opts, retrieval.WithActorID(actorID))
		}
	case retrieval.StrategyPages:
		opts = append(opts, retrieval.WithPagesAPIKey(c.String("youtube-key")))
	}

	config := retrieval.NewConfig(opts...)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return retrieval.NewSource(config)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
