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


package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/commentlens/core"
)

// actorSource retrieves comments by running a hosted scraping actor and
// polling the job until it leaves the running state.
type actorSource struct {
	baseURL      string
	token        string
	actorID      string
	pollInterval time.Duration
	pollCeiling  time.Duration
	maxComments  int
	client       *http.Client
	logger       *slog.Logger
}

func newActorSource(config *Config) *actorSource {
	return &actorSource{
		baseURL:      strings.TrimSuffix(config.ActorBaseURL, "/"),
		token:        config.ActorToken,
		actorID:      config.ActorID,
		pollInterval: config.PollInterval,
		pollCeiling:  config.PollCeiling,
		maxComments:  config.MaxComments,
		client:       config.HTTPClient,
		logger:       slog.Default().With("component", "actor-source"),
	}
}

type actorRunData struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type actorRunEnvelope struct {
	Data actorRunData `json:"data"`
}

// actorItem is the provider's raw dataset item. Field names vary between
// actor versions, hence the alternates.
type actorItem struct {
	Text          string `json:"text"`
	Author        string `json:"author"`
	Likes         int    `json:"likes"`
	VotesCount    int    `json:"votesCount"`
	PublishedAt   string `json:"publishedAt"`
	Date          string `json:"date"`
	ReplyCount    int    `json:"replyCount"`
	RepliesCount  int    `json:"repliesCount"`
	VideoTitle    string `json:"videoTitle"`
	ChannelName   string `json:"channelName"`
	CommentAuthor string `json:"commentAuthor"`
}

// Fetch starts a scraping job, polls it to completion under the configured
// ceiling, and downloads the result set once.
func (s *actorSource) Fetch(ctx context.Context, videoID string) ([]core.Comment, core.VideoInfo, error) {
	var info core.VideoInfo

	run, err := s.startRun(ctx, videoID)
	if err != nil {
		return nil, info, err
	}
	s.logger.Info("scraping job started", "runId", run.ID, "videoId", videoID)

	status, err := s.awaitRun(ctx, run.ID)
	if err != nil {
		return nil, info, err
	}
	if status != "SUCCEEDED" {
		return nil, info, fmt.Errorf("%w: scraping job ended with status %s", core.ErrUpstreamFailure, status)
	}

	items, err := s.fetchItems(ctx, run.DefaultDatasetID)
	if err != nil {
		return nil, info, err
	}

	comments := make([]core.Comment, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Text) == "" {
			continue
		}
		comments = append(comments, core.Comment{
			Text:        item.Text,
			Author:      coalesce(item.Author, "Anonymous"),
			Likes:       max(item.Likes, item.VotesCount),
			PublishedAt: coalesce(item.PublishedAt, item.Date),
			ReplyCount:  max(item.ReplyCount, item.RepliesCount),
		})
	}
	if len(comments) > s.maxComments {
		comments = comments[:s.maxComments]
	}

	info = core.VideoInfo{
		Title:   "Video " + videoID,
		Channel: "Unknown Channel",
		URL:     core.WatchURL(videoID),
	}
	if len(items) > 0 {
		if items[0].VideoTitle != "" {
			info.Title = items[0].VideoTitle
		}
		if channel := coalesce(items[0].ChannelName, items[0].Author); channel != "" {
			info.Channel = channel
		}
	}

	s.logger.Info("scraping job finished", "runId", run.ID, "comments", len(comments))
	return comments, info, nil
}

func (s *actorSource) startRun(ctx context.Context, videoID string) (*actorRunData, error) {
	payload := map[string]any{
		"startUrls":   []string{core.WatchURL(videoID)},
		"maxComments": s.maxComments,
		"maxReplies":  0,
		"sortBy":      "top",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s", s.baseURL, s.actorID, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start scraping job: %v", core.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		s.logger.Error("job start rejected", "status", resp.StatusCode, "body", string(text))
		return nil, fmt.Errorf("%w: failed to start scraping job (status %d)", core.ErrUpstreamFailure, resp.StatusCode)
	}

	var envelope actorRunEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed job start response: %v", core.ErrUpstreamFailure, err)
	}
	return &envelope.Data, nil
}

// awaitRun polls the job status on the fixed interval until it leaves the
// running state or the ceiling is reached. Sleeps are cancellable by ctx.
func (s *actorSource) awaitRun(ctx context.Context, runID string) (string, error) {
	start := time.Now()
	status := "RUNNING"

	for status == "RUNNING" || status == "READY" {
		if time.Since(start) > s.pollCeiling {
			return "", fmt.Errorf("%w: scraping did not finish within %s; try a video with fewer comments", core.ErrUpstreamTimeout, s.pollCeiling)
		}

		timer := time.NewTimer(s.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("%w: scraping cancelled: %v", core.ErrUpstreamTimeout, ctx.Err())
		case <-timer.C:
		}

		next, err := s.runStatus(ctx, runID)
		if err != nil {
			return "", err
		}
		status = next
		s.logger.Debug("job status", "runId", runID, "status", status)
	}
	return status, nil
}

func (s *actorSource) runStatus(ctx context.Context, runID string) (string, error) {
	url := fmt.Sprintf("%s/v2/actor-runs/%s?token=%s", s.baseURL, runID, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: status check failed: %v", core.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	var envelope actorRunEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("%w: malformed status response: %v", core.ErrUpstreamFailure, err)
	}
	return envelope.Data.Status, nil
}

func (s *actorSource) fetchItems(ctx context.Context, datasetID string) ([]actorItem, error) {
	url := fmt.Sprintf("%s/v2/datasets/%s/items?token=%s&format=json", s.baseURL, datasetID, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch job results: %v", core.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: failed to fetch job results (status %d)", core.ErrUpstreamFailure, resp.StatusCode)
	}

	var items []actorItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: malformed job results: %v", core.ErrUpstreamFailure, err)
	}
	return items, nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
