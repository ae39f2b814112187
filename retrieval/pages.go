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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/poiesic/commentlens/core"
)

// pagedSource retrieves comments by walking the provider's paged comment
// thread API. A page failure after at least one successful page returns the
// accumulated set as success: partial data beats total failure.
type pagedSource struct {
	baseURL     string
	apiKey      string
	pageSize    int
	maxComments int
	client      *http.Client
	logger      *slog.Logger
}

func newPagedSource(config *Config) *pagedSource {
	return &pagedSource{
		baseURL:     strings.TrimSuffix(config.PagesBaseURL, "/"),
		apiKey:      config.PagesAPIKey,
		pageSize:    config.PageSize,
		maxComments: config.MaxComments,
		client:      config.HTTPClient,
		logger:      slog.Default().With("component", "paged-source"),
	}
}

type commentThreadPage struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			TotalReplyCount int `json:"totalReplyCount"`
			TopLevelComment struct {
				Snippet struct {
					TextDisplay       string `json:"textDisplay"`
					AuthorDisplayName string `json:"authorDisplayName"`
					LikeCount         int    `json:"likeCount"`
					PublishedAt       string `json:"publishedAt"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// Fetch walks comment pages until the cap is reached or pages run out.
// A disabled comment stream yields an empty, non-error result.
func (s *pagedSource) Fetch(ctx context.Context, videoID string) ([]core.Comment, core.VideoInfo, error) {
	info := s.videoInfo(ctx, videoID)

	comments := make([]core.Comment, 0, s.pageSize)
	pageToken := ""
	pages := 0

	for {
		page, disabled, err := s.fetchPage(ctx, videoID, pageToken)
		if err != nil {
			if pages > 0 {
				// Partial data beats total failure.
				s.logger.Warn("page request failed after partial retrieval",
					"videoId", videoID, "pages", pages, "comments", len(comments), "err", err)
				break
			}
			return nil, info, err
		}
		if disabled {
			s.logger.Info("comments disabled for video", "videoId", videoID)
			return []core.Comment{}, info, nil
		}
		pages++

		for _, item := range page.Items {
			cs := item.Snippet.TopLevelComment.Snippet
			if strings.TrimSpace(cs.TextDisplay) == "" {
				continue
			}
			comments = append(comments, core.Comment{
				Text:        cs.TextDisplay,
				Author:      coalesce(cs.AuthorDisplayName, "Anonymous"),
				Likes:       cs.LikeCount,
				PublishedAt: cs.PublishedAt,
				ReplyCount:  item.Snippet.TotalReplyCount,
			})
		}

		if len(comments) >= s.maxComments || page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	if len(comments) > s.maxComments {
		comments = comments[:s.maxComments]
	}

	s.logger.Info("paged retrieval finished", "videoId", videoID, "pages", pages, "comments", len(comments))
	return comments, info, nil
}

// fetchPage requests one page of comment threads. The disabled return is
// true when the provider reports the comment stream is turned off.
func (s *pagedSource) fetchPage(ctx context.Context, videoID, pageToken string) (*commentThreadPage, bool, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("videoId", videoID)
	query.Set("maxResults", strconv.Itoa(s.pageSize))
	query.Set("order", "relevance")
	query.Set("textFormat", "plainText")
	query.Set("key", s.apiKey)
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/commentThreads?"+query.Encode(), nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: page request failed: %v", core.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)

		var apiErr apiErrorBody
		if json.Unmarshal(body, &apiErr) == nil {
			for _, e := range apiErr.Error.Errors {
				if e.Reason == "commentsDisabled" {
					return nil, true, nil
				}
			}
			if apiErr.Error.Message != "" {
				return nil, false, fmt.Errorf("%w: %s", core.ErrUpstreamFailure, apiErr.Error.Message)
			}
		}
		return nil, false, fmt.Errorf("%w: page request failed (status %d)", core.ErrUpstreamFailure, resp.StatusCode)
	}

	var page commentThreadPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, false, fmt.Errorf("%w: malformed page response: %v", core.ErrUpstreamFailure, err)
	}
	return &page, false, nil
}

// videoInfo looks up the video's title and channel. Lookup failures fall
// back to placeholder metadata; retrieval proceeds regardless.
func (s *pagedSource) videoInfo(ctx context.Context, videoID string) core.VideoInfo {
	info := core.VideoInfo{
		Title:   "Video " + videoID,
		Channel: "Unknown Channel",
		URL:     core.WatchURL(videoID),
	}

	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("id", videoID)
	query.Set("key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/videos?"+query.Encode(), nil)
	if err != nil {
		return info
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("video metadata lookup failed", "videoId", videoID, "err", err)
		return info
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("video metadata lookup rejected", "videoId", videoID, "status", resp.StatusCode)
		return info
	}

	var payload struct {
		Items []struct {
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Items) == 0 {
		return info
	}

	if title := payload.Items[0].Snippet.Title; title != "" {
		info.Title = title
	}
	if channel := payload.Items[0].Snippet.ChannelTitle; channel != "" {
		info.Channel = channel
	}
	return info
}
