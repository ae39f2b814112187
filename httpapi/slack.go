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
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/poiesic/commentlens/core"
	"github.com/poiesic/commentlens/pipeline"
	"github.com/poiesic/commentlens/slackhook"
)

// maxSlackBody caps how much of an inbound chat-ops request is read.
const maxSlackBody = 1 << 20

// verifiedBody reads the raw body and checks the request signature over
// it. Verification must see the exact bytes sent, so this runs before any
// parsing.
func (s *Server) verifiedBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	rawBody, err := io.ReadAll(io.LimitReader(r.Body, maxSlackBody))
	if err != nil {
		writeError(w, fmt.Errorf("%w: reading request body", core.ErrInvalidInput))
		return nil, false
	}

	ok := slackhook.VerifySignature(rawBody,
		r.Header.Get(slackhook.SignatureHeader),
		r.Header.Get(slackhook.TimestampHeader),
		s.signingSecret, s.now())
	if !ok {
		writeError(w, fmt.Errorf("%w: invalid request signature", core.ErrUnauthenticated))
		return nil, false
	}
	return rawBody, true
}

// handleSlackCommand acknowledges within the response window and hands
// the job to the background dispatcher.
func (s *Server) handleSlackCommand(w http.ResponseWriter, r *http.Request) {
	rawBody, ok := s.verifiedBody(w, r)
	if !ok {
		return
	}

	cmd, err := slackhook.ParseCommand(rawBody)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %s", core.ErrInvalidInput, err))
		return
	}

	if cmd.Text == "" {
		writeJSON(w, http.StatusOK, slackhook.UsageMessage())
		return
	}

	videoID, err := core.ExtractVideoID(cmd.Text)
	if err != nil {
		writeJSON(w, http.StatusOK, slackhook.InvalidURLMessage())
		return
	}

	if s.dispatcher == nil {
		writeError(w, fmt.Errorf("%w: background analysis is not configured", core.ErrInvalidInput))
		return
	}

	job := pipeline.NewJob(videoID, core.WatchURL(videoID), s.defaultModel, cmd.ResponseURL)
	if err := s.dispatcher.Dispatch(job); err != nil {
		s.logger.Error("failed to dispatch job", "videoId", videoID, "err", err)
		writeError(w, err)
		return
	}

	s.logger.Info("job dispatched", "jobId", job.ID, "videoId", videoID, "user", cmd.UserID)
	writeJSON(w, http.StatusOK, slackhook.AckMessage(core.WatchURL(videoID)))
}

type slackEvent struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
}

// handleSlackEvents answers the endpoint ownership challenge; other
// event types are acknowledged and dropped.
func (s *Server) handleSlackEvents(w http.ResponseWriter, r *http.Request) {
	rawBody, ok := s.verifiedBody(w, r)
	if !ok {
		return
	}

	var event slackEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		writeError(w, fmt.Errorf("%w: invalid event payload", core.ErrInvalidInput))
		return
	}

	if event.Type == "url_verification" {
		writeJSON(w, http.StatusOK, map[string]string{"challenge": event.Challenge})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
