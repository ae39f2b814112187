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
	"net/http"
	"strconv"

	"github.com/poiesic/commentlens/core"
	"github.com/poiesic/commentlens/pipeline"
)

type retrieveRequest struct {
	VideoURL string `json:"videoUrl"`
}

type retrieveResponse struct {
	Success       bool           `json:"success"`
	Comments      []core.Comment `json:"comments"`
	VideoInfo     core.VideoInfo `json:"videoInfo"`
	TotalComments int            `json:"totalComments"`
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", core.ErrInvalidInput))
		return
	}

	videoID, err := core.ExtractVideoID(req.VideoURL)
	if err != nil {
		writeError(w, err)
		return
	}

	comments, video, err := s.source.Fetch(r.Context(), videoID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, retrieveResponse{
		Success:       true,
		Comments:      comments,
		VideoInfo:     video,
		TotalComments: len(comments),
	})
}

type analyzeRequest struct {
	Comments      []core.Comment `json:"comments"`
	VideoInfo     core.VideoInfo `json:"videoInfo"`
	TotalComments int            `json:"totalComments"`
	Model         string         `json:"model"`
}

type analyzeResponse struct {
	Success    bool                 `json:"success"`
	Analysis   *core.AnalysisResult `json:"analysis"`
	ModelUsed  string               `json:"model_used"`
	TokensUsed core.TokenUsage      `json:"tokens_used"`
}

// handleAnalyze is the synchronous inference path: the caller supplies
// the comments and waits for the assembled result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", core.ErrInvalidInput))
		return
	}
	if len(req.Comments) == 0 {
		writeError(w, fmt.Errorf("%w: comments are required", core.ErrInvalidInput))
		return
	}

	totalCount := req.TotalComments
	if totalCount < len(req.Comments) {
		totalCount = len(req.Comments)
	}
	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	excerpt := pipeline.TopK(pipeline.RankByLikes(req.Comments), s.topK)
	raw, usage, err := s.analyzer.Analyze(r.Context(), req.VideoInfo, excerpt, totalCount, model)
	if err != nil {
		writeError(w, err)
		return
	}

	result := pipeline.Assemble(raw, req.Comments, req.VideoInfo, totalCount, s.now())

	used := model
	if used == "" {
		used = core.DefaultModel()
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:    true,
		Analysis:   result,
		ModelUsed:  used,
		TokensUsed: usage,
	})
}

type listHistoryResponse struct {
	Success  bool                    `json:"success"`
	Analyses []*core.AnalysisSummary `json:"analyses"`
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		writeError(w, fmt.Errorf("%w: history storage is not configured", core.ErrNotFound))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, fmt.Errorf("%w: limit must be a non-negative integer", core.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	summaries, err := s.repo.ListAnalyses(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listHistoryResponse{Success: true, Analyses: summaries})
}

type getHistoryResponse struct {
	Success  bool                 `json:"success"`
	Analysis *core.AnalysisRecord `json:"analysis"`
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		writeError(w, fmt.Errorf("%w: history storage is not configured", core.ErrNotFound))
		return
	}

	record, err := s.repo.GetAnalysis(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, getHistoryResponse{Success: true, Analysis: record})
}

type saveHistoryResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

func (s *Server) handleSaveHistory(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		writeError(w, fmt.Errorf("%w: history storage is not configured", core.ErrNotFound))
		return
	}

	var record core.AnalysisRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", core.ErrInvalidInput))
		return
	}
	if err := core.ValidateAnalysisRecord(&record); err != nil {
		writeError(w, err)
		return
	}

	saved, err := s.repo.SaveAnalysis(r.Context(), &record)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saveHistoryResponse{Success: true, ID: saved.ID})
}

type listModelsResponse struct {
	Success bool               `json:"success"`
	Models  []core.ModelOption `json:"models"`
	Default string             `json:"default"`
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listModelsResponse{
		Success: true,
		Models:  core.AvailableModels,
		Default: core.DefaultModel(),
	})
}
