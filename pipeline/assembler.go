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
	"time"

	"github.com/poiesic/commentlens/ai"
	"github.com/poiesic/commentlens/core"
)

// displayTopN is the size of the recomputed top-comment views.
const displayTopN = 5

// Assemble merges the model's raw output with deterministically derived
// views into a complete AnalysisResult.
//
// Sections the model omitted are filled per field: a missing sentiment
// breakdown defaults to {33,33,34} with tone "Mixed", missing lists default
// to empty. The top-comment views are always recomputed from the full
// retrieved set, never taken from the model, so display statistics reflect
// true totals rather than the inference excerpt.
func Assemble(raw *ai.Analysis, fullSet []core.Comment, video core.VideoInfo, totalCount int, now time.Time) *core.AnalysisResult {
	if raw == nil {
		raw = &ai.Analysis{}
	}

	result := &core.AnalysisResult{
		VideoInfo: core.VideoMeta{
			Title:                 video.Title,
			Channel:               video.Channel,
			URL:                   video.URL,
			TotalCommentsAnalyzed: totalCount,
			AnalysisTimestamp:     now.UTC().Format(time.RFC3339),
		},
		KnowledgeGaps:          defaultItems(raw.KnowledgeGaps),
		DemandSignals:          defaultItems(raw.DemandSignals),
		MythsAndMisconceptions: defaultItems(raw.MythsAndMisconceptions),
		PainPoints:             defaultItems(raw.PainPoints),
		TopComments: core.TopComments{
			MostLiked:     defaultComments(TopK(RankByLikes(fullSet), displayTopN)),
			MostDiscussed: defaultComments(TopK(RankByReplies(fullSet), displayTopN)),
		},
		Recommendations: defaultStrings(raw.Recommendations),
	}

	if raw.SentimentAnalysis != nil {
		result.SentimentAnalysis = *raw.SentimentAnalysis
		result.SentimentAnalysis.Drivers.PositiveDrivers = defaultStrings(result.SentimentAnalysis.Drivers.PositiveDrivers)
		result.SentimentAnalysis.Drivers.NegativeDrivers = defaultStrings(result.SentimentAnalysis.Drivers.NegativeDrivers)
	} else {
		result.SentimentAnalysis = core.SentimentAnalysis{
			Breakdown:   core.SentimentBreakdown{Positive: 33, Negative: 33, Neutral: 34},
			OverallTone: "Mixed",
			Drivers: core.SentimentDrivers{
				PositiveDrivers: []string{},
				NegativeDrivers: []string{},
			},
		}
	}

	if raw.LikesAndResonance != nil {
		result.LikesAndResonance = core.Resonance{
			WhatResonated: defaultItems(raw.LikesAndResonance.WhatResonated),
			WhatFellFlat:  defaultItems(raw.LikesAndResonance.WhatFellFlat),
		}
	} else {
		result.LikesAndResonance = core.Resonance{
			WhatResonated: []core.InsightItem{},
			WhatFellFlat:  []core.InsightItem{},
		}
	}

	return result
}

func defaultItems(items []core.InsightItem) []core.InsightItem {
	if items == nil {
		return []core.InsightItem{}
	}
	return items
}

func defaultComments(comments []core.Comment) []core.Comment {
	if comments == nil {
		return []core.Comment{}
	}
	return comments
}

func defaultStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
