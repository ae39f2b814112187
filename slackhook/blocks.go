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
	"fmt"
	"strings"

	"github.com/poiesic/commentlens/core"
)

// sectionTopN caps how many entries of each insight list appear in the
// delivered result message.
const sectionTopN = 3

// Message is one response URL payload.
type Message struct {
	ResponseType string  `json:"response_type,omitempty"`
	Text         string  `json:"text"`
	Blocks       []Block `json:"blocks,omitempty"`
}

// Block is a single layout block. Only the fields relevant to the block
// type are set.
type Block struct {
	Type     string    `json:"type"`
	Text     *Text     `json:"text,omitempty"`
	Elements []Element `json:"elements,omitempty"`
}

// Text is a plain_text or mrkdwn text object.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Element is an interactive block element, currently only link buttons.
type Element struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text,omitempty"`
	URL      string `json:"url,omitempty"`
	ActionID string `json:"action_id,omitempty"`
}

func mrkdwn(text string) Block {
	return Block{Type: "section", Text: &Text{Type: "mrkdwn", Text: text}}
}

func divider() Block {
	return Block{Type: "divider"}
}

// UsageMessage is the ephemeral hint shown when the command carries no
// argument.
func UsageMessage() *Message {
	return &Message{
		ResponseType: "ephemeral",
		Text:         "Please provide a YouTube URL\n\nUsage: `/analyze https://www.youtube.com/watch?v=...`",
	}
}

// InvalidURLMessage is the ephemeral hint shown for an unrecognized URL.
func InvalidURLMessage() *Message {
	return &Message{
		ResponseType: "ephemeral",
		Text:         "Invalid YouTube URL. Please provide a valid YouTube video link.",
	}
}

// AckMessage is the immediate acknowledgement returned inside the slash
// command response window.
func AckMessage(videoURL string) *Message {
	return &Message{
		ResponseType: "ephemeral",
		Text:         "Analyzing YouTube video...",
		Blocks: []Block{
			mrkdwn("*Analyzing YouTube video...*\n\nThis may take a few minutes. I'll update you when it's done!"),
			mrkdwn(fmt.Sprintf("Video: `%s`", videoURL)),
		},
	}
}

// ProgressMessage reports retrieval completion.
func ProgressMessage(totalComments int) *Message {
	return &Message{
		Text: fmt.Sprintf("Retrieved %d comments. Analyzing...", totalComments),
		Blocks: []Block{
			mrkdwn(fmt.Sprintf("*Retrieved %d comments*\n\nRunning analysis...", totalComments)),
		},
	}
}

// NoContentMessage reports a video with no retrievable comments.
func NoContentMessage(videoURL string) *Message {
	return &Message{
		Text: "No comments to analyze",
		Blocks: []Block{
			mrkdwn(fmt.Sprintf("*No comments to analyze*\n\n`%s` has no retrievable comments. They may be disabled for this video.", videoURL)),
		},
	}
}

// FailureMessage reports the terminal error of a failed job.
func FailureMessage(cause error) *Message {
	detail := "Unknown error"
	if cause != nil {
		detail = cause.Error()
	}
	return &Message{
		Text: "Analysis failed",
		Blocks: []Block{
			mrkdwn(fmt.Sprintf("*Analysis failed*\n\n%s", detail)),
		},
	}
}

// ResultMessage renders the completed analysis: header, video summary,
// sentiment, the leading entries of each insight list and a link back to
// the video. Empty sections are skipped.
func ResultMessage(record *core.AnalysisRecord) *Message {
	analysis := record.Analysis

	blocks := []Block{
		{Type: "header", Text: &Text{Type: "plain_text", Text: "Analysis Complete"}},
		mrkdwn(fmt.Sprintf("*%s*\nby %s\nAnalyzed %d comments", record.VideoTitle, record.VideoChannel, record.TotalComments)),
		divider(),
	}

	if analysis != nil {
		sentiment := analysis.SentimentAnalysis
		blocks = append(blocks, mrkdwn(fmt.Sprintf(
			"*Sentiment Breakdown*\nPositive: %d%%\nNegative: %d%%\nNeutral: %d%%\nOverall tone: %s",
			sentiment.Breakdown.Positive, sentiment.Breakdown.Negative, sentiment.Breakdown.Neutral, sentiment.OverallTone)))
		if section := bulletList("Positive Drivers", sentiment.Drivers.PositiveDrivers); section != nil {
			blocks = append(blocks, *section)
		}
		if section := bulletList("Negative Drivers", sentiment.Drivers.NegativeDrivers); section != nil {
			blocks = append(blocks, *section)
		}
		blocks = append(blocks, divider())

		for _, section := range []struct {
			title string
			items []core.InsightItem
		}{
			{"Knowledge Gaps", analysis.KnowledgeGaps},
			{"Demand Signals", analysis.DemandSignals},
			{"Pain Points", analysis.PainPoints},
		} {
			if rendered := insightList(section.title, section.items); rendered != nil {
				blocks = append(blocks, *rendered, divider())
			}
		}

		if section := bulletList("Recommendations", analysis.Recommendations); section != nil {
			blocks = append(blocks, *section)
		}
	}

	blocks = append(blocks, divider(), Block{
		Type: "actions",
		Elements: []Element{
			{
				Type:     "button",
				Text:     &Text{Type: "plain_text", Text: "Open Video"},
				URL:      record.VideoURL,
				ActionID: "view_video",
			},
		},
	})

	return &Message{
		Text:   fmt.Sprintf("Analysis complete for: %s", record.VideoTitle),
		Blocks: blocks,
	}
}

func bulletList(title string, entries []string) *Block {
	if len(entries) == 0 {
		return nil
	}
	if len(entries) > sectionTopN {
		entries = entries[:sectionTopN]
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*", title)
	for _, entry := range entries {
		fmt.Fprintf(&sb, "\n• %s", entry)
	}
	block := mrkdwn(sb.String())
	return &block
}

func insightList(title string, items []core.InsightItem) *Block {
	if len(items) == 0 {
		return nil
	}
	if len(items) > sectionTopN {
		items = items[:sectionTopN]
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*", title)
	for _, item := range items {
		fmt.Fprintf(&sb, "\n• %s", item.Text)
	}
	block := mrkdwn(sb.String())
	return &block
}
