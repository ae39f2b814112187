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


package core

import (
	"fmt"
	"regexp"
	"strings"
)

var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/v/)([^&\n?#]+)`),
	regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`),
}

// ExtractVideoID pulls the video identifier out of a YouTube URL.
// Accepts watch, short-link, embed and /v/ forms, plus a bare 11-character ID.
// Returns ErrInvalidInput when no identifier can be found.
func ExtractVideoID(url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("%w: video URL is required", ErrInvalidInput)
	}
	for _, pattern := range videoURLPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: not a recognized YouTube URL: %s", ErrInvalidInput, url)
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ValidateAnalysisRecord checks that a record carries the fields required
// for persistence.
func ValidateAnalysisRecord(record *AnalysisRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidInput)
	}
	if record.VideoID == "" {
		return fmt.Errorf("%w: videoId is required", ErrInvalidInput)
	}
	if record.VideoTitle == "" {
		return fmt.Errorf("%w: videoTitle is required", ErrInvalidInput)
	}
	if record.Analysis == nil {
		return fmt.Errorf("%w: analysis is required", ErrInvalidInput)
	}
	return nil
}
