package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/poiesic/commentlens/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePagedAPI simulates the paged comment API with a fixed page plan.
type fakePagedAPI struct {
	pages     [][]string // comment texts per page
	failAfter int        // fail requests for page indexes >= failAfter (-1: never)
	disabled  bool
	requests  int32
}

func (f *fakePagedAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /videos", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"snippet": map[string]any{"title": "Paged Video", "channelTitle": "Paged Channel"}},
			},
		})
	})
	mux.HandleFunc("GET /commentThreads", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.requests, 1)

		if f.disabled {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{
					"message": "The video identified by the videoId parameter has disabled comments.",
					"errors":  []map[string]any{{"reason": "commentsDisabled"}},
				},
			})
			return
		}

		pageIndex := 0
		if token := r.URL.Query().Get("pageToken"); token != "" {
			fmt.Sscanf(token, "page-%d", &pageIndex)
		}

		if f.failAfter >= 0 && pageIndex >= f.failAfter {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "backend error"},
			})
			return
		}

		items := make([]map[string]any, 0, len(f.pages[pageIndex]))
		for i, text := range f.pages[pageIndex] {
			items = append(items, map[string]any{
				"snippet": map[string]any{
					"totalReplyCount": i,
					"topLevelComment": map[string]any{
						"snippet": map[string]any{
							"textDisplay":       text,
							"authorDisplayName": fmt.Sprintf("user%d", i),
							"likeCount":         i,
							"publishedAt":       "2025-06-01T00:00:00Z",
						},
					},
				},
			})
		}

		page := map[string]any{"items": items}
		if pageIndex+1 < len(f.pages) || (f.failAfter >= 0 && pageIndex+1 == f.failAfter) {
			page["nextPageToken"] = fmt.Sprintf("page-%d", pageIndex+1)
		}
		json.NewEncoder(w).Encode(page)
	})
	return mux
}

func newPagedForTest(t *testing.T, f *fakePagedAPI, opts ...ConfigOption) Source {
	t.Helper()
	server := httptest.NewServer(f.handler())
	t.Cleanup(server.Close)

	base := []ConfigOption{
		WithStrategy(StrategyPages),
		WithPagesBaseURL(server.URL),
		WithPagesAPIKey("test-key"),
	}
	source, err := NewSource(NewConfig(append(base, opts...)...))
	require.NoError(t, err)
	return source
}

func texts(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s comment %d", prefix, i)
	}
	return out
}

func TestPagedFetchAccumulatesPages(t *testing.T) {
	fake := &fakePagedAPI{pages: [][]string{texts("a", 100), texts("b", 50)}, failAfter: -1}
	source := newPagedForTest(t, fake)

	comments, info, err := source.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Len(t, comments, 150)
	assert.Equal(t, "Paged Video", info.Title)
	assert.Equal(t, "Paged Channel", info.Channel)
}

func TestPagedFetchPartialPageFailure(t *testing.T) {
	// Two successful pages (150 items), then the third page request fails.
	fake := &fakePagedAPI{pages: [][]string{texts("a", 75), texts("b", 75)}, failAfter: 2}
	source := newPagedForTest(t, fake)

	comments, _, err := source.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err, "partial data beats total failure")
	assert.Len(t, comments, 150)
}

func TestPagedFetchFirstPageFailure(t *testing.T) {
	fake := &fakePagedAPI{pages: [][]string{}, failAfter: 0}
	source := newPagedForTest(t, fake)

	_, _, err := source.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.ErrorIs(t, err, core.ErrUpstreamFailure)
	assert.Contains(t, err.Error(), "backend error")
}

func TestPagedFetchCommentsDisabled(t *testing.T) {
	fake := &fakePagedAPI{disabled: true}
	source := newPagedForTest(t, fake)

	comments, _, err := source.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err, "disabled comments are an empty result, not an error")
	assert.Empty(t, comments)
}

func TestPagedFetchCapEnforcement(t *testing.T) {
	fake := &fakePagedAPI{pages: [][]string{texts("a", 100), texts("b", 100), texts("c", 100)}, failAfter: -1}
	source := newPagedForTest(t, fake, WithMaxComments(150))

	comments, _, err := source.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Len(t, comments, 150)

	// The walk stops once the cap is reached; the third page is never requested.
	assert.LessOrEqual(t, atomic.LoadInt32(&fake.requests), int32(2))
}
