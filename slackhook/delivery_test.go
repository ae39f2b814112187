package slackhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/commentlens/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ pipeline.ProgressNotifier = (*Notifier)(nil)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifierNotify(t *testing.T) {
	var got Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewNotifier(WithNotifierLogger(testLogger()))
	err := notifier.Notify(context.Background(), server.URL, ProgressMessage(42))
	require.NoError(t, err)
	assert.Contains(t, got.Text, "42")
}

func TestNotifierNotifyRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	notifier := NewNotifier(WithNotifierLogger(testLogger()))
	err := notifier.Notify(context.Background(), server.URL, UsageMessage())
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}

func TestNotifierSkipsJobsWithoutResponseURL(t *testing.T) {
	notifier := NewNotifier(WithNotifierLogger(testLogger()))
	job := pipeline.NewJob("vid", "url", "", "")

	assert.NoError(t, notifier.Retrieved(context.Background(), job, 10))
	assert.NoError(t, notifier.NoContent(context.Background(), job))
	assert.NoError(t, notifier.Completed(context.Background(), job, sampleRecord()))
	assert.NoError(t, notifier.Failed(context.Background(), job, assert.AnError))
}

func TestNotifierCompletedDeliversResultBlocks(t *testing.T) {
	var got Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer server.Close()

	notifier := NewNotifier(WithNotifierLogger(testLogger()))
	job := pipeline.NewJob("abc123DEF45", "https://youtu.be/abc123DEF45", "", server.URL)

	require.NoError(t, notifier.Completed(context.Background(), job, sampleRecord()))
	require.NotEmpty(t, got.Blocks)
	assert.Equal(t, "header", got.Blocks[0].Type)
}
