package retrieval

import (
	"context"

	"github.com/poiesic/commentlens/core"
)

// Source retrieves the comments and metadata for one video.
// Implementations must be thread-safe for concurrent use and must honor
// ctx cancellation on every outbound call and poll sleep.
type Source interface {
	// Fetch returns the video's comments, clipped to the configured cap,
	// together with the video metadata the provider reports. Ordering of
	// the returned comments is the provider's; callers re-derive ranking.
	//
	// A video with zero retrievable comments (including a disabled comment
	// stream) yields an empty slice and a nil error.
	Fetch(ctx context.Context, videoID string) ([]core.Comment, core.VideoInfo, error)
}
