package pipeline

import (
	"slices"

	"github.com/poiesic/commentlens/core"
)

// RankByLikes returns a copy of comments sorted by like count descending.
// The sort is stable: comments with equal likes keep their original
// provider order, which makes truncation deterministic.
func RankByLikes(comments []core.Comment) []core.Comment {
	ranked := slices.Clone(comments)
	slices.SortStableFunc(ranked, func(a, b core.Comment) int {
		return b.Likes - a.Likes
	})
	return ranked
}

// RankByReplies returns a copy of comments sorted by reply count
// descending, stable like RankByLikes.
func RankByReplies(comments []core.Comment) []core.Comment {
	ranked := slices.Clone(comments)
	slices.SortStableFunc(ranked, func(a, b core.Comment) int {
		return b.ReplyCount - a.ReplyCount
	})
	return ranked
}

// TopK clips a ranked sequence to its first k entries.
func TopK(ranked []core.Comment, k int) []core.Comment {
	if k < 0 {
		k = 0
	}
	if len(ranked) > k {
		return ranked[:k]
	}
	return ranked
}
