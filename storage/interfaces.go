package storage

import (
	"context"

	"github.com/poiesic/commentlens/core"
)

// AnalysisRepository provides operations for persisted analysis records.
// Implementations must be thread-safe and support concurrent access.
type AnalysisRepository interface {
	// SaveAnalysis stores a completed analysis. A record without an ID is
	// assigned one; CreatedAt is set if zero. Returns the stored record
	// with generated fields populated.
	SaveAnalysis(ctx context.Context, record *core.AnalysisRecord) (*core.AnalysisRecord, error)

	// GetAnalysis retrieves a single record by ID.
	// Returns core.ErrNotFound if the record doesn't exist.
	GetAnalysis(ctx context.Context, id string) (*core.AnalysisRecord, error)

	// ListAnalyses returns summaries of the most recent records, newest
	// first, up to limit entries.
	ListAnalyses(ctx context.Context, limit int) ([]*core.AnalysisSummary, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
