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


package badger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/commentlens/core"
	"github.com/poiesic/commentlens/storage"
)

// AnalysisRepository implements storage.AnalysisRepository on BadgerDB.
// Records are stored as JSON values; a BigEndian time-ordered index key
// supports newest-first listing via reverse iteration.
type AnalysisRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.AnalysisRepository = (*AnalysisRepository)(nil)

// NewAnalysisRepository creates a repository on the given backend.
//
// Returns the storage.AnalysisRepository interface to enforce abstraction.
func NewAnalysisRepository(backend *Backend) (storage.AnalysisRepository, error) {
	if backend == nil {
		return nil, errors.New("badger: backend is required")
	}
	return &AnalysisRepository{
		backend: backend,
		logger:  slog.Default().With("component", "analysis-repository"),
	}, nil
}

// SaveAnalysis stores a completed analysis record and its date index entry.
func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, record *core.AnalysisRecord) (*core.AnalysisRecord, error) {
	if err := core.ValidateAnalysisRecord(record); err != nil {
		return nil, err
	}

	stored := *record
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	value, err := json.Marshal(&stored)
	if err != nil {
		return nil, err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeAnalysisKey(stored.ID), value); err != nil {
			return err
		}
		return tx.Set(makeAnalysisDateKey(stored.CreatedAt, stored.ID), []byte(stored.ID))
	}, true)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("analysis saved", "id", stored.ID, "videoId", stored.VideoID)
	return &stored, nil
}

// GetAnalysis retrieves a single record by ID.
func (r *AnalysisRepository) GetAnalysis(ctx context.Context, id string) (*core.AnalysisRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: analysis ID is required", core.ErrInvalidInput)
	}

	var record core.AnalysisRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeAnalysisKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: analysis %s", core.ErrNotFound, id)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListAnalyses returns summaries of the most recent records, newest first.
func (r *AnalysisRepository) ListAnalyses(ctx context.Context, limit int) ([]*core.AnalysisSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	var summaries []*core.AnalysisSummary
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the newest possible date key, then walk backwards.
		startKey := makePartialAnalysisDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(analysisDatePrefix + ":")

		for iter.Seek(startKey); iter.Valid() && len(summaries) < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || !bytes.Equal(key[:len(prefix)], prefix) {
				break
			}

			var id string
			if err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			item, err := tx.Get(makeAnalysisKey(id))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					// Dangling index entry; skip.
					r.logger.Warn("date index points at missing record", "id", id)
					continue
				}
				return err
			}

			var record core.AnalysisRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			summaries = append(summaries, record.Summary())
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if summaries == nil {
		summaries = []*core.AnalysisSummary{}
	}
	return summaries, nil
}

// Close closes the underlying backend.
func (r *AnalysisRepository) Close() error {
	return r.backend.Close()
}
