package badger

import (
	"github.com/poiesic/commentlens/storage"
)

// NewMemoryRepository creates an in-memory analysis repository for tests.
// Closing the repository closes the backing store.
func NewMemoryRepository() (storage.AnalysisRepository, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return NewAnalysisRepository(backend)
}
