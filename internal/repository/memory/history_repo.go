package memory

import (
	"fmt"

	"paystream/internal/domain"
	"paystream/internal/repository"
)

// HistoryRepository is the in-memory transaction history arena. It only ever
// grows: one entry per accepted deposit or withdrawal for the lifetime of
// the process.
type HistoryRepository struct {
	entries map[uint32]*domain.HistoryEntry
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{
		entries: make(map[uint32]*domain.HistoryEntry),
	}
}

func (r *HistoryRepository) Append(entry *domain.HistoryEntry) error {
	if _, exists := r.entries[entry.Tx]; exists {
		return fmt.Errorf("%w: tx %d", repository.ErrDuplicate, entry.Tx)
	}
	r.entries[entry.Tx] = entry
	return nil
}

func (r *HistoryRepository) Get(tx uint32) (*domain.HistoryEntry, error) {
	entry, exists := r.entries[tx]
	if !exists {
		return nil, fmt.Errorf("%w: tx %d", repository.ErrNotFound, tx)
	}
	return entry, nil
}

func (r *HistoryRepository) Contains(tx uint32) bool {
	_, exists := r.entries[tx]
	return exists
}

func (r *HistoryRepository) Len() int {
	return len(r.entries)
}
