package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"vetcare-api/internal/domain/history"
)

type historyRepo struct {
	mu   sync.RWMutex
	byID map[string]history.Entry
}

func NewHistoryRepo() history.Repository {
	return &historyRepo{
		byID: make(map[string]history.Entry),
	}
}

func (r *historyRepo) Append(ctx context.Context, e history.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("entry id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("entry already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *historyRepo) ListByPet(ctx context.Context, petID string) ([]history.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]history.Entry, 0)
	for _, e := range r.byID {
		if e.PetID == petID {
			out = append(out, e)
		}
	}

	// Más reciente primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out, nil
}
