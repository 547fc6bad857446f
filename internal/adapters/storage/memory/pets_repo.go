package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"vetcare-api/internal/domain/pets"
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetsRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID && p.Active {
			out = append(out, p)
		}
	}

	// Orden estable por created_at asc (consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// AddAuthorizedClinic emula la unión atómica de set del store: idempotente.
func (r *petRepo) AddAuthorizedClinic(ctx context.Context, petID, clinicID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return pets.ErrNotFound
	}
	for _, id := range p.AuthorizedClinicIDs {
		if id == clinicID {
			return nil
		}
	}
	p.AuthorizedClinicIDs = append(p.AuthorizedClinicIDs, clinicID)
	p.UpdatedAt = at
	r.byID[petID] = p
	return nil
}

func (r *petRepo) RemoveAuthorizedClinic(ctx context.Context, petID, clinicID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return pets.ErrNotFound
	}

	kept := make([]string, 0, len(p.AuthorizedClinicIDs))
	removed := false
	for _, id := range p.AuthorizedClinicIDs {
		if id == clinicID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		return nil
	}
	p.AuthorizedClinicIDs = kept
	p.UpdatedAt = at
	r.byID[petID] = p
	return nil
}

func (r *petRepo) SetActive(ctx context.Context, petID string, active bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return pets.ErrNotFound
	}
	p.Active = active
	p.UpdatedAt = at
	r.byID[petID] = p
	return nil
}

func (r *petRepo) TouchSummary(ctx context.Context, petID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return pets.ErrNotFound
	}
	p.UpdatedAt = at
	r.byID[petID] = p
	return nil
}

func (r *petRepo) SetVaccinationSummary(ctx context.Context, petID string, last, next time.Time, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return pets.ErrNotFound
	}
	l := last
	n := next
	p.LastVaccination = &l
	p.NextVaccination = &n
	p.UpdatedAt = at
	r.byID[petID] = p
	return nil
}
