package memory

import (
	"context"
	"errors"
	"sync"

	"vetcare-api/internal/domain/users"
)

type userRepo struct {
	mu      sync.RWMutex
	owners  map[string]users.User
	clinics map[string]users.User
}

func NewUsersRepo() users.Repository {
	return &userRepo{
		owners:  make(map[string]users.User),
		clinics: make(map[string]users.User),
	}
}

func (r *userRepo) CreateOwner(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return errors.New("user id required")
	}
	if _, exists := r.owners[u.ID]; exists {
		return errors.New("owner already exists")
	}
	r.owners[u.ID] = u
	return nil
}

func (r *userRepo) CreateClinic(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return errors.New("user id required")
	}
	if _, exists := r.clinics[u.ID]; exists {
		return errors.New("clinic already exists")
	}
	r.clinics[u.ID] = u
	return nil
}

func (r *userRepo) GetOwner(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.owners[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetClinic(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.clinics[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}
