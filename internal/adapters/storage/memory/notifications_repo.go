package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"vetcare-api/internal/domain/notifications"
)

type notificationRepo struct {
	mu   sync.RWMutex
	byID map[string]notifications.Notification
}

func NewNotificationsRepo() notifications.Repository {
	return &notificationRepo{
		byID: make(map[string]notifications.Notification),
	}
}

func (r *notificationRepo) Create(ctx context.Context, n notifications.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		return errors.New("notification id required")
	}
	if _, exists := r.byID[n.ID]; exists {
		return errors.New("notification already exists")
	}
	r.byID[n.ID] = n
	return nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string) ([]notifications.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notifications.Notification, 0)
	for _, n := range r.byID {
		if n.UserID == userID {
			out = append(out, n)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok || n.UserID != userID {
		return notifications.ErrNotFound
	}
	n.Read = true
	r.byID[id] = n
	return nil
}
