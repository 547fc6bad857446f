package notifications

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

type testRepo struct {
	byID map[string]Notification
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Notification{}}
}

func (r *testRepo) Create(ctx context.Context, n Notification) error {
	r.byID[n.ID] = n
	return nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	out := make([]Notification, 0)
	for _, n := range r.byID {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *testRepo) MarkRead(ctx context.Context, id, userID string) error {
	n, ok := r.byID[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	n.Read = true
	r.byID[id] = n
	return nil
}

func TestService_Notify_PersistsUnread(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if err := svc.Notify(context.Background(), "owner-1", "recordatorio", "turno mañana"); err != nil {
		t.Fatalf("Notify error: %v", err)
	}

	list, err := svc.ListByUser(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(list))
	}
	n := list[0]
	if n.Read || n.Kind != "recordatorio" || n.CreatedAt != now {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestService_Notify_InvalidInput(t *testing.T) {
	svc := NewService(newTestRepo())

	if err := svc.Notify(context.Background(), "", "k", "m"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.Notify(context.Background(), "u", "", "m"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_MarkRead_ScopedToUser(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_ = svc.Notify(context.Background(), "owner-1", "recordatorio", "x")
	list, _ := svc.ListByUser(context.Background(), "owner-1")

	// Otro usuario no puede marcarla.
	if err := svc.MarkRead(context.Background(), list[0].ID, "owner-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	if err := svc.MarkRead(context.Background(), list[0].ID, "owner-1"); err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}

	list, _ = svc.ListByUser(context.Background(), "owner-1")
	if !list[0].Read {
		t.Fatalf("expected notification marked read")
	}
}
