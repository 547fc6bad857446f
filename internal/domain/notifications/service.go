package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetcare-api/internal/platform/metrics"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Notify implementa la interface Notifier de pets/appointments. El caller
// decide qué hacer con el error (todos lo tratan como best-effort).
func (s *Service) Notify(ctx context.Context, userID, kind, message string) error {
	userID = strings.TrimSpace(userID)
	kind = strings.TrimSpace(kind)
	if userID == "" || kind == "" {
		return ErrInvalidInput
	}

	n := Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Message:   strings.TrimSpace(message),
		Read:      false,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	metrics.NotificationsEmitted.WithLabelValues(kind).Inc()
	return nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)
	if id == "" || userID == "" {
		return ErrInvalidInput
	}
	return s.repo.MarkRead(ctx, id, userID)
}
