package notifications

import "context"

type Repository interface {
	Create(ctx context.Context, n Notification) error

	// ListByUser: más recientes primero.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)

	MarkRead(ctx context.Context, id, userID string) error
}
