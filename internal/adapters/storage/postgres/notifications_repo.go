package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vetcare-api/internal/domain/notifications"
)

type NotificationsRepo struct {
	db *sql.DB
}

func NewNotificationsRepo(db *sql.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

func (r *NotificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notificaciones (id, user_id, kind, message, read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		n.ID,
		n.UserID,
		n.Kind,
		n.Message,
		n.Read,
		n.CreatedAt,
	)
	return err
}

func (r *NotificationsRepo) ListByUser(ctx context.Context, userID string) ([]notifications.Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, kind, message, read, created_at
		FROM notificaciones
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		var n notifications.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationsRepo) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notificaciones
		SET read = TRUE
		WHERE id = $1
		  AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return notifications.ErrNotFound
	}
	return nil
}
