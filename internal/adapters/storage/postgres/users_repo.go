package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vetcare-api/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) CreateOwner(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO duenos (id, email, display_name, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO NOTHING
	`,
		u.ID,
		u.Email,
		u.DisplayName,
		u.CreatedAt,
	)
	return err
}

func (r *UsersRepo) CreateClinic(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO veterinarias (id, email, display_name, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO NOTHING
	`,
		u.ID,
		u.Email,
		u.DisplayName,
		u.CreatedAt,
	)
	return err
}

func (r *UsersRepo) GetOwner(ctx context.Context, id string) (users.User, error) {
	return r.getFrom(ctx, "duenos", users.RoleOwner, id)
}

func (r *UsersRepo) GetClinic(ctx context.Context, id string) (users.User, error) {
	return r.getFrom(ctx, "veterinarias", users.RoleClinic, id)
}

func (r *UsersRepo) getFrom(ctx context.Context, table string, role users.Role, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, users.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, created_at
		FROM `+table+`
		WHERE id = $1
	`, id)

	var u users.User
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	u.Role = role
	return u, nil
}
