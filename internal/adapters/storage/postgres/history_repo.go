package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vetcare-api/internal/domain/history"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Append(ctx context.Context, e history.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO historial (
			id, pet_id, author_id, author_name,
			type, recorded_at, title, description,
			vaccine_kind, active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		e.ID,
		e.PetID,
		e.AuthorID,
		e.AuthorName,
		string(e.Type),
		e.RecordedAt,
		e.Title,
		e.Description,
		string(e.VaccineKind),
		e.Active,
	)
	return err
}

func (r *HistoryRepo) ListByPet(ctx context.Context, petID string) ([]history.Entry, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, pet_id, author_id, author_name,
			type, recorded_at, title, description,
			vaccine_kind, active
		FROM historial
		WHERE pet_id = $1
		ORDER BY recorded_at DESC, id DESC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]history.Entry, 0)
	for rows.Next() {
		var e history.Entry
		var entryType, vaccineKind string

		if err := rows.Scan(
			&e.ID,
			&e.PetID,
			&e.AuthorID,
			&e.AuthorName,
			&entryType,
			&e.RecordedAt,
			&e.Title,
			&e.Description,
			&vaccineKind,
			&e.Active,
		); err != nil {
			return nil, err
		}

		e.Type = history.EntryType(entryType)
		e.VaccineKind = history.VaccineKind(vaccineKind)
		out = append(out, e)
	}
	return out, rows.Err()
}
