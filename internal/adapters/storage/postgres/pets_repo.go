package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"vetcare-api/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, owner_id, name, species, breed, birth_date,
	authorized_clinic_ids, active, qr_code_url,
	last_vaccination, next_vaccination,
	created_at, updated_at
`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mascotas (
			id, owner_id, name, species, breed, birth_date,
			authorized_clinic_ids, active, qr_code_url,
			last_vaccination, next_vaccination,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		p.OwnerID,
		p.Name,
		string(p.Species),
		p.Breed,
		toNullTime(p.BirthDate),
		clinicIDsOrEmpty(p.AuthorizedClinicIDs),
		p.Active,
		p.QRCodeURL,
		toNullTime(p.LastVaccination),
		toNullTime(p.NextVaccination),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+`
		FROM mascotas
		WHERE id = $1
	`, id)

	p, err := scanPet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM mascotas
		WHERE owner_id = $1
		  AND active
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddAuthorizedClinic hace la unión de set en el propio UPDATE: el guard
// `NOT (.. = ANY(..))` garantiza idempotencia sin read-modify-write.
func (r *PetsRepo) AddAuthorizedClinic(ctx context.Context, petID, clinicID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE mascotas
		SET
			authorized_clinic_ids = CASE
				WHEN $2 = ANY(authorized_clinic_ids) THEN authorized_clinic_ids
				ELSE array_append(authorized_clinic_ids, $2)
			END,
			updated_at = $3
		WHERE id = $1
	`, petID, clinicID, at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) RemoveAuthorizedClinic(ctx context.Context, petID, clinicID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE mascotas
		SET
			authorized_clinic_ids = array_remove(authorized_clinic_ids, $2),
			updated_at = $3
		WHERE id = $1
	`, petID, clinicID, at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) SetActive(ctx context.Context, petID string, active bool, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE mascotas
		SET active = $2, updated_at = $3
		WHERE id = $1
	`, petID, active, at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) TouchSummary(ctx context.Context, petID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE mascotas
		SET updated_at = $2
		WHERE id = $1
	`, petID, at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) SetVaccinationSummary(ctx context.Context, petID string, last, next time.Time, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE mascotas
		SET last_vaccination = $2, next_vaccination = $3, updated_at = $4
		WHERE id = $1
	`, petID, last, next, at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var species string
	var birthDate, lastVac, nextVac sql.NullTime
	var clinics []string

	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&species,
		&p.Breed,
		&birthDate,
		&clinics,
		&p.Active,
		&p.QRCodeURL,
		&lastVac,
		&nextVac,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	p.Species = pets.Species(species)
	p.AuthorizedClinicIDs = clinics
	p.BirthDate = fromNullTime(birthDate)
	p.LastVaccination = fromNullTime(lastVac)
	p.NextVaccination = fromNullTime(nextVac)
	return p, nil
}

func clinicIDsOrEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
