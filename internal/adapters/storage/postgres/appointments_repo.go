package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vetcare-api/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

const appointmentColumns = `
	id, pet_id, owner_id, clinic_id,
	scheduled_at, reason, status, reminders_sent,
	created_at, updated_at
`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	reminders, err := remindersToJSON(a.RemindersSent)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO turnos (
			id, pet_id, owner_id, clinic_id,
			scheduled_at, reason, status, reminders_sent,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		a.ID,
		a.PetID,
		a.OwnerID,
		a.ClinicID,
		a.ScheduledAt,
		a.Reason,
		string(a.Status),
		reminders,
		a.CreatedAt,
		toNullTime(a.UpdatedAt),
	)
	return err
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, appointments.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM turnos
		WHERE id = $1
	`, id)

	a, err := scanAppointment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, appointments.ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentsRepo) ListByClinic(ctx context.Context, clinicID string) ([]appointments.Appointment, error) {
	clinicID = strings.TrimSpace(clinicID)
	if clinicID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM turnos
		WHERE clinic_id = $1
		ORDER BY scheduled_at ASC
	`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *AppointmentsRepo) ListByPetIDs(ctx context.Context, petIDs []string) ([]appointments.Appointment, error) {
	if len(petIDs) == 0 {
		return []appointments.Appointment{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM turnos
		WHERE pet_id = ANY($1)
		ORDER BY scheduled_at ASC
	`, petIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *AppointmentsRepo) UpdateStatus(ctx context.Context, id string, status appointments.Status, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE turnos
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, string(status), at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) ListDueForReminder(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM turnos
		WHERE status = 'confirmado'
		  AND scheduled_at >= $1
		  AND scheduled_at <= $2
		  AND jsonb_array_length(reminders_sent) = 0
		ORDER BY scheduled_at ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// AppendReminder concatena sobre el jsonb en el propio UPDATE; no hay
// read-modify-write y dos workers concurrentes no pisan entradas.
func (r *AppointmentsRepo) AppendReminder(ctx context.Context, id string, rem appointments.Reminder) error {
	payload, err := json.Marshal(rem)
	if err != nil {
		return fmt.Errorf("marshal reminder: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE turnos
		SET reminders_sent = reminders_sent || $2::jsonb
		WHERE id = $1
	`, id, string(payload))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var status string
	var reminders []byte
	var updatedAt sql.NullTime

	if err := row.Scan(
		&a.ID,
		&a.PetID,
		&a.OwnerID,
		&a.ClinicID,
		&a.ScheduledAt,
		&a.Reason,
		&status,
		&reminders,
		&a.CreatedAt,
		&updatedAt,
	); err != nil {
		return appointments.Appointment{}, err
	}

	a.Status = appointments.Status(status)
	a.UpdatedAt = fromNullTime(updatedAt)

	a.RemindersSent = make([]appointments.Reminder, 0)
	if len(reminders) > 0 {
		if err := json.Unmarshal(reminders, &a.RemindersSent); err != nil {
			return appointments.Appointment{}, fmt.Errorf("unmarshal reminders: %w", err)
		}
	}
	return a, nil
}

func collectAppointments(rows *sql.Rows) ([]appointments.Appointment, error) {
	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func remindersToJSON(in []appointments.Reminder) (string, error) {
	if len(in) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal reminders: %w", err)
	}
	return string(b), nil
}
