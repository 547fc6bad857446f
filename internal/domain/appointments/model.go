package appointments

import "time"

// Status del turno. Las transiciones NO se validan contra una máquina de
// estados: UpdateStatus pisa el valor sin mirar el anterior. El batch de
// recordatorios solo actúa sobre confirmado.
type Status string

const (
	StatusProgramado Status = "programado"
	StatusConfirmado Status = "confirmado"
	StatusCancelado  Status = "cancelado"
	StatusCompletado Status = "completado"
)

func (s Status) Valid() bool {
	switch s {
	case StatusProgramado, StatusConfirmado, StatusCancelado, StatusCompletado:
		return true
	}
	return false
}

// Reminder es un recordatorio ya enviado para el turno.
type Reminder struct {
	Kind    string    `json:"kind"`
	SentAt  time.Time `json:"sent_at"`
	Channel string    `json:"channel"`
}

const (
	ReminderKindRecordatorio = "recordatorio"
	ReminderChannelApp       = "app"
)

// Appointment es un turno entre una mascota y una clínica.
// RemindersSent solo crece (append-only), nunca se trunca.
type Appointment struct {
	ID string

	PetID    string
	OwnerID  string // derivado de la mascota al crear
	ClinicID string

	ScheduledAt time.Time
	Reason      string

	Status Status

	RemindersSent []Reminder

	CreatedAt time.Time
	UpdatedAt *time.Time
}
