package appointments

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)

	// Ambos listados vienen ordenados por ScheduledAt ascendente.
	ListByClinic(ctx context.Context, clinicID string) ([]Appointment, error)
	ListByPetIDs(ctx context.Context, petIDs []string) ([]Appointment, error)

	// Overwrite plano, last-write-wins; sin check de concurrencia optimista.
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error

	// ListDueForReminder: ScheduledAt en [from, to], status confirmado y
	// RemindersSent vacío.
	ListDueForReminder(ctx context.Context, from, to time.Time) ([]Appointment, error)

	// AppendReminder es la primitiva atómica de append del store.
	AppendReminder(ctx context.Context, id string, rem Reminder) error
}
