package pets

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)

	// ListByOwner devuelve solo mascotas activas del dueño.
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)

	// Add/Remove son la primitiva atómica de unión/remoción de set del store:
	// idempotentes y sin read-modify-write en la capa de aplicación.
	AddAuthorizedClinic(ctx context.Context, petID, clinicID string, at time.Time) error
	RemoveAuthorizedClinic(ctx context.Context, petID, clinicID string, at time.Time) error

	SetActive(ctx context.Context, petID string, active bool, at time.Time) error

	// Campos de resumen denormalizado (los escribe el módulo de historial).
	TouchSummary(ctx context.Context, petID string, at time.Time) error
	SetVaccinationSummary(ctx context.Context, petID string, last, next time.Time, at time.Time) error
}
