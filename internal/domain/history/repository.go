package history

import "context"

// Repository del ledger. Adrede no hay Update ni Delete.
type Repository interface {
	Append(ctx context.Context, e Entry) error

	// ListByPet devuelve las entradas ordenadas por RecordedAt descendente
	// (la más nueva primero).
	ListByPet(ctx context.Context, petID string) ([]Entry, error)
}
