package users

import "context"

// Repository persiste la membresía de colección: un usuario vive en
// veterinarias o en duenos, nunca en ambas.
type Repository interface {
	CreateOwner(ctx context.Context, u User) error
	CreateClinic(ctx context.Context, u User) error
	GetOwner(ctx context.Context, id string) (User, error)
	GetClinic(ctx context.Context, id string) (User, error)
}
