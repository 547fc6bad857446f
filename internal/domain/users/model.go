package users

import "time"

// Role es el resultado de la clasificación inicial. Se decide una sola vez
// y queda persistida como membresía de colección (veterinarias o duenos).
type Role string

const (
	RoleOwner  Role = "owner"
	RoleClinic Role = "clinic"
)

// User es un usuario registrado, con su rol ya resuelto.
type User struct {
	ID          string
	Email       string
	DisplayName string
	Role        Role
	CreatedAt   time.Time
}
