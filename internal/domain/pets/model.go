package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Pet es el perfil de una mascota registrada.
//
// OwnerID no cambia nunca después de la creación. AuthorizedClinicIDs es un
// set (sin duplicados): la membresía ahí es la única base para que una clínica
// pueda leer el historial. Active=false es soft-delete; nunca se borra físico.
type Pet struct {
	ID      string
	OwnerID string

	Name    string
	Species Species
	Breed   string

	BirthDate *time.Time

	AuthorizedClinicIDs []string

	Active    bool
	QRCodeURL string

	// Resumen denormalizado que mantiene el ledger de historial.
	LastVaccination *time.Time
	NextVaccination *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
