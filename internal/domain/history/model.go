package history

import "time"

// EntryType es un tag abierto: los conocidos están acá, pero el ledger
// acepta otros valores sin validarlos contra un enum cerrado.
type EntryType string

const (
	EntryTypeConsulta    EntryType = "consulta"
	EntryTypeVacuna      EntryType = "vacuna"
	EntryTypeTratamiento EntryType = "tratamiento"
)

// VaccineKind determina la próxima fecha de vacunación. También abierto.
type VaccineKind string

const (
	VaccineKindAnual  VaccineKind = "anual"
	VaccineKindTriple VaccineKind = "triple"
)

// Entry es una entrada del historial clínico. Inmutable una vez escrita:
// el ledger es append-only, no existe update ni delete.
type Entry struct {
	ID    string
	PetID string

	AuthorID   string
	AuthorName string

	Type       EntryType
	RecordedAt time.Time

	Title       string
	Description string

	// Solo para Type == vacuna.
	VaccineKind VaccineKind

	// Solo para Type == tratamiento: true mientras el tratamiento siga en curso.
	Active bool
}

// Summary es el resumen derivado del historial, plegando la lista ordenada
// por RecordedAt descendente: gana la entrada más reciente de cada tipo.
type Summary struct {
	LastConsultation *time.Time
	LastVaccination  *time.Time
	NextVaccination  *time.Time
	ActiveTreatments int
}
