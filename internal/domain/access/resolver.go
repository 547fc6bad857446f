package access

import "context"

// ClinicDirectory responde membresía en la colección de veterinarias.
// Interface chica para no acoplar access <-> users (mismo truco que
// PetOwnerLookup en otros módulos).
type ClinicDirectory interface {
	IsClinic(ctx context.Context, userID string) (bool, error)
}

// Resolver decide lectura/escritura sobre el historial de una mascota.
type Resolver struct {
	clinics ClinicDirectory
}

func NewResolver(clinics ClinicDirectory) *Resolver {
	return &Resolver{clinics: clinics}
}

// CanRead: dueño, o clínica presente en la lista de autorizadas de la mascota.
func (r *Resolver) CanRead(userID, ownerID string, authorizedClinicIDs []string) bool {
	if userID == "" {
		return false
	}
	if userID == ownerID {
		return true
	}
	for _, id := range authorizedClinicIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CanWrite: cualquier clínica registrada, sin mirar la lista de autorizadas.
// Asimetría conocida respecto de CanRead; se conserva a propósito (la lista
// se usa para lectura y bookkeeping de grants, no para gatear escrituras).
func (r *Resolver) CanWrite(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return r.clinics.IsClinic(ctx, userID)
}
