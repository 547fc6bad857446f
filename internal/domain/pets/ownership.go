package pets

import (
	"context"
	"time"
)

// Helpers que consumen otros módulos vía interfaces chicas, para evitar
// ciclos de imports (pets <-> history / appointments).

// OwnerOf expone el ownerID de una mascota.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerID, nil
}

// IDsByOwner devuelve los ids de las mascotas activas del dueño.
func (s *Service) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	items, err := s.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// AccessInfo expone lo mínimo que necesita el resolver de acceso.
func (s *Service) AccessInfo(ctx context.Context, petID string) (ownerID string, authorizedClinicIDs []string, err error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", nil, err
	}
	return p.OwnerID, p.AuthorizedClinicIDs, nil
}

// TouchSummary y SetVaccinationSummary los usa el ledger de historial para
// mantener el resumen denormalizado de la mascota.
func (s *Service) TouchSummary(ctx context.Context, petID string, at time.Time) error {
	return s.repo.TouchSummary(ctx, petID, at)
}

func (s *Service) SetVaccinationSummary(ctx context.Context, petID string, last, next time.Time, at time.Time) error {
	return s.repo.SetVaccinationSummary(ctx, petID, last, next, at)
}
