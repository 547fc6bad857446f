package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/platform/logger"
	"vetcare-api/internal/platform/metrics"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// PetRegistry es lo que el ledger necesita del módulo pets: datos de acceso
// y las escrituras del resumen denormalizado. Interface chica para evitar
// el ciclo pets <-> history.
type PetRegistry interface {
	AccessInfo(ctx context.Context, petID string) (ownerID string, authorizedClinicIDs []string, err error)
	TouchSummary(ctx context.Context, petID string, at time.Time) error
	SetVaccinationSummary(ctx context.Context, petID string, last, next time.Time, at time.Time) error
}

// Author identifica a quien escribe la entrada (clínica registrada).
type Author struct {
	ID   string
	Name string
}

type Service struct {
	repo     Repository
	pets     PetRegistry
	resolver *access.Resolver
	log      *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, pets PetRegistry, resolver *access.Resolver, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		pets:     pets,
		resolver: resolver,
		log:      log,
		now:      time.Now,
	}
}

type AppendInput struct {
	Type        EntryType
	Title       string
	Description string
	VaccineKind VaccineKind
	Active      bool
}

// Append exige CanWrite (clínica registrada); si no, falla sin mutar nada.
// Después de persistir actualiza el resumen de la mascota; esa segunda
// escritura es best-effort: si falla, la entrada ya quedó en el ledger.
func (s *Service) Append(ctx context.Context, author Author, petID string, in AppendInput) (Entry, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" || in.Type == "" {
		return Entry{}, ErrInvalidInput
	}
	if strings.TrimSpace(author.ID) == "" {
		return Entry{}, ErrInvalidInput
	}

	if _, _, err := s.pets.AccessInfo(ctx, petID); err != nil {
		return Entry{}, ErrNotFound
	}

	ok, err := s.resolver.CanWrite(ctx, author.ID)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		metrics.AccessDenied.WithLabelValues("history.append").Inc()
		return Entry{}, ErrUnauthorized
	}

	now := s.now()
	e := Entry{
		ID:          uuid.NewString(),
		PetID:       petID,
		AuthorID:    strings.TrimSpace(author.ID),
		AuthorName:  strings.TrimSpace(author.Name),
		Type:        in.Type,
		RecordedAt:  now,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		VaccineKind: in.VaccineKind,
		Active:      in.Active,
	}

	if err := s.repo.Append(ctx, e); err != nil {
		return Entry{}, err
	}
	metrics.HistoryEntriesAppended.WithLabelValues(string(e.Type)).Inc()

	s.updateSummary(ctx, e)

	return e, nil
}

// List exige CanRead (dueño o clínica autorizada). Orden: RecordedAt desc.
func (s *Service) List(ctx context.Context, userID, petID string) ([]Entry, error) {
	petID = strings.TrimSpace(petID)
	userID = strings.TrimSpace(userID)
	if petID == "" || userID == "" {
		return nil, ErrInvalidInput
	}

	ownerID, authorized, err := s.pets.AccessInfo(ctx, petID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !s.resolver.CanRead(userID, ownerID, authorized) {
		metrics.AccessDenied.WithLabelValues("history.list").Inc()
		return nil, ErrUnauthorized
	}

	return s.repo.ListByPet(ctx, petID)
}

// Summarize pliega la lista descendente una sola vez.
func (s *Service) Summarize(ctx context.Context, userID, petID string) (Summary, error) {
	entries, err := s.List(ctx, userID, petID)
	if err != nil {
		return Summary{}, err
	}
	return Fold(entries), nil
}

// Fold deriva el resumen de una lista ordenada por RecordedAt descendente.
// First-seen-wins por campo: como se recorre de la más nueva a la más vieja,
// la entrada MÁS RECIENTE de cada tipo define el resumen (recencia, no
// agregación). Los tratamientos activos sí se cuentan todos.
func Fold(entries []Entry) Summary {
	var sum Summary
	for _, e := range entries {
		switch e.Type {
		case EntryTypeConsulta:
			if sum.LastConsultation == nil {
				t := e.RecordedAt
				sum.LastConsultation = &t
			}
		case EntryTypeVacuna:
			if sum.LastVaccination == nil {
				last := e.RecordedAt
				next := NextVaccination(e.VaccineKind, e.RecordedAt)
				sum.LastVaccination = &last
				sum.NextVaccination = &next
			}
		case EntryTypeTratamiento:
			if e.Active {
				sum.ActiveTreatments++
			}
		}
	}
	return sum
}

// NextVaccination: anual => +1 año; triple => +3 meses; cualquier otro
// (incluido vacío) => +1 mes desde la fecha registrada.
func NextVaccination(kind VaccineKind, from time.Time) time.Time {
	switch kind {
	case VaccineKindAnual:
		return from.AddDate(1, 0, 0)
	case VaccineKindTriple:
		return from.AddDate(0, 3, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

func (s *Service) updateSummary(ctx context.Context, e Entry) {
	if e.Type == EntryTypeVacuna {
		next := NextVaccination(e.VaccineKind, e.RecordedAt)
		if err := s.pets.SetVaccinationSummary(ctx, e.PetID, e.RecordedAt, next, e.RecordedAt); err != nil {
			s.log.Warn("vaccination summary update failed", map[string]any{"pet_id": e.PetID, "err": err.Error()})
		}
		return
	}
	if err := s.pets.TouchSummary(ctx, e.PetID, e.RecordedAt); err != nil {
		s.log.Warn("summary touch failed", map[string]any{"pet_id": e.PetID, "err": err.Error()})
	}
}
