package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vetcare-api/internal/platform/logger"
	"vetcare-api/internal/platform/metrics"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

// Notifier emite registros de notificación best-effort. La implementación
// real vive en el módulo notifications; acá alcanza con la interface.
type Notifier interface {
	Notify(ctx context.Context, userID, kind, message string) error
}

type Service struct {
	repo      Repository
	notifier  Notifier
	log       *logger.Logger
	qrBaseURL string
	now       func() time.Time
}

func NewService(repo Repository, notifier Notifier, log *logger.Logger, qrBaseURL string) *Service {
	return &Service{
		repo:      repo,
		notifier:  notifier,
		log:       log,
		qrBaseURL: strings.TrimRight(strings.TrimSpace(qrBaseURL), "/"),
		now:       time.Now,
	}
}

type CreateInput struct {
	Name      string
	Species   string
	Breed     string
	BirthDate *time.Time
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" || strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Species) == "" {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	id := uuid.NewString()

	p := Pet{
		ID:                  id,
		OwnerID:             ownerID,
		Name:                strings.TrimSpace(in.Name),
		Species:             Species(strings.TrimSpace(in.Species)),
		Breed:               strings.TrimSpace(in.Breed),
		BirthDate:           in.BirthDate,
		AuthorizedClinicIDs: []string{},
		Active:              true,
		QRCodeURL:           s.qrURL(id),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// Authorize agrega la clínica al set de autorizadas (idempotente) y avisa al
// dueño. La notificación es best-effort: si falla, se loguea y listo.
func (s *Service) Authorize(ctx context.Context, petID, clinicID string) error {
	petID = strings.TrimSpace(petID)
	clinicID = strings.TrimSpace(clinicID)
	if petID == "" || clinicID == "" {
		return ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return err
	}

	if err := s.repo.AddAuthorizedClinic(ctx, petID, clinicID, s.now()); err != nil {
		return err
	}

	s.notify(ctx, p.OwnerID, "autorizacion_otorgada",
		fmt.Sprintf("La clínica %s fue autorizada a ver el historial de %s", clinicID, p.Name))
	return nil
}

// Revoke saca la clínica del set (idempotente) y avisa al dueño.
func (s *Service) Revoke(ctx context.Context, petID, clinicID string) error {
	petID = strings.TrimSpace(petID)
	clinicID = strings.TrimSpace(clinicID)
	if petID == "" || clinicID == "" {
		return ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveAuthorizedClinic(ctx, petID, clinicID, s.now()); err != nil {
		return err
	}

	s.notify(ctx, p.OwnerID, "autorizacion_revocada",
		fmt.Sprintf("La clínica %s perdió acceso al historial de %s", clinicID, p.Name))
	return nil
}

// Deactivate es el soft-delete: active=false, solo el dueño puede.
func (s *Service) Deactivate(ctx context.Context, petID, ownerID string) error {
	petID = strings.TrimSpace(petID)
	ownerID = strings.TrimSpace(ownerID)
	if petID == "" || ownerID == "" {
		return ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	if p.OwnerID != ownerID {
		return ErrForbidden
	}

	return s.repo.SetActive(ctx, petID, false, s.now())
}

func (s *Service) notify(ctx context.Context, userID, kind, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, kind, message); err != nil {
		metrics.NotificationFailures.Inc()
		s.log.Warn("notification failed", map[string]any{"kind": kind, "user_id": userID, "err": err.Error()})
	}
}

func (s *Service) qrURL(petID string) string {
	base := s.qrBaseURL
	if base == "" {
		base = "https://vetcare.app"
	}
	return base + "/p/" + petID
}
