package appointments

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
)

// ReminderWindow es la ventana de anticipación para recordatorios.
const ReminderWindow = 24 * time.Hour

// PetDirectory es lo que el scheduler necesita del módulo pets.
type PetDirectory interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
	IDsByOwner(ctx context.Context, ownerID string) ([]string, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, kind, message string) error
}

type Service struct {
	repo     Repository
	pets     PetDirectory
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, pets PetDirectory, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		pets:     pets,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type CreateInput struct {
	PetID       string
	ClinicID    string
	ScheduledAt time.Time
	Reason      string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	petID := strings.TrimSpace(in.PetID)
	clinicID := strings.TrimSpace(in.ClinicID)
	if petID == "" || clinicID == "" || in.ScheduledAt.IsZero() {
		return Appointment{}, ErrInvalidInput
	}

	ownerID, err := s.pets.OwnerOf(ctx, petID)
	if err != nil {
		return Appointment{}, ErrNotFound
	}

	a := Appointment{
		ID:            uuid.NewString(),
		PetID:         petID,
		OwnerID:       ownerID,
		ClinicID:      clinicID,
		ScheduledAt:   in.ScheduledAt,
		Reason:        strings.TrimSpace(in.Reason),
		Status:        StatusProgramado,
		RemindersSent: []Reminder{},
		CreatedAt:     s.now(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}

	s.notify(ctx, clinicID, "turno_nuevo",
		fmt.Sprintf("Nuevo turno solicitado para el %s", a.ScheduledAt.Format(time.RFC3339)))
	return a, nil
}

// ListForUser: clínica => turnos asignados a ella; dueño => turnos de sus
// mascotas. Un dueño sin mascotas recibe [] sin consultar turnos.
func (s *Service) ListForUser(ctx context.Context, userID string, isClinic bool) ([]Appointment, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	if isClinic {
		return s.repo.ListByClinic(ctx, userID)
	}

	petIDs, err := s.pets.IDsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(petIDs) == 0 {
		return []Appointment{}, nil
	}
	return s.repo.ListByPetIDs(ctx, petIDs)
}

// UpdateStatus pisa el estado sin validar la transición (completado ->
// programado pasa igual). Cancelado dispara la notificación de cancelación.
func (s *Service) UpdateStatus(ctx context.Context, id string, newStatus Status) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" || !newStatus.Valid() {
		return Appointment{}, ErrInvalidInput
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus, s.now()); err != nil {
		return Appointment{}, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	if newStatus == StatusCancelado {
		s.notify(ctx, a.OwnerID, "turno_cancelado",
			fmt.Sprintf("El turno del %s fue cancelado", a.ScheduledAt.Format(time.RFC3339)))
	}
	return a, nil
}

// DispatchDueReminders procesa los turnos confirmados con ScheduledAt en
// [now, now+24h] que todavía no tienen recordatorios. A cada uno le agrega
// exactamente un recordatorio; una segunda corrida con el mismo now no hace
// nada porque RemindersSent ya no está vacío. Fallas por turno se loguean y
// se sigue con el resto.
func (s *Service) DispatchDueReminders(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.ListDueForReminder(ctx, now, now.Add(ReminderWindow))
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, a := range due {
		rem := Reminder{
			Kind:    ReminderKindRecordatorio,
			SentAt:  now,
			Channel: ReminderChannelApp,
		}
		if err := s.repo.AppendReminder(ctx, a.ID, rem); err != nil {
			s.log.Warn("reminder append failed", map[string]any{"appointment_id": a.ID, "err": err.Error()})
			continue
		}

		metrics.RemindersDispatched.Inc()
		processed++

		s.notify(ctx, a.OwnerID, ReminderKindRecordatorio,
			fmt.Sprintf("Recordatorio: turno el %s", a.ScheduledAt.Format(time.RFC3339)))
	}

	return processed, nil
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
