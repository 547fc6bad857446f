package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"vetcare-api/internal/domain/appointments"
)

type appointmentRepo struct {
	mu   sync.RWMutex
	byID map[string]appointments.Appointment
}

func NewAppointmentsRepo() appointments.Repository {
	return &appointmentRepo{
		byID: make(map[string]appointments.Appointment),
	}
}

func (r *appointmentRepo) Create(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("appointment id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("appointment already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *appointmentRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return a, nil
}

func (r *appointmentRepo) ListByClinic(ctx context.Context, clinicID string) ([]appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.ClinicID == clinicID {
			out = append(out, a)
		}
	}
	sortBySchedule(out)
	return out, nil
}

func (r *appointmentRepo) ListByPetIDs(ctx context.Context, petIDs []string) ([]appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(petIDs))
	for _, id := range petIDs {
		wanted[id] = struct{}{}
	}

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if _, ok := wanted[a.PetID]; ok {
			out = append(out, a)
		}
	}
	sortBySchedule(out)
	return out, nil
}

func (r *appointmentRepo) UpdateStatus(ctx context.Context, id string, status appointments.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.ErrNotFound
	}
	a.Status = status
	t := at
	a.UpdatedAt = &t
	r.byID[id] = a
	return nil
}

func (r *appointmentRepo) ListDueForReminder(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.Status != appointments.StatusConfirmado {
			continue
		}
		if len(a.RemindersSent) > 0 {
			continue
		}
		if a.ScheduledAt.Before(from) || a.ScheduledAt.After(to) {
			continue
		}
		out = append(out, a)
	}
	sortBySchedule(out)
	return out, nil
}

// AppendReminder emula el append atómico del store.
func (r *appointmentRepo) AppendReminder(ctx context.Context, id string, rem appointments.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.ErrNotFound
	}
	a.RemindersSent = append(a.RemindersSent, rem)
	r.byID[id] = a
	return nil
}

func sortBySchedule(items []appointments.Appointment) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].ScheduledAt.Before(items[j].ScheduledAt)
	})
}
