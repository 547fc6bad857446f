package appointments

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"
)

// -------------------------
// Fakes
// -------------------------

type testRepo struct {
	byID map[string]Appointment

	listByPetIDsCalls int
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Appointment{}}
}

func (r *testRepo) Create(ctx context.Context, a Appointment) error {
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) ListByClinic(ctx context.Context, clinicID string) ([]Appointment, error) {
	out := make([]Appointment, 0)
	for _, a := range r.byID {
		if a.ClinicID == clinicID {
			out = append(out, a)
		}
	}
	sortBySchedule(out)
	return out, nil
}

func (r *testRepo) ListByPetIDs(ctx context.Context, petIDs []string) ([]Appointment, error) {
	r.listByPetIDsCalls++
	out := make([]Appointment, 0)
	for _, a := range r.byID {
		for _, id := range petIDs {
			if a.PetID == id {
				out = append(out, a)
				break
			}
		}
	}
	sortBySchedule(out)
	return out, nil
}

func (r *testRepo) UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error {
	a, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = &at
	r.byID[id] = a
	return nil
}

func (r *testRepo) ListDueForReminder(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	out := make([]Appointment, 0)
	for _, a := range r.byID {
		if a.Status != StatusConfirmado {
			continue
		}
		if len(a.RemindersSent) != 0 {
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

func (r *testRepo) AppendReminder(ctx context.Context, id string, rem Reminder) error {
	a, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.RemindersSent = append(a.RemindersSent, rem)
	r.byID[id] = a
	return nil
}

func sortBySchedule(items []Appointment) {
	sort.Slice(items, func(i, j int) bool { return items[i].ScheduledAt.Before(items[j].ScheduledAt) })
}

type testPets struct {
	owners map[string]string // petID -> ownerID
}

func (p *testPets) OwnerOf(ctx context.Context, petID string) (string, error) {
	owner, ok := p.owners[petID]
	if !ok {
		return "", errors.New("pet not found")
	}
	return owner, nil
}

func (p *testPets) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	out := make([]string, 0)
	for petID, owner := range p.owners {
		if owner == ownerID {
			out = append(out, petID)
		}
	}
	sort.Strings(out)
	return out, nil
}

type testNotifier struct {
	calls []string // "userID|kind"
}

func (n *testNotifier) Notify(ctx context.Context, userID, kind, message string) error {
	n.calls = append(n.calls, userID+"|"+kind)
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DerivesOwnerAndNotifiesClinic(t *testing.T) {
	repo := newTestRepo()
	notifier := &testNotifier{}
	svc := NewService(repo, &testPets{owners: map[string]string{"pet-1": "owner-1"}}, notifier, nil)

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, err := svc.Create(context.Background(), CreateInput{
		PetID:       "pet-1",
		ClinicID:    "clinic-1",
		ScheduledAt: now.Add(48 * time.Hour),
		Reason:      "control",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if a.OwnerID != "owner-1" {
		t.Fatalf("expected owner derived from pet, got %q", a.OwnerID)
	}
	if a.Status != StatusProgramado {
		t.Fatalf("expected initial status programado, got %s", a.Status)
	}
	if a.RemindersSent == nil || len(a.RemindersSent) != 0 {
		t.Fatalf("expected empty reminders, got %#v", a.RemindersSent)
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != "clinic-1|turno_nuevo" {
		t.Fatalf("expected turno_nuevo notification to clinic, got %#v", notifier.calls)
	}
}

func TestService_Create_UnknownPet(t *testing.T) {
	svc := NewService(newTestRepo(), &testPets{owners: map[string]string{}}, nil, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		PetID:       "ghost",
		ClinicID:    "clinic-1",
		ScheduledAt: time.Now().Add(time.Hour),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ListForUser_OwnerWithoutPetsShortCircuits(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testPets{owners: map[string]string{}}, nil, nil)

	items, err := svc.ListForUser(context.Background(), "owner-1", false)
	if err != nil {
		t.Fatalf("ListForUser error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty slice, got %#v", items)
	}
	if repo.listByPetIDsCalls != 0 {
		t.Fatalf("expected no repo query for owner without pets")
	}
}

func TestService_ListForUser_ByRole(t *testing.T) {
	repo := newTestRepo()
	pets := &testPets{owners: map[string]string{"pet-1": "owner-1"}}
	svc := NewService(repo, pets, nil, nil)

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	repo.byID["a1"] = Appointment{ID: "a1", PetID: "pet-1", OwnerID: "owner-1", ClinicID: "clinic-1", ScheduledAt: base.Add(2 * time.Hour), Status: StatusProgramado}
	repo.byID["a2"] = Appointment{ID: "a2", PetID: "pet-1", OwnerID: "owner-1", ClinicID: "clinic-2", ScheduledAt: base.Add(time.Hour), Status: StatusProgramado}
	repo.byID["a3"] = Appointment{ID: "a3", PetID: "pet-9", OwnerID: "owner-9", ClinicID: "clinic-1", ScheduledAt: base, Status: StatusProgramado}

	asOwner, err := svc.ListForUser(context.Background(), "owner-1", false)
	if err != nil {
		t.Fatalf("ListForUser owner error: %v", err)
	}
	if len(asOwner) != 2 || asOwner[0].ID != "a2" || asOwner[1].ID != "a1" {
		t.Fatalf("expected owner appointments ascending [a2 a1], got %#v", ids(asOwner))
	}

	asClinic, err := svc.ListForUser(context.Background(), "clinic-1", true)
	if err != nil {
		t.Fatalf("ListForUser clinic error: %v", err)
	}
	if len(asClinic) != 2 || asClinic[0].ID != "a3" || asClinic[1].ID != "a1" {
		t.Fatalf("expected clinic appointments ascending [a3 a1], got %#v", ids(asClinic))
	}
}

func TestService_UpdateStatus_CanceladoNotifiesOwner(t *testing.T) {
	repo := newTestRepo()
	notifier := &testNotifier{}
	svc := NewService(repo, &testPets{owners: map[string]string{"pet-1": "owner-1"}}, notifier, nil)

	a, _ := svc.Create(context.Background(), CreateInput{
		PetID:       "pet-1",
		ClinicID:    "clinic-1",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	})
	notifier.calls = nil

	updated, err := svc.UpdateStatus(context.Background(), a.ID, StatusCancelado)
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if updated.Status != StatusCancelado {
		t.Fatalf("expected cancelado, got %s", updated.Status)
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != "owner-1|turno_cancelado" {
		t.Fatalf("expected cancellation notification to owner, got %#v", notifier.calls)
	}

	// Sin máquina de estados: cancelado -> programado pasa igual.
	if _, err := svc.UpdateStatus(context.Background(), a.ID, StatusProgramado); err != nil {
		t.Fatalf("expected free transition, got %v", err)
	}
}

func TestService_UpdateStatus_InvalidStatus(t *testing.T) {
	svc := NewService(newTestRepo(), &testPets{}, nil, nil)

	if _, err := svc.UpdateStatus(context.Background(), "a1", Status("pendiente")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_DispatchDueReminders_OncePerAppointment(t *testing.T) {
	repo := newTestRepo()
	notifier := &testNotifier{}
	svc := NewService(repo, &testPets{owners: map[string]string{"pet-1": "owner-1"}}, notifier, nil)

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	repo.byID["due"] = Appointment{ID: "due", PetID: "pet-1", OwnerID: "owner-1", ClinicID: "clinic-1",
		ScheduledAt: now.Add(12 * time.Hour), Status: StatusConfirmado, RemindersSent: []Reminder{}}
	repo.byID["far"] = Appointment{ID: "far", PetID: "pet-1", OwnerID: "owner-1", ClinicID: "clinic-1",
		ScheduledAt: now.Add(48 * time.Hour), Status: StatusConfirmado, RemindersSent: []Reminder{}}
	repo.byID["unconfirmed"] = Appointment{ID: "unconfirmed", PetID: "pet-1", OwnerID: "owner-1", ClinicID: "clinic-1",
		ScheduledAt: now.Add(12 * time.Hour), Status: StatusProgramado, RemindersSent: []Reminder{}}
	repo.byID["already"] = Appointment{ID: "already", PetID: "pet-1", OwnerID: "owner-1", ClinicID: "clinic-1",
		ScheduledAt: now.Add(12 * time.Hour), Status: StatusConfirmado,
		RemindersSent: []Reminder{{Kind: ReminderKindRecordatorio, SentAt: now.Add(-time.Hour), Channel: ReminderChannelApp}}}

	n, err := svc.DispatchDueReminders(context.Background(), now)
	if err != nil {
		t.Fatalf("DispatchDueReminders error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 reminder dispatched, got %d", n)
	}

	due := repo.byID["due"]
	if len(due.RemindersSent) != 1 {
		t.Fatalf("expected 1 reminder on due appointment, got %d", len(due.RemindersSent))
	}
	rem := due.RemindersSent[0]
	if rem.Kind != ReminderKindRecordatorio || rem.Channel != ReminderChannelApp || !rem.SentAt.Equal(now) {
		t.Fatalf("unexpected reminder %+v", rem)
	}

	if len(repo.byID["far"].RemindersSent) != 0 || len(repo.byID["unconfirmed"].RemindersSent) != 0 {
		t.Fatalf("expected out-of-window / unconfirmed untouched")
	}
	if len(repo.byID["already"].RemindersSent) != 1 {
		t.Fatalf("expected already-reminded untouched")
	}

	found := false
	for _, c := range notifier.calls {
		if strings.HasPrefix(c, "owner-1|"+ReminderKindRecordatorio) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected reminder notification to owner, got %#v", notifier.calls)
	}

	// Segunda corrida con el mismo now: no duplica.
	n, err = svc.DispatchDueReminders(context.Background(), now)
	if err != nil {
		t.Fatalf("DispatchDueReminders #2 error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected second run to be a no-op, got %d", n)
	}
	if len(repo.byID["due"].RemindersSent) != 1 {
		t.Fatalf("expected reminder not duplicated")
	}
}

func ids(items []Appointment) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}
