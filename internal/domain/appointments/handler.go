package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vetcare-api/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// ClinicDirectory resuelve el rol del usuario autenticado una sola vez por
// request (en vez de re-preguntar por llamada).
type ClinicDirectory interface {
	IsClinic(ctx context.Context, userID string) (bool, error)
}

func RegisterRoutes(r chi.Router, svc *Service, clinics ClinicDirectory) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc))
		ar.Get("/", listAppointmentsHandler(svc, clinics))
		ar.Patch("/{appointmentID}/status", updateStatusHandler(svc))
	})
}

type createAppointmentRequest struct {
	PetID       string `json:"pet_id"`
	ClinicID    string `json:"clinic_id"`
	ScheduledAt string `json:"scheduled_at"` // RFC3339
	Reason      string `json:"reason"`
}

type updateStatusRequest struct {
	Status Status `json:"status" enums:"programado,confirmado,cancelado,completado"`
}

type appointmentResponse struct {
	ID            string     `json:"id"`
	PetID         string     `json:"pet_id"`
	OwnerID       string     `json:"owner_id"`
	ClinicID      string     `json:"clinic_id"`
	ScheduledAt   time.Time  `json:"scheduled_at"`
	Reason        string     `json:"reason,omitempty"`
	Status        Status     `json:"status"`
	RemindersSent []Reminder `json:"reminders_sent"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			http.Error(w, "scheduled_at must be RFC3339", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			PetID:       req.PetID,
			ClinicID:    req.ClinicID,
			ScheduledAt: t,
			Reason:      req.Reason,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

func listAppointmentsHandler(svc *Service, clinics ClinicDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		isClinic, err := clinics.IsClinic(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		items, err := svc.ListForUser(r.Context(), claims.UserID, isClinic)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "appointmentID"), req.Status)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "appointment not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	reminders := a.RemindersSent
	if reminders == nil {
		reminders = []Reminder{}
	}
	return appointmentResponse{
		ID:            a.ID,
		PetID:         a.PetID,
		OwnerID:       a.OwnerID,
		ClinicID:      a.ClinicID,
		ScheduledAt:   a.ScheduledAt,
		Reason:        a.Reason,
		Status:        a.Status,
		RemindersSent: reminders,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
