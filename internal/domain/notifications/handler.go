package notifications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vetcare-api/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/notifications", func(nr chi.Router) {
		nr.Get("/", listNotificationsHandler(svc))
		nr.Post("/{notificationID}/read", markReadHandler(svc))
	})
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func listNotificationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, notificationResponse{
				ID:        n.ID,
				Kind:      n.Kind,
				Message:   n.Message,
				Read:      n.Read,
				CreatedAt: n.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func markReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.MarkRead(r.Context(), chi.URLParam(r, "notificationID"), claims.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "notification not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
