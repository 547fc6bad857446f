package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, resolver *access.Resolver) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc, resolver))
		pr.Delete("/{petID}", deactivatePetHandler(svc))

		// Lista de clínicas autorizadas (solo dueño la administra)
		pr.Route("/{petID}/authorizations", func(ar chi.Router) {
			ar.Get("/", listAuthorizationsHandler(svc))
			ar.Post("/", authorizeClinicHandler(svc))
			ar.Delete("/{clinicID}", revokeClinicHandler(svc))
		})
	})
}

type createPetRequest struct {
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD opcional
}

type petResponse struct {
	ID                  string     `json:"id"`
	OwnerID             string     `json:"owner_id"`
	Name                string     `json:"name"`
	Species             string     `json:"species"`
	Breed               string     `json:"breed,omitempty"`
	BirthDate           *time.Time `json:"birth_date,omitempty"`
	AuthorizedClinicIDs []string   `json:"authorized_clinic_ids"`
	Active              bool       `json:"active"`
	QRCodeURL           string     `json:"qr_code_url"`
	LastVaccination     *time.Time `json:"last_vaccination,omitempty"`
	NextVaccination     *time.Time `json:"next_vaccination,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type authorizeRequest struct {
	ClinicID string `json:"clinic_id"`
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: bd,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	// Solo mascotas activas del dueño autenticado.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service, resolver *access.Resolver) http.HandlerFunc {
	// Perfil visible para el dueño o una clínica autorizada.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		if !resolver.CanRead(claims.UserID, p.OwnerID, p.AuthorizedClinicIDs) {
			metrics.AccessDenied.WithLabelValues("pets.get").Inc()
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func deactivatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.Deactivate(r.Context(), chi.URLParam(r, "petID"), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listAuthorizationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if p.OwnerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, map[string][]string{"authorized_clinic_ids": p.AuthorizedClinicIDs})
	}
}

func authorizeClinicHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		p, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if p.OwnerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req authorizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.ClinicID) == "" {
			http.Error(w, "clinic_id required", http.StatusBadRequest)
			return
		}

		if err := svc.Authorize(r.Context(), petID, req.ClinicID); err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func revokeClinicHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		p, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if p.OwnerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		if err := svc.Revoke(r.Context(), petID, chi.URLParam(r, "clinicID")); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:                  p.ID,
		OwnerID:             p.OwnerID,
		Name:                p.Name,
		Species:             string(p.Species),
		Breed:               p.Breed,
		BirthDate:           p.BirthDate,
		AuthorizedClinicIDs: p.AuthorizedClinicIDs,
		Active:              p.Active,
		QRCodeURL:           p.QRCodeURL,
		LastVaccination:     p.LastVaccination,
		NextVaccination:     p.NextVaccination,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// writeJSON se duplica a propósito por módulo (misma razón que en users/history):
// todavía no amerita un helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
