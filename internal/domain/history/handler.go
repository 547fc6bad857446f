package history

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
	r.Route("/pets/{petID}/history", func(hr chi.Router) {
		hr.Post("/", appendEntryHandler(svc))
		hr.Get("/", listEntriesHandler(svc))
		hr.Get("/summary", summaryHandler(svc))
	})
}

// appendEntryRequest es el cuerpo para registrar una entrada de historial.
type appendEntryRequest struct {
	Type        EntryType   `json:"type" enums:"consulta,vacuna,tratamiento"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	VaccineKind VaccineKind `json:"vaccine_kind" enums:"anual,triple"`
	Active      bool        `json:"active"`
}

// entryResponse representa una entrada del historial clínico.
type entryResponse struct {
	ID          string      `json:"id"`
	PetID       string      `json:"pet_id"`
	AuthorID    string      `json:"author_id"`
	AuthorName  string      `json:"author_name,omitempty"`
	Type        EntryType   `json:"type"`
	RecordedAt  time.Time   `json:"recorded_at"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	VaccineKind VaccineKind `json:"vaccine_kind,omitempty"`
	Active      bool        `json:"active,omitempty"`
}

// summaryResponse es el resumen derivado del historial.
type summaryResponse struct {
	LastConsultation *time.Time `json:"last_consultation,omitempty"`
	LastVaccination  *time.Time `json:"last_vaccination,omitempty"`
	NextVaccination  *time.Time `json:"next_vaccination,omitempty"`
	ActiveTreatments int        `json:"active_treatments"`
}

// appendEntryHandler godoc
// @Summary Registrar entrada de historial
// @Description Agrega una entrada al historial clínico de la mascota. Solo una clínica registrada puede escribir. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags history
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body appendEntryRequest true "Datos de la entrada"
// @Success 201 {object} entryResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/history [post]
func appendEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req appendEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		authorName := claims.DisplayName
		if authorName == "" {
			authorName = claims.Email
		}

		e, err := svc.Append(r.Context(), Author{ID: claims.UserID, Name: authorName}, chi.URLParam(r, "petID"), AppendInput{
			Type:        req.Type,
			Title:       req.Title,
			Description: req.Description,
			VaccineKind: req.VaccineKind,
			Active:      req.Active,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			case errors.Is(err, ErrUnauthorized):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toEntryResponse(e))
	}
}

// listEntriesHandler godoc
// @Summary Listar historial de una mascota
// @Description Lista las entradas del historial, más recientes primero. Visible para el dueño o una clínica autorizada.
// @Tags history
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} entryResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/history [get]
func listEntriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), claims.UserID, chi.URLParam(r, "petID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// summaryHandler godoc
// @Summary Resumen del historial
// @Description Devuelve última consulta, última/próxima vacunación y tratamientos activos.
// @Tags history
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} summaryResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/history/summary [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sum, err := svc.Summarize(r.Context(), claims.UserID, chi.URLParam(r, "petID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, summaryResponse{
			LastConsultation: sum.LastConsultation,
			LastVaccination:  sum.LastVaccination,
			NextVaccination:  sum.NextVaccination,
			ActiveTreatments: sum.ActiveTreatments,
		})
	}
}

// Denegado, ausente y fallo de transporte se distinguen en el status.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		PetID:       e.PetID,
		AuthorID:    e.AuthorID,
		AuthorName:  e.AuthorName,
		Type:        e.Type,
		RecordedAt:  e.RecordedAt,
		Title:       e.Title,
		Description: e.Description,
		VaccineKind: e.VaccineKind,
		Active:      e.Active,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
