package babies

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"baby-health-tracker/internal/domain/caregivers"
	"baby-health-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// ViewRecorder guarda el último bebé visto por el usuario (preferences).
type ViewRecorder interface {
	RecordLastViewedBaby(ctx context.Context, userID, babyID string) error
}

func RegisterRoutes(r chi.Router, svc *Service, views ViewRecorder) {
	r.Route("/babies", func(br chi.Router) {
		br.Post("/", createBabyHandler(svc))
		br.Get("/", listBabiesHandler(svc))

		// Perfil (parent o caregiver con baby:read)
		br.Get("/{babyID}", getBabyHandler(svc, views))

		// Editar (parent o caregiver con baby:edit)
		br.Patch("/{babyID}", updateBabyHandler(svc))
	})
}

type createBabyRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	Gender      Gender `json:"gender" enums:"male,female,unknown"`
}

type updateBabyRequest struct {
	Name        *string `json:"name"`
	DateOfBirth *string `json:"date_of_birth"`
	Gender      *Gender `json:"gender"`
}

type babyResponse struct {
	ID           string    `json:"id"`
	ParentUserID string    `json:"parent_user_id"`
	Name         string    `json:"name"`
	DateOfBirth  string    `json:"date_of_birth"`
	Gender       Gender    `json:"gender"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type listedBabyResponse struct {
	babyResponse
	Role   Role               `json:"role"`
	Scopes []caregivers.Scope `json:"scopes,omitempty"`
}

// createBabyHandler godoc
// @Summary Registrar bebé
// @Description Crea un bebé para el usuario autenticado, que queda como parent. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags babies
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createBabyRequest true "Datos del bebé; date_of_birth en formato YYYY-MM-DD"
// @Success 201 {object} babyResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /babies [post]
func createBabyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createBabyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var dob time.Time
		if strings.TrimSpace(req.DateOfBirth) != "" {
			t, err := time.Parse("2006-01-02", req.DateOfBirth)
			if err != nil {
				http.Error(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			dob = t
		}

		b, err := svc.Create(r.Context(), uid, CreateInput{
			Name:        req.Name,
			DateOfBirth: dob,
			Gender:      req.Gender,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBabyResponse(b))
	}
}

// listBabiesHandler godoc
// @Summary Listar bebés
// @Description Bebés propios y compartidos conmigo (grant activo con `baby:read`).
// @Tags babies
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} listedBabyResponse
// @Failure 401 {string} string "unauthorized"
// @Router /babies [get]
func listBabiesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListForUser(r.Context(), uid)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]listedBabyResponse, 0, len(items))
		for _, it := range items {
			out = append(out, listedBabyResponse{
				babyResponse: toBabyResponse(it.Baby),
				Role:         it.Role,
				Scopes:       it.Scopes,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getBabyHandler(svc *Service, views ViewRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		b, err := svc.Authorize(r.Context(), chi.URLParam(r, "babyID"), uid, caregivers.ScopeBabyRead)
		if err != nil {
			writeError(w, err)
			return
		}

		if views != nil {
			// best-effort: la preferencia no bloquea la lectura
			_ = views.RecordLastViewedBaby(r.Context(), uid, b.ID)
		}

		writeJSON(w, http.StatusOK, toBabyResponse(b))
	}
}

func updateBabyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		babyID := chi.URLParam(r, "babyID")
		if _, err := svc.Authorize(r.Context(), babyID, uid, caregivers.ScopeBabyEdit); err != nil {
			writeError(w, err)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateBabyRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{Name: req.Name, Gender: req.Gender}
		if req.DateOfBirth != nil {
			t, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil {
				http.Error(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.DateOfBirth = &t
		}

		updated, err := svc.Update(r.Context(), babyID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBabyResponse(updated))
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "baby not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toBabyResponse(b Baby) babyResponse {
	return babyResponse{
		ID:           b.ID,
		ParentUserID: b.ParentUserID,
		Name:         b.Name,
		DateOfBirth:  b.DateOfBirth.Format("2006-01-02"),
		Gender:       b.Gender,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no crear un paquete de helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
