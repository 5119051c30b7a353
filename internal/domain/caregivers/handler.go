package caregivers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"baby-health-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// BabyOwnerLookup evita importar el paquete babies (rompe ciclos).
type BabyOwnerLookup interface {
	OwnerOf(ctx context.Context, babyID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners BabyOwnerLookup) {
	// Owner: compartir un bebé
	r.Route("/babies/{babyID}/caregivers", func(cr chi.Router) {
		cr.Post("/", inviteHandler(svc, owners))
		cr.Get("/", listByBabyHandler(svc, owners))
	})

	r.Route("/caregivers/{grantID}", func(cr chi.Router) {
		cr.Post("/accept", acceptHandler(svc))
		cr.Post("/revoke", revokeHandler(svc))
	})

	// Caregiver: mis invitaciones / accesos
	r.Get("/me/caregiving", listMineHandler(svc))
}

type inviteRequest struct {
	CaregiverUserID string  `json:"caregiver_user_id"`
	Scopes          []Scope `json:"scopes"`
}

type grantResponse struct {
	ID              string     `json:"id"`
	BabyID          string     `json:"baby_id"`
	OwnerUserID     string     `json:"owner_user_id"`
	CaregiverUserID string     `json:"caregiver_user_id"`
	Scopes          []Scope    `json:"scopes"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
}

func inviteHandler(svc *Service, owners BabyOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		babyID := chi.URLParam(r, "babyID")
		if !ownsBaby(w, r, owners, babyID, uid) {
			return
		}

		var req inviteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.CaregiverUserID) == "" {
			http.Error(w, "caregiver_user_id required", http.StatusBadRequest)
			return
		}

		g, err := svc.Invite(r.Context(), InviteInput{
			BabyID:          babyID,
			OwnerUserID:     uid,
			CaregiverUserID: req.CaregiverUserID,
			Scopes:          req.Scopes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toGrantResponse(g))
	}
}

func listByBabyHandler(svc *Service, owners BabyOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		babyID := chi.URLParam(r, "babyID")
		if !ownsBaby(w, r, owners, babyID, uid) {
			return
		}

		items, err := svc.ListByBaby(r.Context(), babyID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponses(items))
	}
}

func listMineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// status=invited,active (CSV opcional)
		allowed := parseStatusFilter(r.URL.Query().Get("status"))

		items, err := svc.ListByCaregiver(r.Context(), uid)
		if err != nil {
			writeError(w, err)
			return
		}

		if len(allowed) > 0 {
			filtered := items[:0]
			for _, g := range items {
				if _, ok := allowed[g.Status]; ok {
					filtered = append(filtered, g)
				}
			}
			items = filtered
		}
		writeJSON(w, http.StatusOK, toGrantResponses(items))
	}
}

func acceptHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		g, err := svc.Accept(r.Context(), chi.URLParam(r, "grantID"), uid)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g))
	}
}

func revokeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		g, err := svc.Revoke(r.Context(), chi.URLParam(r, "grantID"), uid)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g))
	}
}

func ownsBaby(w http.ResponseWriter, r *http.Request, owners BabyOwnerLookup, babyID, uid string) bool {
	ownerID, err := owners.OwnerOf(r.Context(), babyID)
	if err != nil || strings.TrimSpace(ownerID) == "" {
		http.Error(w, "baby not found", http.StatusNotFound)
		return false
	}
	if ownerID != uid {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toGrantResponse(g Grant) grantResponse {
	return grantResponse{
		ID:              g.ID,
		BabyID:          g.BabyID,
		OwnerUserID:     g.OwnerUserID,
		CaregiverUserID: g.CaregiverUserID,
		Scopes:          g.Scopes,
		Status:          g.Status,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
		RevokedAt:       g.RevokedAt,
	}
}

func toGrantResponses(items []Grant) []grantResponse {
	out := make([]grantResponse, 0, len(items))
	for _, g := range items {
		out = append(out, toGrantResponse(g))
	}
	return out
}

func parseStatusFilter(raw string) map[Status]struct{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := map[Status]struct{}{}
	for _, p := range strings.Split(raw, ",") {
		if s := Status(strings.TrimSpace(p)); s != "" {
			out[s] = struct{}{}
		}
	}
	return out
}

// writeJSON duplicado por módulo (ver babies/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
