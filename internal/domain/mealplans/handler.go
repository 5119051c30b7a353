package mealplans

import (
	"encoding/json"
	"errors"
	"net/http"

	"baby-health-tracker/internal/domain/babies"
	"baby-health-tracker/internal/domain/caregivers"
	"baby-health-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, babiesSvc *babies.Service) {
	r.Route("/babies/{babyID}/meal-plan", func(mr chi.Router) {
		mr.Get("/", getMealPlanHandler(svc, babiesSvc))
		mr.Put("/", putMealPlanHandler(svc, babiesSvc))
	})
}

type putMealPlanRequest struct {
	Days map[Weekday][]Meal `json:"days"`
}

func getMealPlanHandler(svc *Service, babiesSvc *babies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		b, err := babiesSvc.Authorize(r.Context(), chi.URLParam(r, "babyID"), uid, caregivers.ScopeBabyRead)
		if err != nil {
			writeError(w, err)
			return
		}

		p, err := svc.Get(r.Context(), b.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func putMealPlanHandler(svc *Service, babiesSvc *babies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		b, err := babiesSvc.Authorize(r.Context(), chi.URLParam(r, "babyID"), uid, caregivers.ScopeBabyEdit)
		if err != nil {
			writeError(w, err)
			return
		}

		var req putMealPlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Put(r.Context(), b.ID, uid, req.Days)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, babies.ErrNotFound):
		http.Error(w, "baby not found", http.StatusNotFound)
	case errors.Is(err, babies.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON duplicado por módulo (ver babies/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
