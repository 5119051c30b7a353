package preferences

import (
	"encoding/json"
	"errors"
	"net/http"

	"baby-health-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/preferences/{key}", func(pr chi.Router) {
		pr.Get("/", getPreferenceHandler(svc))
		pr.Put("/", putPreferenceHandler(svc))
		pr.Delete("/", deletePreferenceHandler(svc))
	})
}

type preferenceBody struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func getPreferenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		key := chi.URLParam(r, "key")
		v, err := svc.Get(r.Context(), uid, key)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, preferenceBody{Key: key, Value: v})
	}
}

func putPreferenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req preferenceBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		key := chi.URLParam(r, "key")
		if err := svc.Set(r.Context(), uid, key, req.Value); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, preferenceBody{Key: key, Value: req.Value})
	}
}

func deletePreferenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), uid, chi.URLParam(r, "key")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidKey):
		http.Error(w, "key must match [a-z0-9_.-]{1,64}", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
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
