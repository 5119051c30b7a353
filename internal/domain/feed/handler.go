package feed

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"baby-health-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/feed/posts", func(fr chi.Router) {
		fr.Post("/", createPostHandler(svc))
		fr.Get("/", listPostsHandler(svc))
		fr.Delete("/{postID}", deletePostHandler(svc))
	})
}

type createPostRequest struct {
	Body string `json:"body"`
}

type postResponse struct {
	ID           string    `json:"id"`
	AuthorUserID string    `json:"author_user_id"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

func createPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), uid, req.Body)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPostResponse(p))
	}
}

// listPostsHandler godoc
// @Summary Feed de la comunidad
// @Description Publicaciones más recientes primero.
// @Tags feed
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param limit query int false "1-100, por defecto 20"
// @Success 200 {array} postResponse
// @Failure 400 {string} string "limit inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /feed/posts [get]
func listPostsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if middleware.UserID(r.Context()) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit := 0
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "limit must be an integer", http.StatusBadRequest)
				return
			}
			limit = n
			if n == 0 {
				limit = -1
			}
		}

		items, err := svc.List(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]postResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPostResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deletePostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "postID"), uid); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "post not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPostResponse(p Post) postResponse {
	return postResponse{
		ID:           p.ID,
		AuthorUserID: p.AuthorUserID,
		Body:         p.Body,
		CreatedAt:    p.CreatedAt,
	}
}

// writeJSON duplicado por módulo (ver babies/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
