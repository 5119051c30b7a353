package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	"baby-health-tracker/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signUpHandler(svc))
		ar.Post("/signin", signInHandler(svc))
		ar.Post("/verify-otp", verifyOTPHandler(svc))
		ar.Post("/reset-password", resetPasswordHandler(svc))
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

// signUpHandler godoc
// @Summary Crear cuenta
// @Description Alta de cuenta en el proveedor de identidad. Con confirmación por email activa la respuesta no trae access_token.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "email y password (mínimo 6 caracteres)"
// @Success 201 {object} auth.Session
// @Failure 400 {string} string "invalid json / email o password inválidos"
// @Failure 502 {string} string "upstream error"
// @Failure 503 {string} string "auth provider not configured"
// @Router /auth/signup [post]
func signUpHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := svc.SignUp(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

// signInHandler godoc
// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "email y password"
// @Success 200 {object} auth.Session
// @Failure 400 {string} string "invalid json / email o password inválidos"
// @Failure 401 {string} string "invalid credentials"
// @Failure 502 {string} string "upstream error"
// @Failure 503 {string} string "auth provider not configured"
// @Router /auth/signin [post]
func signInHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := svc.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func verifyOTPHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := svc.VerifyOTP(r.Context(), req.Email, req.Token)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func resetPasswordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.ResetPasswordForEmail(r.Context(), req.Email); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, auth.ErrRejected):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrUnauthorized):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrNotConfigured):
		http.Error(w, "auth provider not configured", http.StatusServiceUnavailable)
	default:
		http.Error(w, "upstream error", http.StatusBadGateway)
	}
}

// writeJSON duplicado por módulo (ver babies/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
