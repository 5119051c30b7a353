package middleware

import (
	"context"
	"net/http"
	"strings"

	"baby-health-tracker/internal/ports/auth"

	"go.uber.org/zap"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// DebugUserHeader sólo se respeta sin verifier (modo dev).
const DebugUserHeader = "X-Debug-User-ID"

// AuthContext:
// - verifier != nil y viene Bearer token => Verify() y setea claims.
// - verifier == nil => modo dev: X-Debug-User-ID setea claims.
// - Sin claims el request sigue; cada handler decide si exige auth (401).
func AuthContext(verifier auth.Verifier, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				if uid := strings.TrimSpace(r.Header.Get(DebugUserHeader)); uid != "" {
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), auth.Claims{UserID: uid})))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Debug("token rejected", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

// UserID devuelve el user autenticado o "" si no hay.
func UserID(ctx context.Context) string {
	c, ok := GetClaims(ctx)
	if !ok {
		return ""
	}
	return strings.TrimSpace(c.UserID)
}

func bearerToken(authHeader string) string {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
