package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"baby-health-tracker/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token == "good" {
		return auth.Claims{UserID: "user-1"}, nil
	}
	return auth.Claims{}, errors.New("bad token")
}

func captureUser(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthContext_DevMode(t *testing.T) {
	var got string
	h := AuthContext(nil, nil)(captureUser(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DebugUserHeader, " parent-1 ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "parent-1", got)

	got = "x"
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "", got)
}

func TestAuthContext_Verifier(t *testing.T) {
	var got string
	h := AuthContext(fakeVerifier{}, zap.NewNop())(captureUser(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "user-1", got)

	// con verifier, el header de debug no cuenta
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DebugUserHeader, "parent-1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "", got)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken("abc"))
	assert.Equal(t, "", bearerToken(""))
}

func TestRequestLog_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestLog(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/babies/x", nil))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
		assert.Equal(t, int64(http.StatusNotFound), entries[0].ContextMap()["status"])
		assert.Equal(t, "/babies/x", entries[0].ContextMap()["path"])
	}
}
