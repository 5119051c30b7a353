package postgrest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"baby-health-tracker/internal/adapters/supabase"
	"baby-health-tracker/internal/domain/babies"
	"baby-health-tracker/internal/domain/measurements"
	"baby-health-tracker/internal/domain/vaccines"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTables(t *testing.T, h http.HandlerFunc) *supabase.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := supabase.NewClient(supabase.Config{URL: srv.URL, AnonKey: "anon", ServiceKey: "service", Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestBabiesRepo_GetByID(t *testing.T) {
	c := newTables(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/babies", r.URL.Path)
		assert.Equal(t, "Bearer service", r.Header.Get("Authorization"))

		if r.URL.Query().Get("id") == "eq.missing" {
			writeJSON(w, http.StatusOK, []any{})
			return
		}
		assert.Equal(t, "eq.baby-1", r.URL.Query().Get("id"))
		writeJSON(w, http.StatusOK, []map[string]any{{
			"id":             "baby-1",
			"parent_user_id": "parent-1",
			"name":           "Lucía",
			"date_of_birth":  "2024-01-01",
			"gender":         "female",
			"created_at":     "2024-01-02T10:00:00Z",
			"updated_at":     "2024-01-02T10:00:00Z",
		}})
	})
	repo := NewBabiesRepo(c)

	b, err := repo.GetByID(context.Background(), "baby-1")
	require.NoError(t, err)
	assert.Equal(t, "Lucía", b.Name)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), b.DateOfBirth)
	assert.Equal(t, babies.GenderFemale, b.Gender)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, babies.ErrNotFound)
}

func TestBabiesRepo_CreateSendsDateOnly(t *testing.T) {
	var got map[string]any
	c := newTables(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	})

	err := NewBabiesRepo(c).Create(context.Background(), babies.Baby{
		ID: "baby-1", ParentUserID: "parent-1", Name: "Lucía",
		DateOfBirth: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Gender: babies.GenderUnknown,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got["date_of_birth"])
}

func TestVaccineSchedulesRepo_UpdateNotFound(t *testing.T) {
	c := newTables(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.s-1", r.URL.Query().Get("id"))
		assert.Equal(t, "eq.baby-1", r.URL.Query().Get("baby_id"))
		writeJSON(w, http.StatusOK, []any{})
	})

	err := NewVaccineSchedulesRepo(c).Update(context.Background(), vaccines.Schedule{ID: "s-1", BabyID: "baby-1"})
	assert.ErrorIs(t, err, vaccines.ErrNotFound)
}

func TestMeasurementsRepo_ListFiltersType(t *testing.T) {
	c := newTables(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.baby-1", q.Get("baby_id"))
		assert.Equal(t, "eq.weight", q.Get("type"))
		assert.Equal(t, "date.desc", q.Get("order"))
		writeJSON(w, http.StatusOK, []map[string]any{{
			"id": "m-1", "baby_id": "baby-1", "type": "weight", "value": 4.8,
			"date": "2024-04-01T00:00:00Z", "recorded_by": "parent-1", "created_at": "2024-04-01T08:00:00Z",
		}})
	})

	items, err := NewMeasurementsRepo(c).ListByBaby(context.Background(), "baby-1", measurements.TypeWeight)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, measurements.TypeWeight, items[0].Type)
	assert.Equal(t, 4.8, items[0].Value)
}
