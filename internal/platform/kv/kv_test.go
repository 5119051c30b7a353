package kv

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mismo contrato para los tres backends.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "prefs:u1:last_viewed_baby_id", "baby-1", 0))
	v, err := s.Get(ctx, "prefs:u1:last_viewed_baby_id")
	require.NoError(t, err)
	assert.Equal(t, "baby-1", v)

	// overwrite
	require.NoError(t, s.Set(ctx, "prefs:u1:last_viewed_baby_id", "baby-2", 0))
	v, err = s.Get(ctx, "prefs:u1:last_viewed_baby_id")
	require.NoError(t, err)
	assert.Equal(t, "baby-2", v)

	require.NoError(t, s.Delete(ctx, "prefs:u1:last_viewed_baby_id"))
	_, err = s.Get(ctx, "prefs:u1:last_viewed_baby_id")
	assert.ErrorIs(t, err, ErrMiss)

	// delete de algo inexistente no falla
	require.NoError(t, s.Delete(ctx, "nope"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_TTL(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(context.Background(), "k", "v", time.Minute))
	v, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(NewRedisClient(RedisConfig{Addr: mr.Addr()}))
	defer s.Close()

	require.NoError(t, s.Ping(context.Background()))
	exerciseStore(t, s)

	require.NoError(t, s.Set(context.Background(), "ttl", "v", time.Minute))
	mr.FastForward(2 * time.Minute)
	_, err := s.Get(context.Background(), "ttl")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	require.NoError(t, s.Set(context.Background(), "ttl", "v", time.Minute))
	now = now.Add(2 * time.Minute)
	_, err = s.Get(context.Background(), "ttl")
	assert.ErrorIs(t, err, ErrMiss)
}
