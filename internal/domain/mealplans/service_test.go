package mealplans

import (
	"context"
	"errors"
	"testing"
	"time"

	"baby-health-tracker/internal/platform/kv"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	plans map[string]MealPlan
	gets  int
	fail  error
}

func (r *countingRepo) Get(_ context.Context, babyID string) (MealPlan, error) {
	r.gets++
	if r.fail != nil {
		return MealPlan{}, r.fail
	}
	p, ok := r.plans[babyID]
	if !ok {
		return MealPlan{}, ErrNotFound
	}
	return p, nil
}

func (r *countingRepo) Put(_ context.Context, p MealPlan) error {
	if r.fail != nil {
		return r.fail
	}
	r.plans[p.BabyID] = p
	return nil
}

func TestGet_EmptyPlanWhenMissing(t *testing.T) {
	svc := NewService(&countingRepo{plans: map[string]MealPlan{}}, kv.NewMemoryStore(), nil)

	p, err := svc.Get(context.Background(), "baby-1")
	require.NoError(t, err)
	assert.Equal(t, "baby-1", p.BabyID)
	assert.Empty(t, p.Days)
}

func TestPutThenGet_ServedFromRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	store := kv.NewRedisStore(kv.NewRedisClient(kv.RedisConfig{Addr: mr.Addr()}))
	repo := &countingRepo{plans: map[string]MealPlan{}}
	svc := NewService(repo, store, nil)
	svc.now = func() time.Time { return time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	_, err := svc.Put(ctx, "baby-1", "parent-1", map[Weekday][]Meal{
		"Monday": {{Name: " Puré de zapallo ", Time: "12:30"}},
		Tuesday:  {{Name: "Avena", Notes: "sin azúcar"}},
	})
	require.NoError(t, err)
	assert.True(t, mr.Exists("mealplan:baby-1"))

	p, err := svc.Get(ctx, "baby-1")
	require.NoError(t, err)
	assert.Equal(t, 0, repo.gets, "should be served from cache")
	require.Len(t, p.Days[Monday], 1)
	assert.Equal(t, "Puré de zapallo", p.Days[Monday][0].Name)
	assert.Equal(t, "parent-1", p.UpdatedBy)

	// cache vencido => vuelve al repo y rellena
	mr.FastForward(25 * time.Hour)
	_, err = svc.Get(ctx, "baby-1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.gets)
	assert.True(t, mr.Exists("mealplan:baby-1"))
}

func TestPut_Validation(t *testing.T) {
	svc := NewService(&countingRepo{plans: map[string]MealPlan{}}, nil, nil)
	ctx := context.Background()

	_, err := svc.Put(ctx, "baby-1", "p", map[Weekday][]Meal{"someday": {{Name: "x"}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Put(ctx, "baby-1", "p", map[Weekday][]Meal{Monday: {{Name: " "}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Put(ctx, "baby-1", "p", map[Weekday][]Meal{Monday: {{Name: "x", Time: "25:00"}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPut_RepoFailureLeavesCacheUntouched(t *testing.T) {
	cache := kv.NewMemoryStore()
	repo := &countingRepo{plans: map[string]MealPlan{}, fail: errors.New("db down")}
	svc := NewService(repo, cache, nil)

	_, err := svc.Put(context.Background(), "baby-1", "p", map[Weekday][]Meal{Monday: {{Name: "x"}}})
	require.Error(t, err)

	_, err = cache.Get(context.Background(), "mealplan:baby-1")
	assert.ErrorIs(t, err, kv.ErrMiss)
}

// flakyStore deja de aceptar Set después del primero.
type flakyStore struct {
	kv.Store
	sets int
}

func (f *flakyStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.sets++
	if f.sets > 1 {
		return errors.New("cache unavailable")
	}
	return f.Store.Set(ctx, key, value, ttl)
}

func TestPut_CacheSetFailureDropsStaleEntry(t *testing.T) {
	store := &flakyStore{Store: kv.NewMemoryStore()}
	repo := &countingRepo{plans: map[string]MealPlan{}}
	svc := NewService(repo, store, nil)
	ctx := context.Background()

	_, err := svc.Put(ctx, "baby-1", "parent-1", map[Weekday][]Meal{"monday": {{Name: "Puré"}}})
	require.NoError(t, err)

	_, err = svc.Put(ctx, "baby-1", "parent-1", map[Weekday][]Meal{"tuesday": {{Name: "Sopa"}}})
	require.NoError(t, err)

	p, err := svc.Get(ctx, "baby-1")
	require.NoError(t, err)
	assert.Empty(t, p.Days["monday"])
	require.Len(t, p.Days["tuesday"], 1)
	assert.Equal(t, "Sopa", p.Days["tuesday"][0].Name)
	assert.Equal(t, 1, repo.gets)
}
