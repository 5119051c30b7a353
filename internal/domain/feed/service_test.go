package feed

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID map[string]Post
}

func (r *testRepo) Create(_ context.Context, p Post) error { r.byID[p.ID] = p; return nil }

func (r *testRepo) GetByID(_ context.Context, id string) (Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error { delete(r.byID, id); return nil }

func (r *testRepo) ListRecent(_ context.Context, limit int) ([]Post, error) {
	out := make([]Post, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestFeed_CreateListDelete(t *testing.T) {
	svc := NewService(&testRepo{byID: map[string]Post{}}, nil)
	ctx := context.Background()

	base := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	var last Post
	for i := 0; i < 25; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		p, err := svc.Create(ctx, "parent-1", "post")
		require.NoError(t, err)
		last = p
	}

	items, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, items, DefaultLimit)
	assert.Equal(t, last.ID, items[0].ID)

	_, err = svc.List(ctx, MaxLimit+1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.List(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.ErrorIs(t, svc.Delete(ctx, last.ID, "parent-2"), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, last.ID, "parent-1"))
	assert.ErrorIs(t, svc.Delete(ctx, last.ID, "parent-1"), ErrNotFound)
}

func TestFeed_CreateValidation(t *testing.T) {
	svc := NewService(&testRepo{byID: map[string]Post{}}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "parent-1", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, "parent-1", strings.Repeat("a", 2001))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, "", "hola")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
