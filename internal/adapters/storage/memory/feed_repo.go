package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"baby-health-tracker/internal/domain/feed"
)

type feedRepo struct {
	mu   sync.RWMutex
	byID map[string]feed.Post
}

func NewFeedRepo() feed.Repository {
	return &feedRepo{
		byID: make(map[string]feed.Post),
	}
}

func (r *feedRepo) Create(ctx context.Context, p feed.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("post id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("post already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *feedRepo) GetByID(ctx context.Context, id string) (feed.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return feed.Post{}, feed.ErrNotFound
	}
	return p, nil
}

func (r *feedRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return feed.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *feedRepo) ListRecent(ctx context.Context, limit int) ([]feed.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feed.Post, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
