package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"baby-health-tracker/internal/domain/babies"
)

type babyRepo struct {
	mu   sync.RWMutex
	byID map[string]babies.Baby
}

func NewBabyRepo() babies.Repository {
	return &babyRepo{
		byID: make(map[string]babies.Baby),
	}
}

func (r *babyRepo) Create(ctx context.Context, b babies.Baby) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(b.ID) == "" {
		return errors.New("baby id required")
	}
	if _, exists := r.byID[b.ID]; exists {
		return errors.New("baby already exists")
	}
	r.byID[b.ID] = b
	return nil
}

func (r *babyRepo) Update(ctx context.Context, b babies.Baby) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[b.ID]; !exists {
		return babies.ErrNotFound
	}
	r.byID[b.ID] = b
	return nil
}

func (r *babyRepo) GetByID(ctx context.Context, id string) (babies.Baby, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return babies.Baby{}, babies.ErrNotFound
	}
	return b, nil
}

func (r *babyRepo) ListByParent(ctx context.Context, parentUserID string) ([]babies.Baby, error) {
	return r.list(func(b babies.Baby) bool { return b.ParentUserID == parentUserID }), nil
}

func (r *babyRepo) ListAll(ctx context.Context) ([]babies.Baby, error) {
	return r.list(func(babies.Baby) bool { return true }), nil
}

func (r *babyRepo) list(keep func(babies.Baby) bool) []babies.Baby {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]babies.Baby, 0)
	for _, b := range r.byID {
		if keep(b) {
			out = append(out, b)
		}
	}

	// created_at asc, igual que postgres
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
