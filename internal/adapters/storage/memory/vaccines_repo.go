package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"baby-health-tracker/internal/domain/vaccines"
)

type scheduleRepo struct {
	mu   sync.RWMutex
	byID map[string]vaccines.Schedule
}

func NewVaccineScheduleRepo() vaccines.Repository {
	return &scheduleRepo{
		byID: make(map[string]vaccines.Schedule),
	}
}

func (r *scheduleRepo) Create(ctx context.Context, s vaccines.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("schedule id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("schedule already exists")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *scheduleRepo) Update(ctx context.Context, s vaccines.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[s.ID]
	if !exists || cur.BabyID != s.BabyID {
		return vaccines.ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *scheduleRepo) Delete(ctx context.Context, babyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[id]
	if !exists || cur.BabyID != babyID {
		return vaccines.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *scheduleRepo) GetByID(ctx context.Context, babyID, id string) (vaccines.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok || s.BabyID != babyID {
		return vaccines.Schedule{}, vaccines.ErrNotFound
	}
	return s, nil
}

func (r *scheduleRepo) ListByBaby(ctx context.Context, babyID string) ([]vaccines.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vaccines.Schedule, 0)
	for _, s := range r.byID {
		if s.BabyID == babyID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
