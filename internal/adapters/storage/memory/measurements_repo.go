package memory

import (
	"context"
	"errors"
	"sync"

	"baby-health-tracker/internal/domain/measurements"
)

// measurementRepo es append-only: los registros no se editan.
type measurementRepo struct {
	mu    sync.RWMutex
	items []measurements.Record
	ids   map[string]struct{}
}

func NewMeasurementRepo() measurements.Repository {
	return &measurementRepo{
		ids: make(map[string]struct{}),
	}
}

func (r *measurementRepo) Create(ctx context.Context, m measurements.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		return errors.New("measurement id required")
	}
	if _, exists := r.ids[m.ID]; exists {
		return errors.New("measurement already exists")
	}
	r.ids[m.ID] = struct{}{}
	r.items = append(r.items, m)
	return nil
}

func (r *measurementRepo) ListByBaby(ctx context.Context, babyID string, typ measurements.Type) ([]measurements.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]measurements.Record, 0)
	for _, m := range r.items {
		if m.BabyID != babyID {
			continue
		}
		if typ != "" && m.Type != typ {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
