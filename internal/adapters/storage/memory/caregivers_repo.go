package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"baby-health-tracker/internal/domain/caregivers"
)

type grantRepo struct {
	mu   sync.RWMutex
	byID map[string]caregivers.Grant
}

func NewCaregiverGrantRepo() caregivers.Repository {
	return &grantRepo{
		byID: make(map[string]caregivers.Grant),
	}
}

func (r *grantRepo) Create(ctx context.Context, g caregivers.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == "" {
		return errors.New("grant id required")
	}
	if _, exists := r.byID[g.ID]; exists {
		return errors.New("grant already exists")
	}
	r.byID[g.ID] = cloneGrant(g)
	return nil
}

func (r *grantRepo) Update(ctx context.Context, g caregivers.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[g.ID]; !exists {
		return caregivers.ErrNotFound
	}
	r.byID[g.ID] = cloneGrant(g)
	return nil
}

func (r *grantRepo) GetByID(ctx context.Context, id string) (caregivers.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return caregivers.Grant{}, caregivers.ErrNotFound
	}
	return cloneGrant(g), nil
}

func (r *grantRepo) ListByBaby(ctx context.Context, babyID string) ([]caregivers.Grant, error) {
	return r.list(func(g caregivers.Grant) bool { return g.BabyID == babyID }), nil
}

func (r *grantRepo) ListByCaregiver(ctx context.Context, caregiverUserID string) ([]caregivers.Grant, error) {
	return r.list(func(g caregivers.Grant) bool { return g.CaregiverUserID == caregiverUserID }), nil
}

func (r *grantRepo) list(keep func(caregivers.Grant) bool) []caregivers.Grant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]caregivers.Grant, 0)
	for _, g := range r.byID {
		if keep(g) {
			out = append(out, cloneGrant(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// cloneGrant copia Scopes y RevokedAt para que el caller no mute el mapa.
func cloneGrant(g caregivers.Grant) caregivers.Grant {
	g.Scopes = append([]caregivers.Scope(nil), g.Scopes...)
	if g.RevokedAt != nil {
		t := *g.RevokedAt
		g.RevokedAt = &t
	}
	return g
}
