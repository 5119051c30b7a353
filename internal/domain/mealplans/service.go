package mealplans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"baby-health-tracker/internal/platform/kv"

	"go.uber.org/zap"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("meal plan not found")
)

const (
	maxMealsPerDay = 12
	cacheTTL       = 24 * time.Hour
)

// Service lee con cache-aside sobre el KV (mealplan:<babyID>) y escribe
// primero en el repo y después en el cache.
type Service struct {
	repo  Repository
	cache kv.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(repo Repository, cache kv.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

func cacheKey(babyID string) string { return "mealplan:" + babyID }

// Get devuelve un plan vacío si el bebé todavía no tiene uno.
func (s *Service) Get(ctx context.Context, babyID string) (MealPlan, error) {
	babyID = strings.TrimSpace(babyID)
	if babyID == "" {
		return MealPlan{}, ErrInvalidInput
	}

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey(babyID)); err == nil {
			var p MealPlan
			if err := json.Unmarshal([]byte(raw), &p); err == nil {
				return p, nil
			}
			s.log.Warn("meal plan cache entry unreadable", zap.String("baby_id", babyID))
		} else if !errors.Is(err, kv.ErrMiss) {
			s.log.Warn("meal plan cache get failed", zap.String("baby_id", babyID), zap.Error(err))
		}
	}

	p, err := s.repo.Get(ctx, babyID)
	if errors.Is(err, ErrNotFound) {
		return MealPlan{BabyID: babyID, Days: map[Weekday][]Meal{}}, nil
	}
	if err != nil {
		return MealPlan{}, fmt.Errorf("get meal plan: %w", err)
	}

	s.fill(ctx, p)
	return p, nil
}

// Put reemplaza el plan completo.
func (s *Service) Put(ctx context.Context, babyID, actorUserID string, days map[Weekday][]Meal) (MealPlan, error) {
	babyID = strings.TrimSpace(babyID)
	if babyID == "" {
		return MealPlan{}, ErrInvalidInput
	}

	clean, err := normalizeDays(days)
	if err != nil {
		return MealPlan{}, err
	}

	p := MealPlan{
		BabyID:    babyID,
		Days:      clean,
		UpdatedAt: s.now(),
		UpdatedBy: strings.TrimSpace(actorUserID),
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return MealPlan{}, fmt.Errorf("put meal plan: %w", err)
	}

	// si no se pudo pisar el cache, se borra la entrada vieja para que el
	// próximo Get vaya al repo
	if !s.fill(ctx, p) {
		s.invalidate(ctx, babyID)
	}
	s.log.Info("meal plan updated", zap.String("baby_id", babyID))
	return p, nil
}

// fill es best-effort: sin cache se sigue leyendo del repo. Devuelve false si
// la entrada no quedó escrita.
func (s *Service) fill(ctx context.Context, p MealPlan) bool {
	if s.cache == nil {
		return true
	}
	b, err := json.Marshal(p)
	if err != nil {
		return false
	}
	if err := s.cache.Set(ctx, cacheKey(p.BabyID), string(b), cacheTTL); err != nil {
		s.log.Warn("meal plan cache set failed", zap.String("baby_id", p.BabyID), zap.Error(err))
		return false
	}
	return true
}

func (s *Service) invalidate(ctx context.Context, babyID string) {
	if err := s.cache.Delete(ctx, cacheKey(babyID)); err != nil {
		s.log.Error("meal plan cache invalidate failed", zap.String("baby_id", babyID), zap.Error(err))
	}
}

func normalizeDays(days map[Weekday][]Meal) (map[Weekday][]Meal, error) {
	out := make(map[Weekday][]Meal, len(days))
	for rawDay, meals := range days {
		d := Weekday(strings.ToLower(strings.TrimSpace(string(rawDay))))
		if !d.valid() {
			return nil, fmt.Errorf("%w: unknown day %q", ErrInvalidInput, rawDay)
		}
		if len(meals) > maxMealsPerDay {
			return nil, fmt.Errorf("%w: at most %d meals per day", ErrInvalidInput, maxMealsPerDay)
		}

		clean := make([]Meal, 0, len(meals))
		for _, m := range meals {
			m.Name = strings.TrimSpace(m.Name)
			m.Time = strings.TrimSpace(m.Time)
			m.Notes = strings.TrimSpace(m.Notes)
			if m.Name == "" {
				return nil, fmt.Errorf("%w: meal name required", ErrInvalidInput)
			}
			if m.Time != "" {
				if _, err := time.Parse("15:04", m.Time); err != nil {
					return nil, fmt.Errorf("%w: meal time must be HH:MM", ErrInvalidInput)
				}
			}
			clean = append(clean, m)
		}
		if len(clean) > 0 {
			out[d] = append(out[d], clean...)
		}
	}
	return out, nil
}
