package memory

import (
	"context"
	"sync"

	"baby-health-tracker/internal/domain/mealplans"
)

type mealPlanRepo struct {
	mu     sync.RWMutex
	byBaby map[string]mealplans.MealPlan
}

func NewMealPlanRepo() mealplans.Repository {
	return &mealPlanRepo{
		byBaby: make(map[string]mealplans.MealPlan),
	}
}

func (r *mealPlanRepo) Get(ctx context.Context, babyID string) (mealplans.MealPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byBaby[babyID]
	if !ok {
		return mealplans.MealPlan{}, mealplans.ErrNotFound
	}
	return clonePlan(p), nil
}

func (r *mealPlanRepo) Put(ctx context.Context, p mealplans.MealPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byBaby[p.BabyID] = clonePlan(p)
	return nil
}

func clonePlan(p mealplans.MealPlan) mealplans.MealPlan {
	days := make(map[mealplans.Weekday][]mealplans.Meal, len(p.Days))
	for d, meals := range p.Days {
		days[d] = append([]mealplans.Meal(nil), meals...)
	}
	p.Days = days
	return p
}
