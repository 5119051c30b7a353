package mealplans

import "context"

type Repository interface {
	// Get devuelve ErrNotFound si el bebé todavía no tiene plan.
	Get(ctx context.Context, babyID string) (MealPlan, error)
	Put(ctx context.Context, p MealPlan) error
}
