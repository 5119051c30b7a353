package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"baby-health-tracker/internal/domain/mealplans"
)

type MealPlansRepo struct {
	db *sql.DB
}

func NewMealPlansRepo(db *sql.DB) *MealPlansRepo {
	return &MealPlansRepo{db: db}
}

func (r *MealPlansRepo) Get(ctx context.Context, babyID string) (mealplans.MealPlan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT baby_id, days, updated_at, updated_by
		FROM meal_plans
		WHERE baby_id = $1
	`, babyID)

	var p mealplans.MealPlan
	var days []byte
	if err := row.Scan(&p.BabyID, &days, &p.UpdatedAt, &p.UpdatedBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mealplans.MealPlan{}, mealplans.ErrNotFound
		}
		return mealplans.MealPlan{}, err
	}
	if err := json.Unmarshal(days, &p.Days); err != nil {
		return mealplans.MealPlan{}, fmt.Errorf("decode meal plan days: %w", err)
	}
	return p, nil
}

// Put hace upsert: un plan por bebé.
func (r *MealPlansRepo) Put(ctx context.Context, p mealplans.MealPlan) error {
	days, err := json.Marshal(p.Days)
	if err != nil {
		return fmt.Errorf("encode meal plan days: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (baby_id, days, updated_at, updated_by)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (baby_id) DO UPDATE
		SET days = EXCLUDED.days,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
	`, p.BabyID, string(days), p.UpdatedAt, p.UpdatedBy)
	return err
}
