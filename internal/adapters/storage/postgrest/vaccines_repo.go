package postgrest

import (
	"context"
	"time"

	"baby-health-tracker/internal/adapters/supabase"
	"baby-health-tracker/internal/domain/vaccines"
)

type scheduleRow struct {
	ID             string     `json:"id"`
	BabyID         string     `json:"baby_id"`
	VaccineID      string     `json:"vaccine_id"`
	Hospital       string     `json:"hospital"`
	Location       string     `json:"location"`
	Date           time.Time  `json:"date"`
	IsAdministered bool       `json:"is_administered"`
	AdministeredAt *time.Time `json:"administered_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (r scheduleRow) toSchedule() vaccines.Schedule {
	return vaccines.Schedule(r)
}

type VaccineSchedulesRepo struct {
	t Tables
}

func NewVaccineSchedulesRepo(t Tables) *VaccineSchedulesRepo {
	return &VaccineSchedulesRepo{t: t}
}

func scheduleFilters(babyID, id string) []supabase.Filter {
	return []supabase.Filter{supabase.Eq("id", id), supabase.Eq("baby_id", babyID)}
}

func (r *VaccineSchedulesRepo) Create(ctx context.Context, s vaccines.Schedule) error {
	return r.t.Insert(ctx, tableSchedules, scheduleRow(s), nil)
}

func (r *VaccineSchedulesRepo) Update(ctx context.Context, s vaccines.Schedule) error {
	n, err := r.t.Update(ctx, tableSchedules, scheduleFilters(s.BabyID, s.ID), map[string]any{
		"hospital":        s.Hospital,
		"location":        s.Location,
		"date":            s.Date,
		"is_administered": s.IsAdministered,
		"administered_at": s.AdministeredAt,
		"updated_at":      s.UpdatedAt,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return vaccines.ErrNotFound
	}
	return nil
}

func (r *VaccineSchedulesRepo) Delete(ctx context.Context, babyID, id string) error {
	n, err := r.t.Delete(ctx, tableSchedules, scheduleFilters(babyID, id))
	if err != nil {
		return err
	}
	if n == 0 {
		return vaccines.ErrNotFound
	}
	return nil
}

func (r *VaccineSchedulesRepo) GetByID(ctx context.Context, babyID, id string) (vaccines.Schedule, error) {
	var rows []scheduleRow
	if err := r.t.Select(ctx, tableSchedules, supabase.Query{Filters: scheduleFilters(babyID, id), Limit: 1}, &rows); err != nil {
		return vaccines.Schedule{}, err
	}
	if len(rows) == 0 {
		return vaccines.Schedule{}, vaccines.ErrNotFound
	}
	return rows[0].toSchedule(), nil
}

func (r *VaccineSchedulesRepo) ListByBaby(ctx context.Context, babyID string) ([]vaccines.Schedule, error) {
	var rows []scheduleRow
	q := supabase.Query{Filters: []supabase.Filter{supabase.Eq("baby_id", babyID)}, Order: "date"}
	if err := r.t.Select(ctx, tableSchedules, q, &rows); err != nil {
		return nil, err
	}
	out := make([]vaccines.Schedule, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toSchedule())
	}
	return out, nil
}
