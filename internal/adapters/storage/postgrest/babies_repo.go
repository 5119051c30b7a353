package postgrest

import (
	"context"
	"strings"
	"time"

	"baby-health-tracker/internal/adapters/supabase"
	"baby-health-tracker/internal/domain/babies"
)

type babyRow struct {
	ID           string    `json:"id"`
	ParentUserID string    `json:"parent_user_id"`
	Name         string    `json:"name"`
	DateOfBirth  string    `json:"date_of_birth"`
	Gender       string    `json:"gender"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toBabyRow(b babies.Baby) babyRow {
	return babyRow{
		ID:           b.ID,
		ParentUserID: b.ParentUserID,
		Name:         b.Name,
		DateOfBirth:  b.DateOfBirth.Format(dateLayout),
		Gender:       string(b.Gender),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func (r babyRow) toBaby() (babies.Baby, error) {
	dob, err := time.Parse(dateLayout, r.DateOfBirth)
	if err != nil {
		return babies.Baby{}, err
	}
	return babies.Baby{
		ID:           r.ID,
		ParentUserID: r.ParentUserID,
		Name:         r.Name,
		DateOfBirth:  dob,
		Gender:       babies.Gender(r.Gender),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

type BabiesRepo struct {
	t Tables
}

func NewBabiesRepo(t Tables) *BabiesRepo {
	return &BabiesRepo{t: t}
}

func (r *BabiesRepo) Create(ctx context.Context, b babies.Baby) error {
	return r.t.Insert(ctx, tableBabies, toBabyRow(b), nil)
}

func (r *BabiesRepo) Update(ctx context.Context, b babies.Baby) error {
	row := toBabyRow(b)
	n, err := r.t.Update(ctx, tableBabies, []supabase.Filter{supabase.Eq("id", b.ID)}, map[string]any{
		"name":          row.Name,
		"date_of_birth": row.DateOfBirth,
		"gender":        row.Gender,
		"updated_at":    row.UpdatedAt,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return babies.ErrNotFound
	}
	return nil
}

func (r *BabiesRepo) GetByID(ctx context.Context, id string) (babies.Baby, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return babies.Baby{}, babies.ErrNotFound
	}
	out, err := r.list(ctx, supabase.Query{Filters: []supabase.Filter{supabase.Eq("id", id)}, Limit: 1})
	if err != nil {
		return babies.Baby{}, err
	}
	if len(out) == 0 {
		return babies.Baby{}, babies.ErrNotFound
	}
	return out[0], nil
}

func (r *BabiesRepo) ListByParent(ctx context.Context, parentUserID string) ([]babies.Baby, error) {
	return r.list(ctx, supabase.Query{
		Filters: []supabase.Filter{supabase.Eq("parent_user_id", parentUserID)},
		Order:   "created_at",
	})
}

func (r *BabiesRepo) ListAll(ctx context.Context) ([]babies.Baby, error) {
	return r.list(ctx, supabase.Query{Order: "created_at"})
}

func (r *BabiesRepo) list(ctx context.Context, q supabase.Query) ([]babies.Baby, error) {
	var rows []babyRow
	if err := r.t.Select(ctx, tableBabies, q, &rows); err != nil {
		return nil, err
	}
	out := make([]babies.Baby, 0, len(rows))
	for _, row := range rows {
		b, err := row.toBaby()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
