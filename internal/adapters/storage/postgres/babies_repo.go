package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"baby-health-tracker/internal/domain/babies"
)

type BabiesRepo struct {
	db *sql.DB
}

func NewBabiesRepo(db *sql.DB) *BabiesRepo {
	return &BabiesRepo{db: db}
}

const babyColumns = `
	id, parent_user_id,
	name, date_of_birth, gender,
	created_at, updated_at`

func (r *BabiesRepo) Create(ctx context.Context, b babies.Baby) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO babies (`+babyColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		b.ID,
		b.ParentUserID,
		b.Name,
		b.DateOfBirth,
		string(b.Gender),
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

func (r *BabiesRepo) Update(ctx context.Context, b babies.Baby) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE babies
		SET
			name = $2,
			date_of_birth = $3,
			gender = $4,
			updated_at = $5
		WHERE id = $1
	`,
		b.ID,
		b.Name,
		b.DateOfBirth,
		string(b.Gender),
		b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
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

	row := r.db.QueryRowContext(ctx, `SELECT `+babyColumns+` FROM babies WHERE id = $1`, id)
	b, err := scanBaby(row)
	if errors.Is(err, sql.ErrNoRows) {
		return babies.Baby{}, babies.ErrNotFound
	}
	return b, err
}

func (r *BabiesRepo) ListByParent(ctx context.Context, parentUserID string) ([]babies.Baby, error) {
	parentUserID = strings.TrimSpace(parentUserID)
	if parentUserID == "" {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+babyColumns+`
		FROM babies
		WHERE parent_user_id = $1
		ORDER BY created_at ASC
	`, parentUserID)
}

func (r *BabiesRepo) ListAll(ctx context.Context) ([]babies.Baby, error) {
	return r.list(ctx, `SELECT `+babyColumns+` FROM babies ORDER BY created_at ASC`)
}

func (r *BabiesRepo) list(ctx context.Context, query string, args ...any) ([]babies.Baby, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]babies.Baby, 0)
	for rows.Next() {
		b, err := scanBaby(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// scanner cubre *sql.Row y *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBaby(s scanner) (babies.Baby, error) {
	var b babies.Baby
	var gender string
	if err := s.Scan(
		&b.ID,
		&b.ParentUserID,
		&b.Name,
		&b.DateOfBirth,
		&gender,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return babies.Baby{}, err
	}
	b.Gender = babies.Gender(gender)
	// date_of_birth es DATE: pgx lo mapea a medianoche UTC
	b.DateOfBirth = b.DateOfBirth.UTC()
	return b, nil
}
