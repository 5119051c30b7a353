package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"baby-health-tracker/internal/domain/vaccines"
)

type VaccineSchedulesRepo struct {
	db *sql.DB
}

func NewVaccineSchedulesRepo(db *sql.DB) *VaccineSchedulesRepo {
	return &VaccineSchedulesRepo{db: db}
}

const scheduleColumns = `
	id, baby_id, vaccine_id,
	hospital, location, date,
	is_administered, administered_at,
	created_at, updated_at`

func (r *VaccineSchedulesRepo) Create(ctx context.Context, s vaccines.Schedule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vaccine_schedules (`+scheduleColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		s.ID,
		s.BabyID,
		s.VaccineID,
		s.Hospital,
		s.Location,
		s.Date,
		s.IsAdministered,
		toNullTime(s.AdministeredAt),
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *VaccineSchedulesRepo) Update(ctx context.Context, s vaccines.Schedule) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vaccine_schedules
		SET
			hospital = $3,
			location = $4,
			date = $5,
			is_administered = $6,
			administered_at = $7,
			updated_at = $8
		WHERE id = $1 AND baby_id = $2
	`,
		s.ID,
		s.BabyID,
		s.Hospital,
		s.Location,
		s.Date,
		s.IsAdministered,
		toNullTime(s.AdministeredAt),
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return vaccines.ErrNotFound
	}
	return nil
}

func (r *VaccineSchedulesRepo) Delete(ctx context.Context, babyID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaccine_schedules WHERE id = $1 AND baby_id = $2`, id, babyID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return vaccines.ErrNotFound
	}
	return nil
}

func (r *VaccineSchedulesRepo) GetByID(ctx context.Context, babyID, id string) (vaccines.Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return vaccines.Schedule{}, vaccines.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+scheduleColumns+`
		FROM vaccine_schedules
		WHERE id = $1 AND baby_id = $2
	`, id, babyID)
	s, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return vaccines.Schedule{}, vaccines.ErrNotFound
	}
	return s, err
}

func (r *VaccineSchedulesRepo) ListByBaby(ctx context.Context, babyID string) ([]vaccines.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+scheduleColumns+`
		FROM vaccine_schedules
		WHERE baby_id = $1
		ORDER BY date ASC
	`, babyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vaccines.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSchedule(sc scanner) (vaccines.Schedule, error) {
	var s vaccines.Schedule
	var administeredAt sql.NullTime
	if err := sc.Scan(
		&s.ID,
		&s.BabyID,
		&s.VaccineID,
		&s.Hospital,
		&s.Location,
		&s.Date,
		&s.IsAdministered,
		&administeredAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return vaccines.Schedule{}, err
	}
	s.AdministeredAt = fromNullTime(administeredAt)
	return s, nil
}
