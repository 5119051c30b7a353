package postgres

import (
	"context"
	"database/sql"

	"baby-health-tracker/internal/domain/measurements"
)

type MeasurementsRepo struct {
	db *sql.DB
}

func NewMeasurementsRepo(db *sql.DB) *MeasurementsRepo {
	return &MeasurementsRepo{db: db}
}

func (r *MeasurementsRepo) Create(ctx context.Context, m measurements.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO measurements (
			id, baby_id, type, value, date, recorded_by, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		m.ID,
		m.BabyID,
		string(m.Type),
		m.Value,
		m.Date,
		m.RecordedBy,
		m.CreatedAt,
	)
	return err
}

func (r *MeasurementsRepo) ListByBaby(ctx context.Context, babyID string, typ measurements.Type) ([]measurements.Record, error) {
	// type vacío = todos
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, baby_id, type, value, date, recorded_by, created_at
		FROM measurements
		WHERE baby_id = $1
		  AND ($2 = '' OR type = $2)
		ORDER BY date DESC
	`, babyID, string(typ))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]measurements.Record, 0)
	for rows.Next() {
		var m measurements.Record
		var t string
		if err := rows.Scan(
			&m.ID,
			&m.BabyID,
			&t,
			&m.Value,
			&m.Date,
			&m.RecordedBy,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		m.Type = measurements.Type(t)
		out = append(out, m)
	}
	return out, rows.Err()
}
