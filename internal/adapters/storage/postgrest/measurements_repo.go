package postgrest

import (
	"context"
	"time"

	"baby-health-tracker/internal/adapters/supabase"
	"baby-health-tracker/internal/domain/measurements"
)

type measurementRow struct {
	ID         string    `json:"id"`
	BabyID     string    `json:"baby_id"`
	Type       string    `json:"type"`
	Value      float64   `json:"value"`
	Date       time.Time `json:"date"`
	RecordedBy string    `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type MeasurementsRepo struct {
	t Tables
}

func NewMeasurementsRepo(t Tables) *MeasurementsRepo {
	return &MeasurementsRepo{t: t}
}

func (r *MeasurementsRepo) Create(ctx context.Context, m measurements.Record) error {
	return r.t.Insert(ctx, tableMeasurements, measurementRow{
		ID:         m.ID,
		BabyID:     m.BabyID,
		Type:       string(m.Type),
		Value:      m.Value,
		Date:       m.Date,
		RecordedBy: m.RecordedBy,
		CreatedAt:  m.CreatedAt,
	}, nil)
}

func (r *MeasurementsRepo) ListByBaby(ctx context.Context, babyID string, typ measurements.Type) ([]measurements.Record, error) {
	q := supabase.Query{
		Filters: []supabase.Filter{supabase.Eq("baby_id", babyID)},
		Order:   "date",
		Desc:    true,
	}
	if typ != "" {
		q.Filters = append(q.Filters, supabase.Eq("type", string(typ)))
	}

	var rows []measurementRow
	if err := r.t.Select(ctx, tableMeasurements, q, &rows); err != nil {
		return nil, err
	}
	out := make([]measurements.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, measurements.Record{
			ID:         row.ID,
			BabyID:     row.BabyID,
			Type:       measurements.Type(row.Type),
			Value:      row.Value,
			Date:       row.Date,
			RecordedBy: row.RecordedBy,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}
