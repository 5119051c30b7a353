// Package postgrest guarda las tablas principales (bebés, vacunas agendadas y
// mediciones) en el backend hospedado a través del cliente de tablas de Supabase.
// Usa las mismas tablas que postgres/schema.sql.
package postgrest

import (
	"context"

	"baby-health-tracker/internal/adapters/supabase"
)

// Tables es el subconjunto del cliente Supabase que usan los repos.
type Tables interface {
	Select(ctx context.Context, table string, q supabase.Query, out any) error
	Insert(ctx context.Context, table string, row any, out any) error
	Update(ctx context.Context, table string, filters []supabase.Filter, patch any) (int, error)
	Delete(ctx context.Context, table string, filters []supabase.Filter) (int, error)
}

const (
	tableBabies       = "babies"
	tableSchedules    = "vaccine_schedules"
	tableMeasurements = "measurements"
)

const dateLayout = "2006-01-02"
