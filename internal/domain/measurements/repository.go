package measurements

import "context"

type Repository interface {
	Create(ctx context.Context, m Record) error
	// ListByBaby filtra por tipo si typ != "".
	ListByBaby(ctx context.Context, babyID string, typ Type) ([]Record, error)
}
