package babies

import "context"

type Repository interface {
	Create(ctx context.Context, b Baby) error
	Update(ctx context.Context, b Baby) error
	GetByID(ctx context.Context, id string) (Baby, error)
	ListByParent(ctx context.Context, parentUserID string) ([]Baby, error)
	// ListAll lo usa el barrido de recordatorios.
	ListAll(ctx context.Context) ([]Baby, error)
}
