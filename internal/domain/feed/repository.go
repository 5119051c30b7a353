package feed

import "context"

type Repository interface {
	Create(ctx context.Context, p Post) error
	GetByID(ctx context.Context, id string) (Post, error)
	Delete(ctx context.Context, id string) error
	// ListRecent devuelve los más nuevos primero.
	ListRecent(ctx context.Context, limit int) ([]Post, error)
}
