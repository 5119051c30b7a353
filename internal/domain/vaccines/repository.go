package vaccines

import "context"

type Repository interface {
	Create(ctx context.Context, s Schedule) error
	Update(ctx context.Context, s Schedule) error
	Delete(ctx context.Context, babyID, id string) error
	GetByID(ctx context.Context, babyID, id string) (Schedule, error)
	ListByBaby(ctx context.Context, babyID string) ([]Schedule, error)
}
