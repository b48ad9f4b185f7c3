package category

import "context"

// Repository defines the contract for category storage operations
type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, userID string, id int64) (*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, userID string, id int64) error
	List(ctx context.Context, userID string) ([]Category, error)
}
