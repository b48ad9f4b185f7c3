package tag

import "context"

// Repository defines the contract for tag storage operations
type Repository interface {
	Create(ctx context.Context, tag *Tag) error
	GetByID(ctx context.Context, userID string, id int64) (*Tag, error)
	Update(ctx context.Context, tag *Tag) error
	Delete(ctx context.Context, userID string, id int64) error
	List(ctx context.Context, userID string) ([]Tag, error)
}
