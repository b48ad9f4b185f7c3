package task

import "context"

// Repository defines the contract for task storage operations.
// Every method is scoped to the owning user.
type Repository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, userID string, id int64) (*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, userID string, id int64) error
	List(ctx context.Context, userID string) ([]Task, error)
	ListIncomplete(ctx context.Context, userID string) ([]Task, error)
	SearchByTitle(ctx context.Context, userID, keyword string) ([]Task, error)
}
