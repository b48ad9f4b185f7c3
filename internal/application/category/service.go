package category

import (
	"context"
	"strings"

	domain "taskmanager/internal/domain/category"
)

// Service defines category operations for a single owner
type Service interface {
	List(ctx context.Context, userID string) ([]domain.Category, error)
	Get(ctx context.Context, userID string, id int64) (*domain.Category, error)
	Create(ctx context.Context, userID string, in domain.Input) (*domain.Category, error)
	Update(ctx context.Context, userID string, id int64, in domain.Input) (*domain.Category, error)
	Delete(ctx context.Context, userID string, id int64) error
}

type service struct {
	repo domain.Repository
}

// NewService creates a new category service
func NewService(repo domain.Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Category, error) {
	return s.repo.List(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID string, id int64) (*domain.Category, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *service) Create(ctx context.Context, userID string, in domain.Input) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	c := &domain.Category{
		UserID:      userID,
		Name:        name,
		Color:       strings.TrimSpace(in.Color),
		Description: in.Description,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, userID string, id int64, in domain.Input) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	c, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.Color = strings.TrimSpace(in.Color)
	c.Description = in.Description
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, userID string, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}
