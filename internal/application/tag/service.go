package tag

import (
	"context"
	"strings"

	domain "taskmanager/internal/domain/tag"
)

// Service defines tag operations for a single owner
type Service interface {
	List(ctx context.Context, userID string) ([]domain.Tag, error)
	Get(ctx context.Context, userID string, id int64) (*domain.Tag, error)
	Create(ctx context.Context, userID string, in domain.Input) (*domain.Tag, error)
	Update(ctx context.Context, userID string, id int64, in domain.Input) (*domain.Tag, error)
	Delete(ctx context.Context, userID string, id int64) error
}

type service struct {
	repo domain.Repository
}

// NewService creates a new tag service
func NewService(repo domain.Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Tag, error) {
	return s.repo.List(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID string, id int64) (*domain.Tag, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *service) Create(ctx context.Context, userID string, in domain.Input) (*domain.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	t := &domain.Tag{UserID: userID, Name: name}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Update(ctx context.Context, userID string, id int64, in domain.Input) (*domain.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	t.Name = name
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Delete(ctx context.Context, userID string, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}
