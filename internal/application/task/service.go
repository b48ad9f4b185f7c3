package task

import (
	"context"
	"errors"
	"strings"

	"taskmanager/internal/domain/category"
	"taskmanager/internal/domain/tag"
	domain "taskmanager/internal/domain/task"
)

// Service defines task operations for a single owner
type Service interface {
	List(ctx context.Context, userID string) ([]domain.Task, error)
	Get(ctx context.Context, userID string, id int64) (*domain.Task, error)
	Create(ctx context.Context, userID string, in domain.Input) (*domain.Task, error)
	Update(ctx context.Context, userID string, id int64, in domain.Input) (*domain.Task, error)
	Toggle(ctx context.Context, userID string, id int64) (*domain.Task, error)
	Delete(ctx context.Context, userID string, id int64) error
	Search(ctx context.Context, userID, keyword string) ([]domain.Task, error)
	Incomplete(ctx context.Context, userID string) ([]domain.Task, error)
}

type service struct {
	tasks      domain.Repository
	categories category.Repository
	tags       tag.Repository
}

// NewService creates a new task service
func NewService(tasks domain.Repository, categories category.Repository, tags tag.Repository) Service {
	return &service{
		tasks:      tasks,
		categories: categories,
		tags:       tags,
	}
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.tasks.List(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, userID, id)
}

func (s *service) Create(ctx context.Context, userID string, in domain.Input) (*domain.Task, error) {
	t := &domain.Task{UserID: userID}
	if err := s.apply(ctx, t, in); err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, userID, t.ID)
}

func (s *service) Update(ctx context.Context, userID string, id int64, in domain.Input) (*domain.Task, error) {
	t := &domain.Task{ID: id, UserID: userID}
	if err := s.apply(ctx, t, in); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, userID, id)
}

func (s *service) Toggle(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, userID, id)
}

func (s *service) Delete(ctx context.Context, userID string, id int64) error {
	return s.tasks.Delete(ctx, userID, id)
}

func (s *service) Search(ctx context.Context, userID, keyword string) ([]domain.Task, error) {
	return s.tasks.SearchByTitle(ctx, userID, strings.TrimSpace(keyword))
}

func (s *service) Incomplete(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.tasks.ListIncomplete(ctx, userID)
}

// apply validates the input and copies it onto t. Category and tag ids the
// owner does not have are dropped rather than rejected.
func (s *service) apply(ctx context.Context, t *domain.Task, in domain.Input) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.ErrTitleRequired
	}
	t.Title = title
	t.Description = in.Description
	t.Completed = in.Completed
	t.CategoryID = nil
	t.TagIDs = []int64{}

	if in.CategoryID != nil {
		c, err := s.categories.GetByID(ctx, t.UserID, *in.CategoryID)
		switch {
		case err == nil:
			id := c.ID
			t.CategoryID = &id
		case !errors.Is(err, category.ErrCategoryNotFound):
			return err
		}
	}

	seen := make(map[int64]bool, len(in.TagIDs))
	for _, tagID := range in.TagIDs {
		if seen[tagID] {
			continue
		}
		seen[tagID] = true
		if _, err := s.tags.GetByID(ctx, t.UserID, tagID); err != nil {
			if errors.Is(err, tag.ErrTagNotFound) {
				continue
			}
			return err
		}
		t.TagIDs = append(t.TagIDs, tagID)
	}
	return nil
}
