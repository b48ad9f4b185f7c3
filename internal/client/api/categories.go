package api

import (
	"context"
	"net/http"
)

type CategoryService struct {
	client *Client
}

func (s *CategoryService) List(ctx context.Context) ([]Category, error) {
	var out []Category
	err := s.client.do(ctx, resourceCategories, "list categories", http.MethodGet, "/categories", nil, nil, &out)
	return out, err
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*Category, error) {
	var c Category
	if err := s.client.do(ctx, resourceCategories, "get category", http.MethodGet, idPath("/categories", id), nil, nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*Category, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	var c Category
	if err := s.client.do(ctx, resourceCategories, "create category", http.MethodPost, "/categories", nil, in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, in CategoryInput) (*Category, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	var c Category
	if err := s.client.do(ctx, resourceCategories, "update category", http.MethodPut, idPath("/categories", id), nil, in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, resourceCategories, "delete category", http.MethodDelete, idPath("/categories", id), nil, nil, nil)
}
