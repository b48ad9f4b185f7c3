package api

import (
	"context"
	"net/http"
)

type TagService struct {
	client *Client
}

func (s *TagService) List(ctx context.Context) ([]Tag, error) {
	var out []Tag
	err := s.client.do(ctx, resourceTags, "list tags", http.MethodGet, "/tags", nil, nil, &out)
	return out, err
}

func (s *TagService) Get(ctx context.Context, id int64) (*Tag, error) {
	var t Tag
	if err := s.client.do(ctx, resourceTags, "get tag", http.MethodGet, idPath("/tags", id), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TagService) Create(ctx context.Context, in TagInput) (*Tag, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	var t Tag
	if err := s.client.do(ctx, resourceTags, "create tag", http.MethodPost, "/tags", nil, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TagService) Update(ctx context.Context, id int64, in TagInput) (*Tag, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	var t Tag
	if err := s.client.do(ctx, resourceTags, "update tag", http.MethodPut, idPath("/tags", id), nil, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TagService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, resourceTags, "delete tag", http.MethodDelete, idPath("/tags", id), nil, nil, nil)
}
