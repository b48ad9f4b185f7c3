package api

import (
	"context"
	"net/http"
	"net/url"
)

type TaskService struct {
	client *Client
}

func (s *TaskService) List(ctx context.Context) ([]Task, error) {
	var tasks []Task
	err := s.client.do(ctx, resourceTasks, "list tasks", http.MethodGet, "/tasks", nil, nil, &tasks)
	return tasks, err
}

func (s *TaskService) Get(ctx context.Context, id int64) (*Task, error) {
	var t Task
	if err := s.client.do(ctx, resourceTasks, "get task", http.MethodGet, idPath("/tasks", id), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskService) Create(ctx context.Context, in TaskInput) (*Task, error) {
	if err := required("title", in.Title); err != nil {
		return nil, err
	}
	var t Task
	if err := s.client.do(ctx, resourceTasks, "create task", http.MethodPost, "/tasks", nil, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskService) Update(ctx context.Context, id int64, in TaskInput) (*Task, error) {
	if err := required("title", in.Title); err != nil {
		return nil, err
	}
	var t Task
	if err := s.client.do(ctx, resourceTasks, "update task", http.MethodPut, idPath("/tasks", id), nil, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, resourceTasks, "delete task", http.MethodDelete, idPath("/tasks", id), nil, nil, nil)
}

// Toggle flips the completed flag on the server and returns the new task.
func (s *TaskService) Toggle(ctx context.Context, id int64) (*Task, error) {
	var t Task
	if err := s.client.do(ctx, resourceTasks, "toggle task", http.MethodPut, idPath("/tasks", id, "/toggle"), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskService) Search(ctx context.Context, keyword string) ([]Task, error) {
	var tasks []Task
	q := url.Values{"keyword": {keyword}}
	err := s.client.do(ctx, resourceTasks, "search tasks", http.MethodGet, "/tasks/search", q, nil, &tasks)
	return tasks, err
}

func (s *TaskService) Incomplete(ctx context.Context) ([]Task, error) {
	var tasks []Task
	err := s.client.do(ctx, resourceTasks, "list incomplete tasks", http.MethodGet, "/tasks/incomplete", nil, nil, &tasks)
	return tasks, err
}
