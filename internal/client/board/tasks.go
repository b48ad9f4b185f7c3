package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"taskmanager/internal/client/api"
	"taskmanager/internal/infrastructure/logging"
)

// Status selects tasks by completion.
type Status string

const (
	StatusAll        Status = "all"
	StatusCompleted  Status = "completed"
	StatusIncomplete Status = "incomplete"
)

// ParseStatus accepts all, completed or incomplete. Empty means all.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StatusAll, nil
	case StatusAll, StatusCompleted, StatusIncomplete:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// TaskAPI is the part of api.TaskService a board needs.
type TaskAPI interface {
	List(ctx context.Context) ([]api.Task, error)
	Create(ctx context.Context, in api.TaskInput) (*api.Task, error)
	Update(ctx context.Context, id int64, in api.TaskInput) (*api.Task, error)
	Toggle(ctx context.Context, id int64) (*api.Task, error)
	Delete(ctx context.Context, id int64) error
}

type Tasks struct {
	svc    TaskAPI
	logger *log.Logger
	items  *collection[api.Task]
}

func NewTasks(svc TaskAPI, logger *log.Logger) *Tasks {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Tasks{
		svc:    svc,
		logger: logger,
		items:  newCollection(func(t api.Task) int64 { return t.ID }),
	}
}

func (b *Tasks) Items() []api.Task { return b.items.snapshot() }

// Load replaces the list with the server's.
func (b *Tasks) Load(ctx context.Context) error {
	tasks, err := b.svc.List(ctx)
	if err != nil {
		return err
	}
	b.apply("load", b.items.replace(tasks))
	return nil
}

// Create adds the confirmed task at the head of the list.
func (b *Tasks) Create(ctx context.Context, in api.TaskInput) (*api.Task, error) {
	t, err := b.svc.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	b.apply("create", b.items.prepend(*t))
	return t, nil
}

func (b *Tasks) Update(ctx context.Context, id int64, in api.TaskInput) (*api.Task, error) {
	t, err := b.svc.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	b.apply("update", b.items.patch(*t))
	return t, nil
}

func (b *Tasks) Toggle(ctx context.Context, id int64) (*api.Task, error) {
	t, err := b.svc.Toggle(ctx, id)
	if err != nil {
		return nil, err
	}
	b.apply("toggle", b.items.patch(*t))
	return t, nil
}

func (b *Tasks) Delete(ctx context.Context, id int64) error {
	if err := b.svc.Delete(ctx, id); err != nil {
		return err
	}
	b.apply("delete", b.items.remove(id))
	return nil
}

// Filter returns the tasks matching status in list order.
func (b *Tasks) Filter(status Status) []api.Task {
	return b.items.filter(func(t api.Task) bool {
		switch status {
		case StatusCompleted:
			return t.Completed
		case StatusIncomplete:
			return !t.Completed
		default:
			return true
		}
	})
}

// Search matches titles case-insensitively without a request.
func (b *Tasks) Search(keyword string) []api.Task {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	return b.items.filter(func(t api.Task) bool {
		return strings.Contains(strings.ToLower(t.Title), needle)
	})
}

// Close detaches the board. Responses that land afterwards are dropped.
func (b *Tasks) Close() { b.items.close() }

func (b *Tasks) apply(op string, applied bool) {
	if !applied {
		b.logger.Debug("dropping response for closed board", "board", "tasks", "op", op)
	}
}
