package board

import (
	"context"

	"github.com/charmbracelet/log"

	"taskmanager/internal/client/api"
	"taskmanager/internal/infrastructure/logging"
)

type CategoryAPI interface {
	List(ctx context.Context) ([]api.Category, error)
	Create(ctx context.Context, in api.CategoryInput) (*api.Category, error)
	Update(ctx context.Context, id int64, in api.CategoryInput) (*api.Category, error)
	Delete(ctx context.Context, id int64) error
}

type Categories struct {
	svc    CategoryAPI
	logger *log.Logger
	items  *collection[api.Category]
}

func NewCategories(svc CategoryAPI, logger *log.Logger) *Categories {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Categories{
		svc:    svc,
		logger: logger,
		items:  newCollection(func(c api.Category) int64 { return c.ID }),
	}
}

func (b *Categories) Items() []api.Category { return b.items.snapshot() }

func (b *Categories) Load(ctx context.Context) error {
	categories, err := b.svc.List(ctx)
	if err != nil {
		return err
	}
	b.apply("load", b.items.replace(categories))
	return nil
}

func (b *Categories) Create(ctx context.Context, in api.CategoryInput) (*api.Category, error) {
	c, err := b.svc.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	b.apply("create", b.items.prepend(*c))
	return c, nil
}

func (b *Categories) Update(ctx context.Context, id int64, in api.CategoryInput) (*api.Category, error) {
	c, err := b.svc.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	b.apply("update", b.items.patch(*c))
	return c, nil
}

func (b *Categories) Delete(ctx context.Context, id int64) error {
	if err := b.svc.Delete(ctx, id); err != nil {
		return err
	}
	b.apply("delete", b.items.remove(id))
	return nil
}

func (b *Categories) Close() { b.items.close() }

func (b *Categories) apply(op string, applied bool) {
	if !applied {
		b.logger.Debug("dropping response for closed board", "board", "categories", "op", op)
	}
}
