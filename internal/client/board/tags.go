package board

import (
	"context"

	"github.com/charmbracelet/log"

	"taskmanager/internal/client/api"
	"taskmanager/internal/infrastructure/logging"
)

type TagAPI interface {
	List(ctx context.Context) ([]api.Tag, error)
	Create(ctx context.Context, in api.TagInput) (*api.Tag, error)
	Update(ctx context.Context, id int64, in api.TagInput) (*api.Tag, error)
	Delete(ctx context.Context, id int64) error
}

type Tags struct {
	svc    TagAPI
	logger *log.Logger
	items  *collection[api.Tag]
}

func NewTags(svc TagAPI, logger *log.Logger) *Tags {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Tags{
		svc:    svc,
		logger: logger,
		items:  newCollection(func(t api.Tag) int64 { return t.ID }),
	}
}

func (b *Tags) Items() []api.Tag { return b.items.snapshot() }

func (b *Tags) Load(ctx context.Context) error {
	tags, err := b.svc.List(ctx)
	if err != nil {
		return err
	}
	b.apply("load", b.items.replace(tags))
	return nil
}

func (b *Tags) Create(ctx context.Context, in api.TagInput) (*api.Tag, error) {
	t, err := b.svc.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	b.apply("create", b.items.prepend(*t))
	return t, nil
}

func (b *Tags) Update(ctx context.Context, id int64, in api.TagInput) (*api.Tag, error) {
	t, err := b.svc.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	b.apply("update", b.items.patch(*t))
	return t, nil
}

func (b *Tags) Delete(ctx context.Context, id int64) error {
	if err := b.svc.Delete(ctx, id); err != nil {
		return err
	}
	b.apply("delete", b.items.remove(id))
	return nil
}

func (b *Tags) Close() { b.items.close() }

func (b *Tags) apply(op string, applied bool) {
	if !applied {
		b.logger.Debug("dropping response for closed board", "board", "tags", "op", op)
	}
}
