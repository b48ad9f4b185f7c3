package task

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"taskmanager/internal/domain/category"
	"taskmanager/internal/domain/tag"
	domain "taskmanager/internal/domain/task"
	"taskmanager/internal/domain/user"
	"taskmanager/internal/infrastructure/database"
	"taskmanager/internal/infrastructure/repository"
)

type fixture struct {
	svc        Service
	categories category.Repository
	tags       tag.Repository
	alice      string
	bob        string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepository(db)
	ids := make([]string, 0, 2)
	for _, name := range []string{"alice", "bob"} {
		u := &user.User{Username: name, Email: name + "@example.com", Password: "x"}
		if err := users.Create(context.Background(), u); err != nil {
			t.Fatalf("create user: %v", err)
		}
		ids = append(ids, u.ID)
	}

	categories := repository.NewCategoryRepository(db)
	tags := repository.NewTagRepository(db)
	return &fixture{
		svc:        NewService(repository.NewTaskRepository(db), categories, tags),
		categories: categories,
		tags:       tags,
		alice:      ids[0],
		bob:        ids[1],
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Create(context.Background(), f.alice, domain.Input{Title: "   "}); !errors.Is(err, domain.ErrTitleRequired) {
		t.Fatalf("Create() error = %v, want ErrTitleRequired", err)
	}
}

func TestCreateDropsForeignReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	bobCategory := &category.Category{UserID: f.bob, Name: "Bob's"}
	if err := f.categories.Create(ctx, bobCategory); err != nil {
		t.Fatalf("create category: %v", err)
	}
	bobTag := &tag.Tag{UserID: f.bob, Name: "bob"}
	aliceTag := &tag.Tag{UserID: f.alice, Name: "alice"}
	for _, tg := range []*tag.Tag{bobTag, aliceTag} {
		if err := f.tags.Create(ctx, tg); err != nil {
			t.Fatalf("create tag: %v", err)
		}
	}

	created, err := f.svc.Create(ctx, f.alice, domain.Input{
		Title:      "Buy milk",
		CategoryID: &bobCategory.ID,
		TagIDs:     []int64{bobTag.ID, aliceTag.ID, aliceTag.ID, 9999},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.CategoryID != nil {
		t.Fatalf("CategoryID = %d, want nil for foreign category", *created.CategoryID)
	}
	if !reflect.DeepEqual(created.TagIDs, []int64{aliceTag.ID}) {
		t.Fatalf("TagIDs = %v, want [%d]", created.TagIDs, aliceTag.ID)
	}
}

func TestUpdateReplacesFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	home := &category.Category{UserID: f.alice, Name: "Home"}
	if err := f.categories.Create(ctx, home); err != nil {
		t.Fatalf("create category: %v", err)
	}
	created, err := f.svc.Create(ctx, f.alice, domain.Input{Title: "Clean", CategoryID: &home.ID})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := f.svc.Update(ctx, f.alice, created.ID, domain.Input{Title: "Clean kitchen", Completed: true})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "Clean kitchen" || !updated.Completed || updated.CategoryID != nil {
		t.Fatalf("Update() = %+v, want replaced fields and cleared category", updated)
	}

	if _, err := f.svc.Update(ctx, f.bob, created.ID, domain.Input{Title: "Hijack"}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("Update() as bob error = %v, want ErrTaskNotFound", err)
	}
}

func TestToggleFlipsCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, f.alice, domain.Input{Title: "Walk dog"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	toggled, err := f.svc.Toggle(ctx, f.alice, created.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !toggled.Completed {
		t.Fatal("Toggle() should complete the task")
	}

	incomplete, err := f.svc.Incomplete(ctx, f.alice)
	if err != nil {
		t.Fatalf("Incomplete() error = %v", err)
	}
	if len(incomplete) != 0 {
		t.Fatalf("Incomplete() = %d tasks, want 0", len(incomplete))
	}

	toggled, err = f.svc.Toggle(ctx, f.alice, created.ID)
	if err != nil {
		t.Fatalf("second Toggle() error = %v", err)
	}
	if toggled.Completed {
		t.Fatal("second Toggle() should reopen the task")
	}

	if _, err := f.svc.Toggle(ctx, f.alice, 424242); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("Toggle() missing error = %v, want ErrTaskNotFound", err)
	}
}
