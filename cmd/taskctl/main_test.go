package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	authService "taskmanager/internal/application/auth"
	categoryService "taskmanager/internal/application/category"
	tagService "taskmanager/internal/application/tag"
	taskService "taskmanager/internal/application/task"
	"taskmanager/internal/delivery/http/handler"
	"taskmanager/internal/delivery/http/router"
	"taskmanager/internal/infrastructure/database"
	"taskmanager/internal/infrastructure/logging"
	"taskmanager/internal/infrastructure/repository"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := loadConfig("", false)
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if cfg.BaseURL != defaultBaseURL {
			t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, defaultBaseURL)
		}
		if !cfg.Auth.Tasks || !cfg.Auth.Categories || !cfg.Auth.Tags {
			t.Fatalf("Auth = %+v, want all true", cfg.Auth)
		}
		if filepath.Base(cfg.CredentialsFile) != "credentials.json" {
			t.Fatalf("CredentialsFile = %q", cfg.CredentialsFile)
		}
	})

	t.Run("explicit missing file", func(t *testing.T) {
		if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"), true); err == nil {
			t.Fatal("expected error for missing explicit config")
		}
	})

	t.Run("file overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "taskctl.toml")
		content := `
base_url = "http://api.example.com/api"
log_level = "debug"

[auth]
categories = false
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg, err := loadConfig(path, true)
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if cfg.BaseURL != "http://api.example.com/api" || cfg.LogLevel != "debug" {
			t.Fatalf("cfg = %+v", cfg)
		}
		if !cfg.Auth.Tasks || cfg.Auth.Categories || !cfg.Auth.Tags {
			t.Fatalf("Auth = %+v, want only categories disabled", cfg.Auth)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		os.WriteFile(path, []byte("base_url = "), 0o600)
		if _, err := loadConfig(path, true); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func startServer(t *testing.T) string {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := logging.Discard()
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	authSvc := authService.NewService(repository.NewUserRepository(db), "test-secret", time.Hour)
	h := router.Setup(router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc, logger),
		Task:     handler.NewTaskHandler(taskService.NewService(repository.NewTaskRepository(db), categoryRepo, tagRepo), logger),
		Category: handler.NewCategoryHandler(categoryService.NewService(categoryRepo), logger),
		Tag:      handler.NewTagHandler(tagService.NewService(tagRepo), logger),
	}, authSvc, router.Options{Logger: logger})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

type cli struct {
	t      *testing.T
	config string
}

func newCLI(t *testing.T, baseURL string) *cli {
	dir := t.TempDir()
	config := filepath.Join(dir, "taskctl.toml")
	content := fmt.Sprintf("base_url = %q\ncredentials_file = %q\nlog_level = \"error\"\n", baseURL, filepath.Join(dir, "credentials.json"))
	if err := os.WriteFile(config, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return &cli{t: t, config: config}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"-config", c.config}, args...), strings.NewReader(""), &stdout, &stderr)
	return stdout.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("taskctl %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestCommandsAgainstServer(t *testing.T) {
	c := newCLI(t, startServer(t))

	if _, err := c.run("tasks"); !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("tasks while anonymous err = %v, want errNotLoggedIn", err)
	}

	out := c.mustRun("register", "-username", "alice", "-email", "alice@example.com", "-password", "secret1")
	if !strings.Contains(out, "alice <alice@example.com>") {
		t.Fatalf("register output = %q", out)
	}
	if out := c.mustRun("whoami"); strings.TrimSpace(out) != "alice <alice@example.com>" {
		t.Fatalf("whoami = %q", out)
	}

	c.mustRun("add-category", "-name", "Home", "-color", "#0f0")
	c.mustRun("add-tag", "-name", "errand")
	if out := c.mustRun("categories"); !strings.Contains(out, "Home") {
		t.Fatalf("categories = %q", out)
	}

	if _, err := c.run("add", "-title", ""); err == nil {
		t.Fatal("add with empty title should fail")
	}
	if out := c.mustRun("add", "-title", "Buy milk", "-category", "1", "-tags", "1"); !strings.Contains(out, "Created task 1") {
		t.Fatalf("add = %q", out)
	}
	c.mustRun("add", "Walk", "the", "dog")

	out = c.mustRun("tasks")
	if !strings.Contains(out, "Buy milk  @Home  #1") || !strings.Contains(out, "Walk the dog") {
		t.Fatalf("tasks = %q", out)
	}
	if strings.Index(out, "Walk the dog") > strings.Index(out, "Buy milk") {
		t.Fatalf("tasks not newest first: %q", out)
	}

	if out := c.mustRun("toggle", "1"); !strings.Contains(out, "[x] Buy milk") {
		t.Fatalf("toggle = %q", out)
	}
	if out := c.mustRun("tasks", "-status", "completed"); strings.Contains(out, "Walk") || !strings.Contains(out, "Buy milk") {
		t.Fatalf("completed tasks = %q", out)
	}
	if out := c.mustRun("incomplete"); strings.Contains(out, "Buy milk") {
		t.Fatalf("incomplete = %q", out)
	}
	if out := c.mustRun("search", "MILK"); !strings.Contains(out, "Buy milk") {
		t.Fatalf("search = %q", out)
	}

	if out := c.mustRun("edit", "1", "-title", "Buy oat milk", "-no-category", "-tags", ""); !strings.Contains(out, "Buy oat milk") || strings.Contains(out, "@Home") || strings.Contains(out, "#") {
		t.Fatalf("edit = %q", out)
	}

	c.mustRun("rm", "1")
	if _, err := c.run("rm", "1"); err == nil {
		t.Fatal("second rm should fail")
	}

	c.mustRun("logout")
	if out := c.mustRun("whoami"); strings.TrimSpace(out) != "Not logged in" {
		t.Fatalf("whoami after logout = %q", out)
	}
	if _, err := c.run("tags"); !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("tags after logout err = %v, want errNotLoggedIn", err)
	}

	if out := c.mustRun("login", "-email", "alice@example.com", "-password", "secret1"); !strings.Contains(out, "Logged in as alice") {
		t.Fatalf("login = %q", out)
	}
	if out := c.mustRun("tasks", "-match", "dog"); !strings.Contains(out, "Walk the dog") {
		t.Fatalf("tasks -match = %q", out)
	}
}

func TestEditCategoryAndTag(t *testing.T) {
	c := newCLI(t, startServer(t))
	c.mustRun("register", "-username", "carol", "-email", "carol@example.com", "-password", "secret1")
	c.mustRun("add-category", "-name", "Home", "-color", "#0f0", "-description", "chores")
	c.mustRun("add-tag", "-name", "errand")

	out := c.mustRun("edit-category", "1", "-name", "House")
	if !strings.Contains(out, "House") || !strings.Contains(out, "#0f0") || !strings.Contains(out, "chores") {
		t.Fatalf("edit-category = %q, want name replaced and color/description kept", out)
	}
	if out := c.mustRun("categories"); strings.Contains(out, "Home") || !strings.Contains(out, "House") {
		t.Fatalf("categories = %q", out)
	}
	if out := c.mustRun("edit-category", "1", "-description", ""); strings.Contains(out, "chores") {
		t.Fatalf("edit-category -description \"\" = %q, want description cleared", out)
	}
	if _, err := c.run("edit-category", "1", "-name", " "); err == nil {
		t.Fatal("edit-category with blank name should fail")
	}

	if out := c.mustRun("edit-tag", "1", "-name", "later"); !strings.Contains(out, "later") {
		t.Fatalf("edit-tag = %q", out)
	}
	if out := c.mustRun("tags"); strings.Contains(out, "errand") || !strings.Contains(out, "later") {
		t.Fatalf("tags = %q", out)
	}
	if _, err := c.run("edit-tag", "99", "-name", "x"); err == nil {
		t.Fatal("edit-tag of unknown id should fail")
	}
	if _, err := c.run("edit-tag"); err == nil {
		t.Fatal("edit-tag without id should fail")
	}
}

func TestStaleTokenIsReported(t *testing.T) {
	c := newCLI(t, startServer(t))
	c.mustRun("register", "-username", "bob", "-email", "bob@example.com", "-password", "secret1")

	// A fresh server does not know the stored token's user.
	other := newCLI(t, startServer(t))
	creds, err := os.ReadFile(filepath.Join(filepath.Dir(c.config), "credentials.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(filepath.Dir(other.config), "credentials.json"), creds, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = other.run("tasks")
	if err == nil || !strings.Contains(err.Error(), "taskctl login") {
		t.Fatalf("err = %v, want login hint", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	err := run(context.Background(), []string{"frobnicate"}, strings.NewReader(""), &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr.String(), "Usage: taskctl") {
		t.Fatalf("usage not printed: %q", stderr.String())
	}
}
