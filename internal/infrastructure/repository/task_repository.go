package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"taskmanager/internal/domain/task"
	"taskmanager/internal/infrastructure/database"
)

const taskSelect = `SELECT t.id, t.user_id, t.title, t.description, t.completed, t.category_id,
	COALESCE(c.name, ''), t.created_at, t.updated_at
	FROM tasks t LEFT JOIN categories c ON c.id = t.category_id`

type taskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) task.Repository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, t *task.Task) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	return r.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (user_id, title, description, completed, category_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.UserID, t.Title, t.Description, t.Completed, nullableID(t.CategoryID), t.CreatedAt, t.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if t.ID, err = result.LastInsertId(); err != nil {
			return err
		}
		return replaceTags(ctx, tx, t.ID, t.TagIDs)
	})
}

func (r *taskRepository) GetByID(ctx context.Context, userID string, id int64) (*task.Task, error) {
	rows, err := r.db.QueryContext(ctx, taskSelect+` WHERE t.id = ? AND t.user_id = ?`, id, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := r.collect(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, task.ErrTaskNotFound
	}
	return &tasks[0], nil
}

func (r *taskRepository) Update(ctx context.Context, t *task.Task) error {
	t.UpdatedAt = time.Now().UTC()

	return r.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE tasks SET title = ?, description = ?, completed = ?, category_id = ?, updated_at = ?
			 WHERE id = ? AND user_id = ?`,
			t.Title, t.Description, t.Completed, nullableID(t.CategoryID), t.UpdatedAt, t.ID, t.UserID,
		)
		if err != nil {
			return err
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return task.ErrTaskNotFound
		}
		return replaceTags(ctx, tx, t.ID, t.TagIDs)
	})
}

func (r *taskRepository) Delete(ctx context.Context, userID string, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) List(ctx context.Context, userID string) ([]task.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		taskSelect+` WHERE t.user_id = ? ORDER BY t.created_at DESC, t.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *taskRepository) ListIncomplete(ctx context.Context, userID string) ([]task.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		taskSelect+` WHERE t.user_id = ? AND t.completed = 0 ORDER BY t.created_at DESC, t.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *taskRepository) SearchByTitle(ctx context.Context, userID, keyword string) ([]task.Task, error) {
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	rows, err := r.db.QueryContext(ctx,
		taskSelect+` WHERE t.user_id = ? AND unicode_lower(t.title) LIKE ? ESCAPE '\' ORDER BY t.created_at DESC, t.id DESC`,
		userID, pattern)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

// collect scans task rows, closes them and attaches tag memberships.
func (r *taskRepository) collect(ctx context.Context, rows *sql.Rows) ([]task.Task, error) {
	tasks := []task.Task{}
	for rows.Next() {
		var t task.Task
		var categoryID sql.NullInt64
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &categoryID,
			&t.CategoryName, &t.CreatedAt, &t.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		if categoryID.Valid {
			id := categoryID.Int64
			t.CategoryID = &id
		}
		t.TagIDs = []int64{}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(tasks) == 0 {
		return tasks, nil
	}
	if err := r.attachTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) attachTags(ctx context.Context, tasks []task.Task) error {
	index := make(map[int64]int, len(tasks))
	args := make([]any, 0, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
		args = append(args, t.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")

	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, tag_id FROM task_tags WHERE task_id IN (`+placeholders+`) ORDER BY tag_id`, args...)
	if err != nil {
		return fmt.Errorf("load task tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, tagID int64
		if err := rows.Scan(&taskID, &tagID); err != nil {
			return err
		}
		if i, ok := index[taskID]; ok {
			tasks[i].TagIDs = append(tasks[i].TagIDs, tagID)
		}
	}
	return rows.Err()
}

func (r *taskRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func replaceTags(ctx context.Context, tx *sql.Tx, taskID int64, tagIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?`, taskID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)`, taskID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
