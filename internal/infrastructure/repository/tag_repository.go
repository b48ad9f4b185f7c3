package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"taskmanager/internal/domain/tag"
	"taskmanager/internal/infrastructure/database"
)

type tagRepository struct {
	db *database.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *database.DB) tag.Repository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, t *tag.Tag) error {
	t.CreatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (user_id, name, created_at) VALUES (?, ?, ?)`,
		t.UserID, t.Name, t.CreatedAt,
	)
	if err != nil {
		return err
	}
	t.ID, err = result.LastInsertId()
	return err
}

func (r *tagRepository) GetByID(ctx context.Context, userID string, id int64) (*tag.Tag, error) {
	t := &tag.Tag{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at FROM tags WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, tag.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tagRepository) Update(ctx context.Context, t *tag.Tag) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tags SET name = ? WHERE id = ? AND user_id = ?`,
		t.Name, t.ID, t.UserID,
	)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return tag.ErrTagNotFound
	}
	return nil
}

// Delete removes a tag and, through the foreign key, its task memberships.
func (r *tagRepository) Delete(ctx context.Context, userID string, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return tag.ErrTagNotFound
	}
	return nil
}

func (r *tagRepository) List(ctx context.Context, userID string) ([]tag.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at FROM tags WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []tag.Tag{}
	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
