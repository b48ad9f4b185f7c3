package task

import "time"

// Task is a unit of work owned by a single user
type Task struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"-"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Completed    bool      `json:"completed"`
	CategoryID   *int64    `json:"categoryId,omitempty"`
	CategoryName string    `json:"categoryName,omitempty"`
	TagIDs       []int64   `json:"tagIds"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Input carries the writable fields of a task for create and update.
// Update replaces every field: a nil CategoryID clears the category and an
// empty TagIDs clears all tags.
type Input struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	CategoryID  *int64  `json:"categoryId,omitempty"`
	TagIDs      []int64 `json:"tagIds,omitempty"`
}
