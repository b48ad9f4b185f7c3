package category

import "time"

// Category groups tasks by area (work, home, study, etc.)
type Category struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"-"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Input carries the writable fields of a category
type Input struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}
