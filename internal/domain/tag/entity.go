package tag

import "time"

// Tag is a flat, user-scoped label that can be attached to many tasks
type Tag struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Input carries the writable fields of a tag
type Input struct {
	Name string `json:"name"`
}
