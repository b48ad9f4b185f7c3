package user

import "time"

// User represents an account that owns tasks, categories and tags
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // Never expose password in JSON
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is the public part of a user returned to clients
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ToProfile converts a User to its public profile
func (u *User) ToProfile() Profile {
	return Profile{
		Username: u.Username,
		Email:    u.Email,
	}
}
