package handler

import (
	"context"

	"taskmanager/internal/domain/user"
)

// contextKey is the type for context keys
type contextKey string

const (
	// UserContextKey is the key used to store user in context
	UserContextKey contextKey = "user"
	// RequestIDContextKey is the key used to store the request id in context
	RequestIDContextKey contextKey = "request_id"
)

// GetUserFromContext retrieves the user from request context
func GetUserFromContext(ctx context.Context) *user.User {
	u, ok := ctx.Value(UserContextKey).(*user.User)
	if !ok {
		return nil
	}
	return u
}

// WithUser returns a copy of ctx carrying u
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, UserContextKey, u)
}

// RequestIDFromContext returns the request id set by the logging middleware
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}

// WithRequestID returns a copy of ctx carrying id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, id)
}
