package api

import (
	"context"
	"errors"
	"net/http"

	"taskmanager/internal/client/credentials"
)

var (
	errMissingToken   = errors.New("decode response: missing token")
	errMissingProfile = errors.New("decode response: missing user profile")
)

// AuthService wraps login, register and the stored token. Login and
// Register never write storage; persisting the result is the caller's job.
type AuthService struct {
	client *Client
	store  credentials.Store
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := required("email", req.Email); err != nil {
		return nil, err
	}
	if err := required("password", req.Password); err != nil {
		return nil, err
	}

	return s.authenticate(ctx, "login", "/auth/login", req)
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := required("username", req.Username); err != nil {
		return nil, err
	}
	if err := required("email", req.Email); err != nil {
		return nil, err
	}
	if err := required("password", req.Password); err != nil {
		return nil, err
	}

	return s.authenticate(ctx, "register", "/auth/register", req)
}

// authenticate posts body to path and rejects a success response that
// lacks the token or the profile.
func (s *AuthService) authenticate(ctx context.Context, op, path string, body any) (*AuthResult, error) {
	var res AuthResult
	if err := s.client.do(ctx, resourceAuth, op, http.MethodPost, path, nil, body, &res); err != nil {
		return nil, err
	}

	var missing error
	switch {
	case res.Token == "":
		missing = errMissingToken
	case res.Username == "" && res.Email == "":
		missing = errMissingProfile
	}
	if missing != nil {
		return nil, &RequestError{Op: op, Method: http.MethodPost, Path: path, StatusCode: http.StatusOK, Message: missing.Error(), Err: missing}
	}
	return &res, nil
}

// Token returns the stored bearer token.
func (s *AuthService) Token() (string, bool) {
	tok, ok := s.store.Get(credentials.KeyToken)
	if tok == "" {
		return "", false
	}
	return tok, ok
}

// Logout forgets the token locally. The server keeps no session to revoke.
func (s *AuthService) Logout() {
	s.store.Remove(credentials.KeyToken)
}
