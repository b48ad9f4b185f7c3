package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domain "taskmanager/internal/domain/auth"
	"taskmanager/internal/domain/user"
)

const issuer = "taskmanager"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Service defines the authentication service interface
type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Response, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Response, error)
	ValidateToken(ctx context.Context, token string) (*user.User, error)
}

type service struct {
	userRepo    user.Repository
	secret      []byte
	tokenExpiry time.Duration
	now         func() time.Time
}

// Option customizes the auth service
type Option func(*service)

// WithClock overrides the time source used to issue and verify tokens
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// NewService creates a new auth service
func NewService(userRepo user.Repository, secret string, tokenExpiry time.Duration, opts ...Option) Service {
	s := &service{
		userRepo:    userRepo,
		secret:      []byte(secret),
		tokenExpiry: tokenExpiry,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Response, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if !emailPattern.MatchString(req.Email) {
		return nil, user.ErrInvalidEmail
	}
	if len(req.Username) < 3 {
		return nil, user.ErrInvalidUsername
	}
	if len(req.Password) < 6 {
		return nil, user.ErrInvalidPassword
	}

	// Check if user already exists
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, user.ErrUserAlreadyExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, user.ErrUserAlreadyExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newUser := &user.User{
		Email:    req.Email,
		Username: req.Username,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	return s.respond(newUser, domain.MessageRegistered)
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.Response, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, user.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.respond(u, domain.MessageLogin)
}

func (s *service) ValidateToken(ctx context.Context, token string) (*user.User, error) {
	claims := &domain.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, user.ErrUnauthorized
	}

	u, err := s.userRepo.GetByID(ctx, claims.Subject)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, user.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) respond(u *user.User, message string) (*domain.Response, error) {
	token, err := s.issueToken(u)
	if err != nil {
		return nil, err
	}
	return &domain.Response{
		Token:    token,
		Username: u.Username,
		Email:    u.Email,
		Message:  message,
	}, nil
}

func (s *service) issueToken(u *user.User) (string, error) {
	now := s.now()
	claims := domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
		Username: u.Username,
		Email:    u.Email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
