// Package session tracks who is logged in on the client. A Session starts
// Initializing, settles on Authenticated or Anonymous in Init, and moves
// between those two through Login, Register and Logout.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"taskmanager/internal/client/api"
	"taskmanager/internal/client/credentials"
	"taskmanager/internal/infrastructure/logging"
)

// ErrIncompleteResult is returned when the authenticator reports success
// without a token or a profile. Nothing is persisted in that case.
var ErrIncompleteResult = errors.New("session: auth result missing token or profile")

type Phase int

const (
	Initializing Phase = iota
	Authenticated
	Anonymous
)

func (p Phase) String() string {
	switch p {
	case Initializing:
		return "initializing"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// State is a snapshot handed to callers and observers.
// IsAuthenticated is true exactly when User is set.
type State struct {
	User            *api.UserProfile
	IsAuthenticated bool
	Loading         bool
	Phase           Phase
}

// Authenticator is the subset of api.AuthService a session drives.
type Authenticator interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResult, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResult, error)
	Logout()
}

type Session struct {
	store  credentials.Store
	auth   Authenticator
	logger *log.Logger

	mu        sync.Mutex
	phase     Phase
	user      *api.UserProfile
	loading   bool
	observers map[int]func(State)
	nextID    int
}

func New(store credentials.Store, auth Authenticator, logger *log.Logger) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{
		store:     store,
		auth:      auth,
		logger:    logger,
		phase:     Initializing,
		loading:   true,
		observers: map[int]func(State){},
	}
}

// Init restores the session from storage without touching the network. A
// stored token is trusted until the server rejects it. Calling Init again
// re-reads storage and lands in the same state for the same contents.
func (s *Session) Init() State {
	profile := s.restore()

	s.mu.Lock()
	if profile != nil {
		s.phase, s.user = Authenticated, profile
	} else {
		s.phase, s.user = Anonymous, nil
	}
	s.loading = false
	s.mu.Unlock()

	return s.transitioned("init")
}

func (s *Session) restore() *api.UserProfile {
	token, ok := s.store.Get(credentials.KeyToken)
	if !ok || token == "" {
		return nil
	}
	raw, ok := s.store.Get(credentials.KeyUser)
	if !ok {
		return nil
	}
	var p api.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil || (p.Username == "" && p.Email == "") {
		s.logger.Warn("ignoring unreadable cached profile", "err", err)
		return nil
	}
	return &p
}

// Login authenticates, persists the token and profile, and enters
// Authenticated. On error nothing changes and the error is returned as is.
func (s *Session) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResult, error) {
	res, err := s.auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.authenticate(res); err != nil {
		return nil, err
	}
	s.transitioned("login")
	return res, nil
}

// Register behaves like Login using the register endpoint.
func (s *Session) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResult, error) {
	res, err := s.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.authenticate(res); err != nil {
		return nil, err
	}
	s.transitioned("register")
	return res, nil
}

func (s *Session) authenticate(res *api.AuthResult) error {
	if res == nil || res.Token == "" || (res.Username == "" && res.Email == "") {
		return ErrIncompleteResult
	}
	profile := res.Profile()
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.store.Set(credentials.KeyToken, res.Token)
	s.store.Set(credentials.KeyUser, string(raw))
	s.phase, s.user, s.loading = Authenticated, &profile, false
	s.mu.Unlock()
	return nil
}

// Logout clears both stored keys and enters Anonymous.
func (s *Session) Logout() {
	s.mu.Lock()
	s.auth.Logout()
	s.store.Remove(credentials.KeyToken)
	s.store.Remove(credentials.KeyUser)
	s.phase, s.user, s.loading = Anonymous, nil, false
	s.mu.Unlock()

	s.transitioned("logout")
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Ready reports whether Init has run. Authenticated calls must wait for it.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.loading
}

// Subscribe registers fn to receive the state after every transition.
func (s *Session) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Session) snapshot() State {
	st := State{Phase: s.phase, Loading: s.loading}
	if s.user != nil {
		u := *s.user
		st.User = &u
		st.IsAuthenticated = true
	}
	return st
}

// transitioned logs and fans the current state out to observers outside
// the lock so they may call back into the session.
func (s *Session) transitioned(event string) State {
	s.mu.Lock()
	st := s.snapshot()
	observers := make([]func(State), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	s.logger.Debug("session", "event", event, "phase", st.Phase)
	for _, fn := range observers {
		fn(st)
	}
	return st
}
