package credentials

import (
	"errors"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned by the token source when nobody is logged in.
var ErrNoToken = errors.New("credentials: no token stored")

type storeTokenSource struct {
	store Store
}

// TokenSource reads the stored token on every call. Nothing is cached, so a
// logout followed by a request never sees the old token.
func TokenSource(store Store) oauth2.TokenSource {
	return storeTokenSource{store: store}
}

func (s storeTokenSource) Token() (*oauth2.Token, error) {
	raw, ok := s.store.Get(KeyToken)
	if !ok || raw == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}, nil
}
