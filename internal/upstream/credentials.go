package upstream

import (
	"context"
	"errors"
	"strings"
)

var ErrNoToken = errors.New("no bearer token available")

// CredentialProvider supplies the bearer token attached to upstream requests.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a service token taken from configuration. The zero value has no token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	token := strings.TrimSpace(string(t))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

type tokenKey struct{}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// RequestToken reads the caller's token placed in the context by the bearer
// middleware and falls back to another provider when the request carried none.
type RequestToken struct {
	Fallback CredentialProvider
}

func (p RequestToken) Token(ctx context.Context) (string, error) {
	if token, ok := TokenFromContext(ctx); ok {
		return token, nil
	}
	if p.Fallback != nil {
		return p.Fallback.Token(ctx)
	}
	return "", ErrNoToken
}
