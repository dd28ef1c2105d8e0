package client

import "context"

// TokenProvider supplies the Authorization token for outgoing requests. An
// empty token with a nil error means "no token": the header is omitted.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenProvider.
type TokenFunc func(ctx context.Context) (string, error)

// Token calls f(ctx).
func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken returns a provider that always yields token.
func StaticToken(token string) TokenProvider {
	return TokenFunc(func(context.Context) (string, error) { return token, nil })
}
