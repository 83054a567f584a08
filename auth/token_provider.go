// ABOUTME: Token Provider contract and its context-backed implementation
// ABOUTME: Reads the bearer token of the current request's principal on every call
package auth

import "context"

// TokenProvider yields the bearer token for the caller identified by ctx.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// ContextTokenProvider reads the token from the principal stored in ctx.
// It never mutates the principal and is safe for concurrent use.
type ContextTokenProvider struct{}

// AccessToken returns ErrAuthentication when ctx has no principal or the
// principal has no access token.
func (ContextTokenProvider) AccessToken(ctx context.Context) (string, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.Token == nil || p.Token.AccessToken == "" {
		return "", ErrAuthentication
	}
	return p.Token.AccessToken, nil
}

// TokenProviderFunc adapts a function to TokenProvider.
type TokenProviderFunc func(ctx context.Context) (string, error)

func (f TokenProviderFunc) AccessToken(ctx context.Context) (string, error) {
	return f(ctx)
}
