// ABOUTME: Request-scoped authenticated principal carried in context.Context
// ABOUTME: Replaces global session lookup with explicit context propagation
package auth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"

	"github.com/harperreed/gcontacts/models"
)

// ErrAuthentication means the caller has no valid OAuth2 session.
var ErrAuthentication = errors.New("authentication required")

// Principal is the authenticated user of one request.
type Principal struct {
	Subject    string
	Token      *oauth2.Token
	Attributes models.UserInfo
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored in ctx, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
