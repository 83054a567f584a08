package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// FileTokenProvider serves the token saved by the CLI login. The file is
// re-read on every call and refreshed in place when expired, so long-running
// processes (MCP, TUI) survive access token expiry. An expired token that
// cannot be refreshed fails with ErrAuthentication.
type FileTokenProvider struct {
	OAuth *oauth2.Config
	Path  string
}

func (p FileTokenProvider) AccessToken(ctx context.Context) (string, error) {
	principal, err := PrincipalFromTokenFile(ctx, p.OAuth, p.Path)
	if err != nil {
		return "", err
	}
	if !principal.Token.Valid() {
		return "", fmt.Errorf("%w: saved token expired, run 'gcontacts login' again", ErrAuthentication)
	}
	return principal.Token.AccessToken, nil
}
