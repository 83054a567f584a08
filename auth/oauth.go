// ABOUTME: OAuth configuration and token file management for Google APIs
// ABOUTME: Builds the authorization-code config and persists CLI tokens with auto-refresh
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/people/v1"

	"github.com/harperreed/gcontacts/config"
)

// Scopes requested at login. openid/email/profile populate /user-info.
var Scopes = []string{
	"openid",
	"email",
	"profile",
	people.ContactsScope,
}

// NewOAuthConfig creates the OAuth2 config for Google from application config.
func NewOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.RedirectURL(),
		Scopes:       Scopes,
		Endpoint:     google.Endpoint,
	}
}

// SaveToken writes token to path with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("token cannot be nil")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}

// LoadToken reads a token saved by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	return &token, nil
}

// DeleteToken removes the saved token. A missing file is not an error.
func DeleteToken(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// FreshToken returns a valid token, refreshing through oauthCfg when the
// access token has expired. The second result reports whether it changed.
func FreshToken(ctx context.Context, oauthCfg *oauth2.Config, token *oauth2.Token) (*oauth2.Token, bool, error) {
	if token == nil {
		return nil, false, ErrAuthentication
	}
	if token.Valid() || token.RefreshToken == "" {
		return token, false, nil
	}

	fresh, err := oauthCfg.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, false, fmt.Errorf("failed to refresh token: %w", err)
	}
	return fresh, fresh.AccessToken != token.AccessToken, nil
}

// PrincipalFromTokenFile loads the CLI token, refreshes and re-saves it when
// needed, and wraps it in a Principal.
func PrincipalFromTokenFile(ctx context.Context, oauthCfg *oauth2.Config, path string) (*Principal, error) {
	token, err := LoadToken(path)
	if err != nil {
		return nil, fmt.Errorf("%w: no saved token, run 'gcontacts login' first: %v", ErrAuthentication, err)
	}

	fresh, changed, err := FreshToken(ctx, oauthCfg, token)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := SaveToken(path, fresh); err != nil {
			return nil, err
		}
	}

	attrs, _ := ClaimsFromToken(fresh)
	return &Principal{
		Subject:    attrs.Subject(),
		Token:      fresh,
		Attributes: attrs,
	}, nil
}
