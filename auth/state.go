// ABOUTME: Signed, expiring OAuth state parameters
// ABOUTME: Binds the authorization redirect to a browser nonce cookie using HMAC JWTs
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

const stateIssuer = "gcontacts"

// ErrInvalidState means the callback's state did not verify.
var ErrInvalidState = errors.New("invalid oauth state")

type stateClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// StateSigner issues and verifies OAuth state values.
type StateSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewStateSigner returns a signer using secret as the HMAC key. An empty
// secret gets a random per-process key, which invalidates in-flight logins
// on restart.
func NewStateSigner(secret string, ttl time.Duration) (*StateSigner, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate state key: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateSigner{key: key, ttl: ttl, now: time.Now}, nil
}

// NewNonce returns a fresh random nonce for the browser cookie.
func NewNonce() string {
	return ulid.Make().String()
}

// Issue returns a signed state carrying nonce.
func (s *StateSigner) Issue(nonce string) (string, error) {
	now := s.now()
	claims := stateClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    stateIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and issuer of state and that it
// carries nonce.
func (s *StateSigner) Verify(state, nonce string) error {
	if state == "" || nonce == "" {
		return ErrInvalidState
	}

	var claims stateClaims
	_, err := jwt.ParseWithClaims(state, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if claims.Nonce != nonce {
		return fmt.Errorf("%w: nonce mismatch", ErrInvalidState)
	}
	return nil
}
