// Package auth implements stateless signed-token issuance and verification.
// Tokens are HS256 JWTs carrying a snapshot of the user identity; nothing is
// stored server-side, so validity is recomputed from the signed payload on
// every verification.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avilov/authgate/internal/common"
)

// Claims is the payload carried inside a token: the user identity copied
// from the record at issuance time plus the registered expiry.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Service issues and verifies tokens with a process-wide HMAC secret. The
// secret is read once at startup; there is no rotation or multi-key support.
// Issue and Verify are pure and safe for unrestricted concurrent use.
type Service struct {
	secret   []byte
	validity time.Duration
}

// NewService constructs a token Service signing with secret and issuing
// tokens valid for the given duration.
func NewService(secret string, validity time.Duration) *Service {
	return &Service{
		secret:   []byte(secret),
		validity: validity,
	}
}

// Issue returns a signed token for the given user snapshot, expiring
// validity from now.
func (s *Service) Issue(userID, username, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns its claims.
// Malformed input, a signature mismatch, and an expired token all come back
// as common.ErrInvalidToken: callers never learn which check failed, so the
// error cannot be used as an oracle.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
