// Package auth implements the authentication layer: password hashing,
// signed access tokens, bearer header checks and the per-request identity.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskplaces/internal/common"
	"github.com/dmitrijs2005/taskplaces/internal/server/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered JWT claims plus the subject identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// TokenService issues and verifies HS256 access tokens. It holds no state
// besides the read-only key, so one instance serves all requests.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenService builds a TokenService from the signing secret and token
// lifetime in cfg.
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.SecretKey),
		validity: cfg.TokenValidityDuration,
		now:      time.Now,
	}
}

// Issue signs a token for userID valid for the configured lifetime.
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// subject it was issued for. It does not check that the subject still exists.
func (s *TokenService) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", common.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
