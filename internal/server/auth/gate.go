package auth

import (
	"strings"

	"github.com/dmitrijs2005/taskplaces/internal/common"
)

// TokenVerifier is the part of TokenService the gate depends on.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Gate turns a raw Authorization header into a verified subject id.
// It proves where a claim came from, not that the subject still exists:
// no user lookup happens here.
type Gate struct {
	tokens TokenVerifier
}

func NewGate(tokens TokenVerifier) *Gate {
	return &Gate{tokens: tokens}
}

// Authenticate parses "Bearer <token>" and verifies the token. Every failure
// is reported as an Unauthenticated error.
func (g *Gate) Authenticate(header string) (string, error) {
	token, ok := bearerToken(header)
	if !ok {
		return "", common.Unauthenticated("Unauthorized")
	}

	subject, err := g.tokens.Verify(token)
	if err != nil {
		return "", common.Unauthenticated("Unauthorized")
	}
	return subject, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
