// Package token issues the signed access tokens the auth middleware
// validates.
package token

import (
	"time"

	"anchor_crm_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer signs short-lived access tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(cfg config.AuthServiceConfig) *Issuer {
	return &Issuer{
		secret: []byte(cfg.GetJWTAccessSecret()),
		ttl:    cfg.GetAccessTokenTTL(),
	}
}

// IssueAccess returns a signed access token for the user and its TTL.
// Claims carry the subject, role, and a type marker so refresh tokens can
// never be replayed as access tokens.
func (i *Issuer) IssueAccess(userID uuid.UUID, role string) (string, time.Duration, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", 0, err
	}
	return signed, i.ttl, nil
}
