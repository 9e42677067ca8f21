// Package service implements authentication: credential checks, access
// token issuing, and refresh token rotation.
package service

import (
	"context"
	"errors"

	"anchor_crm_backend/internal/auth/password"
	"anchor_crm_backend/internal/auth/session"
	"anchor_crm_backend/internal/auth/token"
	"anchor_crm_backend/internal/auth/transport"
	orgdomain "anchor_crm_backend/internal/org/domain"
	orgrepository "anchor_crm_backend/internal/org/repository"
	orgtransport "anchor_crm_backend/internal/org/transport"
	"anchor_crm_backend/platform/apperr"
	"anchor_crm_backend/platform/logger"

	"github.com/google/uuid"
)

const msgBadCredentials = "invalid email or password"

// CredentialReader resolves login credentials from the user directory.
type CredentialReader interface {
	GetCredentials(ctx context.Context, email string) (orgdomain.User, string, error)
	GetByID(ctx context.Context, id uuid.UUID) (orgdomain.User, error)
}

type Service struct {
	users    CredentialReader
	issuer   *token.Issuer
	sessions *session.Store
	log      *logger.Logger
}

func New(users CredentialReader, issuer *token.Issuer, sessions *session.Store, log *logger.Logger) *Service {
	return &Service{users: users, issuer: issuer, sessions: sessions, log: log}
}

// Login checks credentials and issues an access/refresh token pair. Failed
// attempts get one uniform error so the response does not reveal whether
// the email exists.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.TokenResponse, error) {
	user, hash, err := s.users.GetCredentials(ctx, req.Email)
	if err != nil {
		if errors.Is(err, orgrepository.ErrNotFound) {
			s.log.AuthEvent("login", req.Email, false, "unknown email")
			return transport.TokenResponse{}, apperr.Unauthorized(msgBadCredentials)
		}
		return transport.TokenResponse{}, err
	}

	if err := password.Compare(hash, req.Password); err != nil {
		s.log.AuthEvent("login", req.Email, false, "bad password")
		return transport.TokenResponse{}, apperr.Unauthorized(msgBadCredentials)
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return transport.TokenResponse{}, err
	}

	s.log.AuthEvent("login", req.Email, true, "")
	return resp, nil
}

// Refresh rotates a refresh token and issues a new access token. Ex-users
// are cut off here even if their refresh token has not expired yet.
func (s *Service) Refresh(ctx context.Context, req transport.RefreshRequest) (transport.TokenResponse, error) {
	userID, next, err := s.sessions.Rotate(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return transport.TokenResponse{}, apperr.Unauthorized("invalid refresh token")
		}
		return transport.TokenResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return transport.TokenResponse{}, apperr.Unauthorized("invalid refresh token")
	}
	if user.Status != orgdomain.UserActive {
		_ = s.sessions.Delete(ctx, next)
		return transport.TokenResponse{}, apperr.Unauthorized("account is deactivated")
	}

	access, ttl, err := s.issuer.IssueAccess(user.ID, string(user.Role))
	if err != nil {
		return transport.TokenResponse{}, err
	}

	return transport.TokenResponse{
		AccessToken:  access,
		RefreshToken: next,
		ExpiresIn:    int64(ttl.Seconds()),
		User:         orgtransport.ToUserResponse(user),
	}, nil
}

// Logout invalidates a refresh token.
func (s *Service) Logout(ctx context.Context, req transport.LogoutRequest) error {
	return s.sessions.Delete(ctx, req.RefreshToken)
}

func (s *Service) issueTokens(ctx context.Context, user orgdomain.User) (transport.TokenResponse, error) {
	access, ttl, err := s.issuer.IssueAccess(user.ID, string(user.Role))
	if err != nil {
		return transport.TokenResponse{}, err
	}

	refresh, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return transport.TokenResponse{}, err
	}

	return transport.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(ttl.Seconds()),
		User:         orgtransport.ToUserResponse(user),
	}, nil
}
