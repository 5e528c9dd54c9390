package auth

import (
	"context"
	"errors"
	"time"

	"github.com/taskdeck/taskdeck/internal/common"
	"github.com/taskdeck/taskdeck/internal/cryptox"
	"github.com/taskdeck/taskdeck/internal/server/config"
	"github.com/taskdeck/taskdeck/internal/server/models"
	"github.com/taskdeck/taskdeck/internal/server/repositories/users"
)

// Service verifies credentials and issues, renews, and resolves tokens.
type Service struct {
	users     users.Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewService(repo users.Repository, cfg *config.Config) *Service {
	return &Service{
		users:     repo,
		jwtSecret: []byte(cfg.SecretKey),
		tokenTTL:  cfg.AccessTokenValidityDuration,
		now:       time.Now,
	}
}

// Authenticate checks the email/password pair and returns a fresh token on
// success. Unknown email and wrong password produce the same failure, so the
// endpoint does not reveal whether the email exists.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidCredentials
		}
		return "", common.ErrorInternal
	}

	if !cryptox.VerifyPassword(password, user.PasswordHash) {
		return "", common.ErrorInvalidCredentials
	}

	token, err := IssueToken(user.Email, s.now(), s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// Refresh exchanges a still-valid token for a brand-new one with the same
// subject and a freshly computed expiry. An expired or malformed token cannot
// be refreshed; the only way back in is re-authentication.
func (s *Service) Refresh(ctx context.Context, tokenString string) (string, error) {
	now := s.now()

	subject, err := SubjectFromToken(tokenString, now, s.jwtSecret)
	if err != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := IssueToken(subject, now, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// ResolveUser maps an inbound token to the authenticated user: decode, extract
// the subject, look the user up by email. Any failure along the way collapses
// to common.ErrorUnauthorized. One decode and one store lookup per call, no
// caching, so email changes and deletions take effect on the next request.
func (s *Service) ResolveUser(ctx context.Context, tokenString string) (*models.User, error) {
	subject, err := SubjectFromToken(tokenString, s.now(), s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}
