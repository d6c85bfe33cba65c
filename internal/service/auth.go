package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/masjid-annur/dashboard-server-go/internal/config"
	apperrors "github.com/masjid-annur/dashboard-server-go/internal/errors"
	"github.com/masjid-annur/dashboard-server-go/internal/model"
	"github.com/masjid-annur/dashboard-server-go/internal/repository"
	"github.com/masjid-annur/dashboard-server-go/internal/util"
)

// AuthService turns a successful Authenticate into a server-side session:
// the browser holds a random token, the store holds its HMAC.
type AuthService struct {
	admins        *AdminService
	sessionRepo   repository.AdminSessionRepository
	sessionSecret string
}

func NewAuthService(admins *AdminService, sessionRepo repository.AdminSessionRepository, sessionSecret string) *AuthService {
	return &AuthService{
		admins:        admins,
		sessionRepo:   sessionRepo,
		sessionSecret: sessionSecret,
	}
}

// Login authenticates and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.Identity, error) {
	identity, err := s.admins.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := util.GenerateToken()
	if err != nil {
		return "", nil, apperrors.Internal("Failed to issue session token").WithCause(err)
	}

	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	expiresAt := time.Now().Add(config.SessionTTL)

	if _, err := s.sessionRepo.Create(ctx, model.CreateAdminSessionParams{
		AdminEmail: identity.Email,
		TokenHash:  tokenHash,
		ExpiresAt:  expiresAt,
	}); err != nil {
		return "", nil, apperrors.Storage(err)
	}

	return token, identity, nil
}

// Logout revokes the session behind the given token. Unknown tokens are a
// no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	if err := s.sessionRepo.DeleteByTokenHash(ctx, tokenHash); err != nil {
		log.Error().Err(err).Msg("failed to revoke session")
		return apperrors.Storage(err)
	}
	return nil
}

// Session resolves a token to its live session, or nil if absent or expired.
func (s *AuthService) Session(ctx context.Context, token string) (*model.AdminSession, error) {
	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	return s.sessionRepo.FindByTokenHash(ctx, tokenHash)
}
