package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/grinventions/slateboy/config"
	"github.com/grinventions/slateboy/internal/core/ports"
	"github.com/grinventions/slateboy/pkg/apperror"

	"github.com/rs/zerolog"
)

// OpsAuthService authenticates the single operator account of the ops API.
type OpsAuthService struct {
	cfg    config.OpsConfig
	hash   ports.HashService
	tokens ports.TokenService
	log    zerolog.Logger
}

// NewOpsAuthService creates an OpsAuthService.
func NewOpsAuthService(cfg config.OpsConfig, hash ports.HashService, tokens ports.TokenService, log zerolog.Logger) *OpsAuthService {
	return &OpsAuthService{cfg: cfg, hash: hash, tokens: tokens, log: log}
}

// Login verifies the operator credentials and issues a JWT.
func (s *OpsAuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) != 1 {
		// Keep both failure paths at the same cost.
		_, _ = s.hash.Verify(password, s.cfg.PasswordHash)
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	ok, err := s.hash.Verify(password, s.cfg.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Msg("operator password hash is malformed")
		return "", time.Time{}, apperror.InternalError(err)
	}
	if !ok {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiresAt, err := s.tokens.Generate(username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(err)
	}
	return token, expiresAt, nil
}
