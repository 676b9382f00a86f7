package services

import (
	"context"

	"github.com/cardclub/gacha-backend/internal/config"
	"github.com/cardclub/gacha-backend/internal/models"
	"github.com/cardclub/gacha-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl issues admin session tokens. Member sessions are issued by
// the club website itself and only verified here; the admin account exists
// to gate the quota-bypass draw path.
type AuthServiceImpl struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{cfg: cfg}
}

// Login verifies the admin credentials and issues a JWT with the admin role
func (s *AuthServiceImpl) Login(_ context.Context, email, password string) (*models.LoginResponse, error) {
	if s.cfg.Admin.Email == "" || email != s.cfg.Admin.Email {
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.PasswordHash), []byte(password)); err != nil {
		slog.Warn("Admin login failed", "email", email)
		return nil, models.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(email, models.RoleAdmin, s.cfg)
	if err != nil {
		slog.Error("Failed to sign admin session token", "error", err)
		return nil, err
	}
	slog.Info("Admin login succeeded", "email", email)
	return &models.LoginResponse{Token: token, ExpiresIn: s.cfg.JWT.ExpiresIn}, nil
}
