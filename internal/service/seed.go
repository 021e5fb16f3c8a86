package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/rag-chat-service/internal/config"
	"github.com/spec-kit/rag-chat-service/internal/domain"
	"github.com/spec-kit/rag-chat-service/internal/repository"
)

// SeedSuperadmin creates the configured superadmin account when it does not
// exist yet. It is idempotent and a no-op when seeding is not configured.
func SeedSuperadmin(ctx context.Context, users repository.UserRepository, authService *AuthService, cfg config.SeedConfig, logger *zap.Logger) error {
	if cfg.SuperadminEmail == "" || cfg.SuperadminPassword == "" {
		return nil
	}

	existing, err := users.GetByEmail(ctx, cfg.SuperadminEmail)
	if err == nil {
		if existing.Role == domain.RoleSuperadmin {
			logger.Info("superadmin already exists", zap.String("email", cfg.SuperadminEmail))
			return nil
		}
		logger.Warn("seed email taken by non-superadmin account", zap.String("email", cfg.SuperadminEmail))
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	user, err := authService.CreateUserWithPassword(ctx, cfg.SuperadminEmail, cfg.SuperadminPassword, cfg.SuperadminName, domain.RoleSuperadmin, nil)
	if err != nil {
		return err
	}
	logger.Info("created superadmin", zap.String("email", user.Email))
	return nil
}
