// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to warm caches or perform any app-wide setup that depends on config
// and backends.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, appCfg.AdminPassword, appCfg.BcryptCost, logger); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}
	return nil
}

// ensureAdmin guarantees an admin account exists for the configured
// email. An existing user is promoted to admin; a missing one is created
// with the configured initial password.
func ensureAdmin(ctx context.Context, deps DBDeps, email, password string, bcryptCost int, logger *zap.Logger) error {
	users := userstore.New(deps.TrackHubMongoDatabase)

	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role == models.RoleAdmin {
			return nil
		}
		if err := users.SetRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return err
		}
		logger.Info("promoted existing user to admin", zap.String("email", existing.Email))
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	if password == "" {
		return errors.New("admin_password is required when creating the bootstrap admin")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	created, err := users.Create(ctx, models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return err
	}
	logger.Info("created bootstrap admin", zap.String("email", created.Email))
	return nil
}
