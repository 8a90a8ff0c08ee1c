// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/trackhub/internal/app/features/auditlog"
	authfeature "github.com/dalemusser/trackhub/internal/app/features/auth"
	healthfeature "github.com/dalemusser/trackhub/internal/app/features/health"
	projectsfeature "github.com/dalemusser/trackhub/internal/app/features/projects"
	searchfeature "github.com/dalemusser/trackhub/internal/app/features/search"
	tasksfeature "github.com/dalemusser/trackhub/internal/app/features/tasks"
	usersfeature "github.com/dalemusser/trackhub/internal/app/features/users"
	"github.com/dalemusser/trackhub/internal/app/store/audit"
	"github.com/dalemusser/trackhub/internal/app/system/auditlog"
	sysauth "github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/mailer"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// TrackHub is a JSON API. The global LoadClaims middleware parses the
// bearer token (or cookie) and stashes the claims in the request context;
// each feature router decides which routes require them.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.TrackHubMongoDatabase
	secret := []byte(appCfg.JWTSecret)

	mail := mailer.New(
		appCfg.MailSMTPHost,
		appCfg.MailSMTPPort,
		appCfg.MailSMTPUser,
		appCfg.MailSMTPPass,
		appCfg.MailFrom,
		appCfg.MailFromName,
		logger,
	)

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Global auth middleware: loads JWT claims into context if present.
	r.Use(sysauth.LoadClaims(secret))
	r.Use(limits.JSONBody)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.TrackHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication and account recovery
	authHandler := authfeature.NewHandler(db, mail, logger)
	authHandler.Audit = auditLog
	authHandler.JWTSecret = secret
	authHandler.TokenTTL = appCfg.TokenTTL
	authHandler.BcryptCost = appCfg.BcryptCost
	authHandler.ResetTTL = appCfg.ResetTokenExpiry
	authHandler.BaseURL = appCfg.BaseURL
	authHandler.SiteName = appCfg.SiteName
	r.Mount("/auth", authfeature.Routes(authHandler))

	// Projects
	projectsHandler := projectsfeature.NewHandler(db, logger)
	projectsHandler.Audit = auditLog
	r.Mount("/projects", projectsfeature.Routes(projectsHandler))

	// Tasks, comments, reactions, time logs
	tasksHandler := tasksfeature.NewHandler(db, logger)
	tasksHandler.Audit = auditLog
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler))

	// Assignee pickers
	usersHandler := usersfeature.NewHandler(db, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	// Admin-only audit event viewer
	auditHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler))

	// Cross-entity search
	searchHandler := searchfeature.NewHandler(db, logger)
	r.Mount("/search", searchfeature.Routes(searchHandler))

	return r, nil
}
