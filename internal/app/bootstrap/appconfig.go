// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where you put everything specific to YOUR application.
// Add fields here as the application grows. The struct is passed to most
// lifecycle hooks, so any configuration needed during startup, request
// handling, or shutdown should live here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Token configuration
	JWTSecret  string        // Secret for signing JWTs (must be strong in production)
	TokenTTL   time.Duration // Lifetime of issued session tokens
	BcryptCost int           // bcrypt work factor for password hashing

	// Password reset configuration
	ResetTokenExpiry time.Duration // Lifetime of password reset tokens

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@trackhub.dev)
	MailFromName string // From display name (e.g., TrackHub)

	// Base URL for email links (password reset, etc.)
	BaseURL string // e.g., "https://trackhub.dev" or "http://localhost:3000"

	// Site name used in outgoing email
	SiteName string

	// Audit logging settings ("all", "db", "log", or "off")
	AuditLogAuth  string
	AuditLogAdmin string

	// Admin bootstrap
	AdminEmail    string // Email of the bootstrap admin user (promotes/creates on startup)
	AdminPassword string // Initial password when the bootstrap admin is created
}
