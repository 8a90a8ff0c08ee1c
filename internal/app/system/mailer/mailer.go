// internal/app/system/mailer/mailer.go
package mailer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Email is a single outbound message.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer sends email over SMTP. Password reset delivery is fire-and-forget:
// callers log failures but never surface them to the requester, since the
// reset token is persisted before the email is attempted.
type Mailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
	log      *zap.Logger
}

// New constructs a Mailer. An empty host disables sending; Send becomes a
// logged no-op, which keeps local development working without an SMTP server.
func New(host string, port int, user, pass, from, fromName string, logger *zap.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		user:     user,
		pass:     pass,
		from:     from,
		fromName: fromName,
		log:      logger,
	}
}

// Send delivers the email. Returns an error on dial or send failure so the
// caller can decide whether the failure matters.
func (m *Mailer) Send(email Email) error {
	if m.host == "" {
		m.log.Warn("mail not configured, skipping send",
			zap.String("to", email.To),
			zap.String("subject", email.Subject))
		return nil
	}
	if strings.TrimSpace(email.To) == "" {
		return fmt.Errorf("empty recipient")
	}

	msg := gomail.NewMessage()
	if m.fromName != "" {
		msg.SetAddressHeader("From", m.from, m.fromName)
	} else {
		msg.SetHeader("From", m.from)
	}
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.TextBody)
	if email.HTMLBody != "" {
		msg.AddAlternative("text/html", email.HTMLBody)
	}

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info("email sent",
		zap.String("to", email.To),
		zap.String("subject", email.Subject))
	return nil
}
