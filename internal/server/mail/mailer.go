// Package mail delivers password-reset messages. It is handed the raw
// reset token for out-of-band delivery; token hashes never leave the
// persistence layer.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/aquavo/authcore/internal/server/config"
	"github.com/jordan-wright/email"
)

// Mailer is the delivery collaborator the user service depends on.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to string, rawToken string) error
}

// SMTPMailer sends reset emails over plain SMTP.
type SMTPMailer struct {
	addr         string
	user         string
	password     string
	from         string
	resetBaseURL string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		addr:         cfg.SMTPAddr,
		user:         cfg.SMTPUser,
		password:     cfg.SMTPPassword,
		from:         cfg.MailFrom,
		resetBaseURL: cfg.ResetBaseURL,
	}
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to string, rawToken string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = "Password reset"
	e.Text = []byte(fmt.Sprintf(
		"A password reset was requested for this address.\n\n"+
			"Open the link below within one hour to choose a new password:\n\n"+
			"%s?token=%s\n\n"+
			"If you did not request a reset, you can ignore this message.",
		m.resetBaseURL, rawToken))

	var auth smtp.Auth
	if m.user != "" {
		host := m.addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.user, m.password, host)
	}

	return e.Send(m.addr, auth)
}
