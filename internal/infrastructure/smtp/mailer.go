package smtp

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/funfans/funfans-api/internal/config"
)

// Mailer sends HTML emails through a plain SMTP relay. Used as the dev
// fallback when no Resend API key is configured.
type Mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.EmailFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

// Send delivers one email and returns a minimal JSON acknowledgement. SMTP has
// no response body of its own, so the ack only confirms the relay accepted the
// message.
func (m *Mailer) Send(_ context.Context, to, subject, html string) ([]byte, error) {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, html)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return nil, err
	}
	return []byte(`{"status":"sent"}`), nil
}
