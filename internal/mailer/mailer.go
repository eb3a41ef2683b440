package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends outbound mail. Delivery is fire-and-forget: callers never
// observe a confirmation, only a dispatch error.
type Mailer interface {
	SendVerificationEmail(to, verifyURL string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
}

// NewSMTPMailer creates a mailer for the given relay. Empty credentials
// disable authentication, which local relays accept.
func NewSMTPMailer(addr, username, password, from string) *SMTPMailer {
	host := addr
	if i := strings.IndexByte(addr, ':'); i >= 0 {
		host = addr[:i]
	}
	return &SMTPMailer{
		addr:     addr,
		host:     host,
		username: username,
		password: password,
		from:     from,
	}
}

// SendVerificationEmail sends the verification link to the recipient
func (m *SMTPMailer) SendVerificationEmail(to, verifyURL string) error {
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", m.from),
		fmt.Sprintf("To: %s", to),
		"Subject: Verify your email",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		fmt.Sprintf("Please verify your email: %s", verifyURL),
		"",
	}, "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}
