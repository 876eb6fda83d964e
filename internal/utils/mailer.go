package utils

import (
	"fmt"
	"net/smtp"
	"strings"
)

// MailSender dispatches transactional mail. Enabled reports whether
// delivery is configured; callers fall back to other channels when not.
type MailSender interface {
	Send(to, subject, body string) error
	Enabled() bool
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer builds an SMTP-backed sender. An empty host yields a
// disabled mailer.
func NewSMTPMailer(host string, port int, username, password, from string) MailSender {
	return &smtpMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *smtpMailer) Enabled() bool {
	return m.host != ""
}

func (m *smtpMailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		return fmt.Errorf("mail delivery is not configured")
	}

	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
