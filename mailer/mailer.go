package mailer

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/smtp"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/rs/zerolog/log"
)

// TokenGenerator yields opaque registration and reset tokens.
type TokenGenerator struct{}

func (TokenGenerator) GenerateToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

type SMTPMailer struct {
	config SMTPConfig
}

func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: config}
}

func (m *SMTPMailer) SendPasswordReset(to, token string) error {
	subject := "Password reset"
	body := fmt.Sprintf("Follow this link to reset your password:\r\n\r\n%s/password-reset/%s\r\n\r\nThe link expires in one hour.", m.config.BaseURL, token)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.config.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)

	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)
	return retrier.Run(func() error {
		return smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg))
	})
}

// NopMailer logs instead of sending. Used when no SMTP host is
// configured.
type NopMailer struct{}

func (NopMailer) SendPasswordReset(to, token string) error {
	log.Info().Str("to", to).Msg("mailer disabled, dropping password reset mail")
	return nil
}
