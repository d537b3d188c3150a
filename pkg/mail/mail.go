package mail

import (
	gomail "gopkg.in/gomail.v2"
)

type Config struct {
	Host     string `envconfig:"SMTP_HOST" default:"localhost"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM" default:"noreply@library.local"`
}

// Sender sends a single plain-text message to a set of recipients.
// Fire-and-forget: no delivery guarantee beyond the SMTP handshake.
type Sender interface {
	Send(subject, body string, to []string) error
}

type smtpSender struct {
	from   string
	dialer *gomail.Dialer
}

func NewSender(cfg Config) Sender {
	return &smtpSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *smtpSender) Send(subject, body string, to []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.dialer.DialAndSend(m)
}
