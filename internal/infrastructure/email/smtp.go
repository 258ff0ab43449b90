package email

import (
	"strconv"

	"gopkg.in/gomail.v2"
)

// Sender delivers a message to a recipient. Delivery is fire-and-forget from
// the caller's point of view; the returned error only reports the dispatch
// outcome.
type Sender interface {
	Send(to, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type smtpSender struct {
	config SMTPConfig
}

func NewSMTPSender(config SMTPConfig) Sender {
	return &smtpSender{config: config}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	port, _ := strconv.Atoi(s.config.Port)
	d := gomail.NewDialer(s.config.Host, port, s.config.Username, s.config.Password)

	return d.DialAndSend(m)
}
