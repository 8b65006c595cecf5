package mailer

import (
	"gopkg.in/gomail.v2"
)

// Mailer defines the interface for sending email notifications.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// client is an SMTP implementation of Mailer.
type client struct {
	dialer *gomail.Dialer
	from   string
}

// NewClient creates a new SMTP mailer.
func NewClient(host string, port int, username, password, from string) Mailer {
	return &client{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers one HTML email.
func (c *client) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return c.dialer.DialAndSend(m)
}
