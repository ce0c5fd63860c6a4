package mail

import (
	"gopkg.in/gomail.v2"
)

// SMTPClient implements the mail.Client interface on top of gomail. Each
// Send dials a fresh SMTP session; the notifier's volume is far too low for
// connection reuse to matter.
type SMTPClient struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPClient(host string, port int, username, password, from string) *SMTPClient {
	return &SMTPClient{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers a single HTML email.
func (c *SMTPClient) Send(toEmail, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return c.dialer.DialAndSend(m)
}
