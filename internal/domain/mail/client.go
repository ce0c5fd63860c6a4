package mail

// Client defines an interface for sending email. This decouples the
// application logic from the concrete SMTP library.
type Client interface {
	Send(toEmail, subject, htmlBody string) error
}
