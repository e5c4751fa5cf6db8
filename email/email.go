package email

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"devfolio/models"
)

type EmailService struct {
	host     string
	port     string
	user     string
	password string
	from     string
	to       string
}

func NewEmailService() *EmailService {
	return &EmailService{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		user:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
		to:       os.Getenv("CONTACT_EMAIL"),
	}
}

// Configured reports whether notifications can be sent at all.
func (e *EmailService) Configured() bool {
	return e.host != "" && e.to != ""
}

// SendContactNotification relays a stored visitor message to the site owner.
func (e *EmailService) SendContactNotification(msg *models.ContactMessage) error {
	if !e.Configured() {
		return nil
	}

	auth := smtp.PlainAuth("", e.user, e.password, e.host)
	addr := fmt.Sprintf("%s:%s", e.host, e.port)

	if err := smtp.SendMail(addr, auth, e.from, []string{e.to}, []byte(e.buildMessage(msg))); err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}

	return nil
}

func (e *EmailService) buildMessage(msg *models.ContactMessage) string {
	// visitor-supplied values go through sanitizeHeader: the contact
	// endpoint is unauthenticated, so a name or subject carrying CRLF
	// would otherwise inject extra SMTP headers
	name := sanitizeHeader(msg.Name)
	subject := "New contact message from " + name
	if msg.Subject != "" {
		subject = sanitizeHeader(msg.Subject) + " - from " + name
	}

	body := fmt.Sprintf(`You received a new message through your portfolio contact form.

From: %s <%s>
Sent: %s

%s
`, msg.Name, msg.Email, msg.CreatedAt.Format("2006-01-02 15:04:05 MST"), msg.Message)

	return fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Reply-To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", e.from, e.to, sanitizeHeader(msg.Email), subject, body)
}

// sanitizeHeader collapses any CR/LF runs to a single space so the value
// stays a single header line.
func sanitizeHeader(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == '\r' || r == '\n'
	}), " ")
}
