package contact

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Notifier is told about each stored message.
type Notifier interface {
	Notify(m Message) error
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier emails each new message to the site owner.
type SMTPNotifier struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	// Send defaults to smtp.SendMail.
	Send SendFunc
}

// Notify sends one email describing m.
func (n *SMTPNotifier) Notify(m Message) error {
	if n.User == "" || n.Pass == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}
	send := n.Send
	if send == nil {
		send = smtp.SendMail
	}

	auth := smtp.PlainAuth("", n.User, n.Pass, n.Host)
	if err := send(n.Host+":"+n.Port, auth, n.User, []string{n.To}, n.compose(m)); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	log.Printf("Contact notification sent for %s", m.Email)
	return nil
}

func (n *SMTPNotifier) compose(m Message) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(m.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, m.Name, m.Email, m.Message)

	return []byte("To: " + n.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + n.User + "\r\n" +
		"Reply-To: " + headerSafe(m.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerSafe strips line breaks so form input cannot add mail headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
