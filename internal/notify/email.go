package notify

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// sendMail is replaced in tests.
var sendMail = smtp.SendMail

// EmailSender delivers plain-text reminders over SMTP.
type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Channel implements Sender.
func (s *EmailSender) Channel() string { return ChannelEmail }

// Send implements Sender. The returned id is the Message-ID header.
func (s *EmailSender) Send(ctx context.Context, to, subject, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	domainPart := s.Host
	if at := strings.LastIndex(s.From, "@"); at >= 0 {
		domainPart = s.From[at+1:]
	}
	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainPart)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: %s\r\n", id)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Password, s.Host)
	}
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	if err := sendMail(addr, auth, s.From, []string{to}, []byte(b.String())); err != nil {
		return "", fmt.Errorf("email: %w", err)
	}
	return id, nil
}
