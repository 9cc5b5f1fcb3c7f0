// Package notify delivers reminder texts to tenants over WhatsApp, email or,
// when no provider is configured, the application log. Message bodies are
// rendered by Templates in the business locale.
package notify

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Channel names stored on notification logs.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
	ChannelLog      = "log"
)

// ErrNoRecipient is returned when a tenant has neither a phone nor an email.
var ErrNoRecipient = errors.New("notify: tenant has no phone or email")

// Sender delivers one text message and returns the provider message id.
type Sender interface {
	Channel() string
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// Recipient is the contact data of a tenant.
type Recipient struct {
	Name  string
	Phone string
	Email string
}

// Router picks a channel per recipient: WhatsApp when a phone is set, email
// when only an email is set. Nil senders are skipped; when neither fits,
// Fallback (if any) receives the message addressed to whichever contact
// exists.
type Router struct {
	WhatsApp Sender
	Email    Sender
	Fallback Sender
}

// Route returns the sender and destination address for r.
func (rt *Router) Route(r Recipient) (Sender, string, error) {
	phone := strings.TrimSpace(r.Phone)
	email := strings.TrimSpace(r.Email)
	switch {
	case phone != "" && rt.WhatsApp != nil:
		return rt.WhatsApp, phone, nil
	case email != "" && rt.Email != nil:
		return rt.Email, email, nil
	}
	if rt.Fallback != nil {
		if phone != "" {
			return rt.Fallback, phone, nil
		}
		if email != "" {
			return rt.Fallback, email, nil
		}
	}
	return nil, "", ErrNoRecipient
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct{}

// Channel implements Sender.
func (LogSender) Channel() string { return ChannelLog }

// Send implements Sender.
func (LogSender) Send(ctx context.Context, to, subject, body string) (string, error) {
	id := "dryrun-" + uuid.NewString()
	log.Ctx(ctx).Info().
		Str("channel", ChannelLog).
		Str("to", to).
		Str("subject", subject).
		Str("provider_message_id", id).
		Int("body_len", len(body)).
		Msg("reminder not delivered: no provider configured")
	return id, nil
}
