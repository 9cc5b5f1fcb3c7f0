package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WhatsAppSender sends text messages through the WhatsApp Cloud API.
type WhatsAppSender struct {
	client  *resty.Client
	phoneID string
}

type waText struct {
	Body string `json:"body"`
}

type waRequest struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             waText `json:"text"`
}

type waResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type waError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// NewWhatsAppSender builds a sender for apiURL (e.g.
// https://graph.facebook.com/v19.0). Only attempts the provider cannot have
// accepted are retried, up to retries times: a 429 answer or a failed
// connect. Timeouts and 5xx answers are final since the message may
// already be queued.
func NewWhatsAppSender(apiURL, token, phoneID string, retries int, timeout time.Duration) *WhatsAppSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetLogger(restyLogger{l: log.Logger.With().Str("component", "whatsapp").Logger()}).
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(token).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		AddRetryCondition(notAccepted)
	return &WhatsAppSender{client: client, phoneID: phoneID}
}

// notAccepted reports whether an attempt certainly never reached the
// provider.
func notAccepted(r *resty.Response, err error) bool {
	if err != nil {
		var op *net.OpError
		return errors.As(err, &op) && op.Op == "dial"
	}
	return r != nil && r.StatusCode() == http.StatusTooManyRequests
}

// restyLogger routes resty's own messages into zerolog.
type restyLogger struct {
	l zerolog.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) { r.l.Error().Msgf(format, v...) }
func (r restyLogger) Warnf(format string, v ...interface{})  { r.l.Warn().Msgf(format, v...) }
func (r restyLogger) Debugf(format string, v ...interface{}) { r.l.Debug().Msgf(format, v...) }

// Channel implements Sender.
func (s *WhatsAppSender) Channel() string { return ChannelWhatsApp }

// Send implements Sender. subject is ignored.
func (s *WhatsAppSender) Send(ctx context.Context, to, _ string, body string) (string, error) {
	var (
		out  waResponse
		fail waError
	)
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(waRequest{
			MessagingProduct: "whatsapp",
			To:               strings.TrimPrefix(to, "+"),
			Type:             "text",
			Text:             waText{Body: body},
		}).
		SetResult(&out).
		SetError(&fail).
		Post("/" + s.phoneID + "/messages")
	if err != nil {
		return "", fmt.Errorf("whatsapp: %w", err)
	}
	if resp.IsError() {
		msg := fail.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return "", fmt.Errorf("whatsapp: status %d: %s", resp.StatusCode(), msg)
	}
	if len(out.Messages) == 0 || out.Messages[0].ID == "" {
		return "", fmt.Errorf("whatsapp: response without message id")
	}
	return out.Messages[0].ID, nil
}
