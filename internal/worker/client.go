package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// SecretHeader carries the shared worker secret.
const SecretHeader = "x-worker-secret"

// ErrNoSecret is returned when the trigger client has no secret configured.
var ErrNoSecret = errors.New("worker: WORKER_SECRET is not set")

// RecomputeResponse is the body of POST /worker/recompute-overdue.
type RecomputeResponse struct {
	Success  bool   `json:"success"`
	Updated  int64  `json:"updated"`
	DateUsed string `json:"dateUsed"`
	Error    string `json:"error,omitempty"`
}

// RemindersResponse is the body of POST /worker/send-whatsapp-reminders.
type RemindersResponse struct {
	Success   bool   `json:"success"`
	Processed bool   `json:"processed"`
	Sent      int    `json:"sent"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
	Locked    bool   `json:"locked,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Client triggers the worker endpoints of a running server.
type Client struct {
	http *resty.Client
}

// NewClient builds a trigger client for baseURL (scheme://host[:port][/base]).
func NewClient(baseURL, secret string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNoSecret
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader(SecretHeader, secret).
		SetHeader("Accept", "application/json")
	return &Client{http: c}, nil
}

func (c *Client) post(ctx context.Context, path string, out any) error {
	resp, err := c.http.R().SetContext(ctx).SetResult(out).Post(path)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}

// RecomputeOverdue calls POST /worker/recompute-overdue.
func (c *Client) RecomputeOverdue(ctx context.Context) (*RecomputeResponse, error) {
	var out RecomputeResponse
	if err := c.post(ctx, "/worker/recompute-overdue", &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, jobFailed("recompute-overdue", out.Error)
	}
	return &out, nil
}

// SendReminders calls POST /worker/send-whatsapp-reminders.
func (c *Client) SendReminders(ctx context.Context) (*RemindersResponse, error) {
	var out RemindersResponse
	if err := c.post(ctx, "/worker/send-whatsapp-reminders", &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, jobFailed("send-whatsapp-reminders", out.Error)
	}
	return &out, nil
}

func jobFailed(job, msg string) error {
	if msg == "" {
		return fmt.Errorf("%s: success=false", job)
	}
	return fmt.Errorf("%s: success=false: %s", job, msg)
}
