package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/config"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/notify"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/worker"
)

type fakeJobs struct {
	calls  []string
	recErr error
	remErr error
}

func (f *fakeJobs) RecomputeOverdue(context.Context) (*worker.RecomputeResponse, error) {
	f.calls = append(f.calls, "overdue")
	if f.recErr != nil {
		return nil, f.recErr
	}
	return &worker.RecomputeResponse{Success: true, Updated: 3, DateUsed: "2025-04-06"}, nil
}

func (f *fakeJobs) SendReminders(context.Context) (*worker.RemindersResponse, error) {
	f.calls = append(f.calls, "reminders")
	if f.remErr != nil {
		return nil, f.remErr
	}
	return &worker.RemindersResponse{Success: true, Processed: true, Sent: 2}, nil
}

func TestRunTrigger(t *testing.T) {
	var out strings.Builder
	printf := func(format string, a ...any) { fmt.Fprintf(&out, format, a...) }

	t.Run("both jobs in order", func(t *testing.T) {
		out.Reset()
		f := &fakeJobs{}
		require.NoError(t, runTrigger(context.Background(), f, "", printf))
		assert.Equal(t, []string{"overdue", "reminders"}, f.calls)
		assert.Contains(t, out.String(), "updated=3 date=2025-04-06")
		assert.Contains(t, out.String(), "sent=2")
	})

	t.Run("single job", func(t *testing.T) {
		f := &fakeJobs{}
		require.NoError(t, runTrigger(context.Background(), f, "reminders", printf))
		assert.Equal(t, []string{"reminders"}, f.calls)
	})

	t.Run("sweep failure stops the run", func(t *testing.T) {
		f := &fakeJobs{recErr: errors.New("recompute-overdue: success=false")}
		err := runTrigger(context.Background(), f, "", printf)
		require.Error(t, err)
		assert.Equal(t, []string{"overdue"}, f.calls)
	})

	t.Run("reminder failure is returned", func(t *testing.T) {
		f := &fakeJobs{remErr: errors.New("boom")}
		require.Error(t, runTrigger(context.Background(), f, "", printf))
	})

	t.Run("unknown job", func(t *testing.T) {
		f := &fakeJobs{}
		require.Error(t, runTrigger(context.Background(), f, "weekly", printf))
		assert.Empty(t, f.calls)
	})
}

func TestNewNotifyRouter(t *testing.T) {
	cfg := config.Config{}
	rt := newNotifyRouter(cfg)
	assert.Nil(t, rt.WhatsApp)
	assert.Nil(t, rt.Email)
	s, to, err := rt.Route(notify.Recipient{Phone: "+34600111222"})
	require.NoError(t, err)
	assert.Equal(t, notify.ChannelLog, s.Channel())
	assert.Equal(t, "+34600111222", to)

	cfg.WhatsApp = config.WhatsAppConfig{Enabled: true, APIURL: "http://wa.local", Token: "t", PhoneID: "1"}
	cfg.SMTP = config.SMTPConfig{Host: "smtp.local", Port: 25, From: "rent@example.com"}
	rt = newNotifyRouter(cfg)
	s, _, err = rt.Route(notify.Recipient{Phone: "+34600111222", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, notify.ChannelWhatsApp, s.Channel())
	s, to, err = rt.Route(notify.Recipient{Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, notify.ChannelEmail, s.Channel())
	assert.Equal(t, "a@example.com", to)
}

func TestNewLocker(t *testing.T) {
	l, closeFn := newLocker(config.RedisConfig{})
	assert.IsType(t, worker.NoopLocker{}, l)
	require.NoError(t, closeFn(context.Background()))

	mr := miniredis.RunT(t)
	l, closeFn = newLocker(config.RedisConfig{Addr: mr.Addr()})
	require.IsType(t, &worker.RedisLocker{}, l)

	release, ok, err := l.Acquire(context.Background(), "recompute-overdue", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	release()
	require.NoError(t, closeFn(context.Background()))
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "trigger", "schedule"}, names)
}
