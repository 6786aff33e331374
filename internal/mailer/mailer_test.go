package mailer

import (
	"context"
	"net/mail"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/config"
	"go.uber.org/fx/fxtest"
)

func TestNewMailerFallsBackToLog(t *testing.T) {
	m := NewMailer(fxtest.NewLifecycle(t), &config.Config{})
	_, ok := m.(*LogMailer)
	assert.True(t, ok)
}

func TestSendgridMailerDrainsInFlightMail(t *testing.T) {
	m := NewSendgridMailer("key", "VX Academy", "noreply@example.com")
	release := make(chan struct{})
	var delivered atomic.Int32
	m.deliver = func(Message) {
		<-release
		delivered.Add(1)
	}

	m.Send(
		Message{To: mail.Address{Address: "a@example.com"}, TextContent: "one"},
		Message{To: mail.Address{Address: "b@example.com"}, TextContent: "two"},
		Message{Subject: "no recipient", TextContent: "skipped"},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Drain(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, m.Drain(context.Background()))
	assert.EqualValues(t, 2, delivered.Load())
}

func TestNewMailerWaitsForMailOnStop(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	cfg := &config.Config{}
	cfg.Mail.SendgridAPIKey = "key"
	cfg.Mail.FromName = "VX Academy"
	cfg.Mail.FromAddress = "noreply@example.com"

	m, ok := NewMailer(lc, cfg).(*SendgridMailer)
	require.True(t, ok)
	var delivered atomic.Bool
	m.deliver = func(Message) {
		time.Sleep(10 * time.Millisecond)
		delivered.Store(true)
	}

	lc.RequireStart()
	m.Send(Message{To: mail.Address{Address: "a@example.com"}, TextContent: "hello"})
	lc.RequireStop()
	assert.True(t, delivered.Load())
}

func TestLogMailerRecordsMessages(t *testing.T) {
	m := NewLogMailer()
	m.Send(Message{To: mail.Address{Address: "a@example.com"}, Subject: "one"}, Message{Subject: "two"})

	sent := m.Sent()
	assert.Len(t, sent, 2)
	assert.Equal(t, "one", sent[0].Subject)
}

func TestSendgridPrepare(t *testing.T) {
	m := NewSendgridMailer("key", "VX Academy", "noreply@example.com")
	v3 := m.prepare(Message{
		To:          mail.Address{Name: "Lee", Address: "lee@example.com"},
		Subject:     "Certificate issued",
		TextContent: "Well done",
	})

	assert.Equal(t, "noreply@example.com", v3.From.Address)
	assert.Len(t, v3.Personalizations, 1)
	assert.Equal(t, "[VX Academy] Certificate issued", v3.Personalizations[0].Subject)
	assert.Len(t, v3.Content, 1)
}
