// Package mailer delivers transactional emails such as certificate notices.
package mailer

import (
	"context"
	"net/mail"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/config"
	"go.uber.org/fx"
)

type Message struct {
	To          mail.Address
	Subject     string
	TextContent string
	HTMLContent string
}

// Mailer sends messages in the background. Send never blocks on delivery.
type Mailer interface {
	Send(messages ...Message)
}

// NewMailer returns a SendGrid mailer when an API key is configured and a log
// mailer otherwise. On stop the SendGrid mailer waits for messages in flight.
func NewMailer(lc fx.Lifecycle, cfg *config.Config) Mailer {
	if cfg.Mail.SendgridAPIKey == "" {
		log.Info().Msg("SENDGRID_API_KEY not set, emails are written to the log")
		return NewLogMailer()
	}
	m := NewSendgridMailer(cfg.Mail.SendgridAPIKey, cfg.Mail.FromName, cfg.Mail.FromAddress)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Waiting for outgoing mail...")
			return m.Drain(ctx)
		},
	})
	return m
}

// LogMailer records messages instead of sending them.
type LogMailer struct {
	mu   sync.Mutex
	sent []Message
}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(messages ...Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range messages {
		m.sent = append(m.sent, msg)
		log.Info().
			Str("to", msg.To.String()).
			Str("subject", msg.Subject).
			Msg("Email")
	}
}

// Sent returns a copy of every message passed to Send.
func (m *LogMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
