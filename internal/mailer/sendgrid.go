package mailer

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridMailer delivers each message through the SendGrid v3 API in its own goroutine.
type SendgridMailer struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	deliver    func(Message)
	inflight   sync.WaitGroup
}

func NewSendgridMailer(key, appName, fromEmail string) *SendgridMailer {
	m := &SendgridMailer{
		key:        key,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
	}
	m.deliver = m.send
	return m
}

func (m *SendgridMailer) Send(messages ...Message) {
	for _, msg := range messages {
		if msg.To.Address == "" || (msg.TextContent == "" && msg.HTMLContent == "") {
			continue
		}
		m.inflight.Add(1)
		go func(msg Message) {
			defer m.inflight.Done()
			m.deliver(msg)
		}(msg)
	}
}

// Drain blocks until every message handed to Send has been delivered or ctx ends.
func (m *SendgridMailer) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "mail still in flight")
	}
}

func (m *SendgridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	if msg.TextContent != "" {
		v3.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	}
	if msg.HTMLContent != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	return v3
}

func (m *SendgridMailer) send(msg Message) {
	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		log.Error().Err(err).Str("to", msg.To.Address).Msg("SendGrid: request failed")
		return
	}
	if res.StatusCode >= http.StatusBadRequest {
		log.Error().Int("status", res.StatusCode).Str("body", res.Body).Str("to", msg.To.Address).Msg("SendGrid: message rejected")
	}
}
