// Package email delivers outbound mail through the Resend API.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Attachment is a file included with an outgoing message.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Message is one outgoing email.
type Message struct {
	To          string
	Subject     string
	Text        string
	Attachments []Attachment
}

// Dispatcher sends messages and returns the provider's message id.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type ResendDispatcher struct {
	client *resend.Client
	from   string
	log    zerolog.Logger
}

func NewResendDispatcher(apiKey, from string, logger zerolog.Logger) *ResendDispatcher {
	return &ResendDispatcher{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    logger.With().Str("component", "email").Logger(),
	}
}

func (d *ResendDispatcher) Send(ctx context.Context, msg Message) (string, error) {
	params := &resend.SendEmailRequest{
		From:    d.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
	}
	for _, a := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		})
	}

	sent, err := d.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("send email to %s: %w", msg.To, err)
	}

	d.log.Info().
		Str("email_id", sent.Id).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("email sent")
	return sent.Id, nil
}
