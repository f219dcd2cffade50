// Package email delivers account notifications.
package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address, falls back to the sender's default
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender sends one email.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// NewSender returns a Resend-backed sender, or a logging no-op when apiKey is empty.
func NewSender(apiKey, from string) Sender {
	if apiKey == "" {
		return NewNoopSender()
	}
	return NewResendSender(apiKey, from)
}
