package core

import (
	"context"
	"net/mail"
	"strings"
)

type (
	EmailMessage struct {
		To          []mail.Address
		ReplyTo     *mail.Address
		Subject     string
		TextContent string
		HTMLContent string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently, failures are logged
		SendMessages(messages ...*EmailMessage)
		// Send sends a single message and reports whether it was accepted
		Send(ctx context.Context, msg *EmailMessage) error
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }

// JoinAddresses formats addrs as a comma separated header value.
func JoinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}
