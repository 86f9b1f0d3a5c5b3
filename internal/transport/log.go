package transport

import (
	"context"
	"log"
)

// LogMessenger writes outbound messages to the process log instead of a real
// channel. Used when Twilio credentials are not configured.
type LogMessenger struct{}

// NewLogMessenger creates a new LogMessenger.
func NewLogMessenger() *LogMessenger {
	return &LogMessenger{}
}

// Send logs the outbound message.
func (m *LogMessenger) Send(ctx context.Context, to, body string) error {
	log.Printf("[OUTBOUND] To=%s, Body=%q", to, body)
	return nil
}

var _ Messenger = (*LogMessenger)(nil)
