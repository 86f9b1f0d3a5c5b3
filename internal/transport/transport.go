// Package transport carries messages between the bot and the messaging
// channel. Inbound events arrive through the webhook; outbound messages go
// through a Messenger, either synchronously as the webhook reply or out of
// band from the ride simulation.
package transport

import "context"

// Message is one inbound event from the messaging channel. Latitude and
// Longitude are set only when the sender shared a location.
type Message struct {
	From      string // sender phone identity, E.164-like
	Body      string
	Latitude  *float64
	Longitude *float64
}

// HasLocation reports whether the event carries a full coordinate pair.
func (m Message) HasLocation() bool {
	return m.Latitude != nil && m.Longitude != nil
}

// Messenger delivers one outbound message to an identity.
type Messenger interface {
	Send(ctx context.Context, to, body string) error
}
