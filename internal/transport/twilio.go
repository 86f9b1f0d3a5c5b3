package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioMessagesURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

// TwilioMessenger sends WhatsApp messages through the Twilio Messages API.
type TwilioMessenger struct {
	httpClient *http.Client
	accountSID string
	authToken  string
	from       string // WhatsApp sender number, without the whatsapp: prefix
}

// NewTwilioMessenger creates a new TwilioMessenger.
func NewTwilioMessenger(accountSID, authToken, from string) *TwilioMessenger {
	return &TwilioMessenger{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
	}
}

// Send delivers one WhatsApp message to the given phone identity.
func (m *TwilioMessenger) Send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", "whatsapp:"+to)
	form.Set("From", "whatsapp:"+m.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf(twilioMessagesURL, m.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.SetBasicAuth(m.accountSID, m.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}

var _ Messenger = (*TwilioMessenger)(nil)
