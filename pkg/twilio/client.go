// Package twilio provides a minimal client for the Twilio REST API,
// covering the two endpoints the reminder service needs: SMS messages
// and outbound voice calls.
package twilio

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.twilio.com"

// Client represents an authenticated Twilio account.
type Client struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
}

func NewClient(accountSID, authToken, from string) *Client {
	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    defaultBaseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// SendSMS sends a text message to the given E.164 number.
func (c *Client) SendSMS(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Body", body)

	return c.post(ctx, "Messages.json", form)
}

// PlaceCall starts an outbound call that reads the message aloud via
// inline TwiML.
func (c *Client) PlaceCall(ctx context.Context, to, say string) error {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(say)); err != nil {
		return fmt.Errorf("escape message: %w", err)
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Twiml", fmt.Sprintf("<Response><Say>%s</Say></Response>", buf.String()))

	return c.post(ctx, "Calls.json", form)
}

func (c *Client) post(ctx context.Context, resource string, form url.Values) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/%s", c.baseURL, c.accountSID, resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("twilio API error: %s", resp.Status)
	}

	return nil
}
