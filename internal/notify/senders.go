package notify

import (
	"context"

	"github.com/yashwanthpalsu/YAR/pkg/email"
	"github.com/yashwanthpalsu/YAR/pkg/twilio"
)

// EmailSender delivers over SMTP.
type EmailSender struct {
	Client *email.Client
}

func (s *EmailSender) Send(_ context.Context, to, subject, body string) error {
	return s.Client.Send(to, subject, body)
}

// SMSSender delivers text messages through Twilio.
type SMSSender struct {
	Client *twilio.Client
}

func (s *SMSSender) Send(ctx context.Context, to, _ string, body string) error {
	return s.Client.SendSMS(ctx, to, body)
}

// CallSender places a voice call through Twilio that reads the message
// out loud.
type CallSender struct {
	Client *twilio.Client
}

func (s *CallSender) Send(ctx context.Context, to, _ string, body string) error {
	return s.Client.PlaceCall(ctx, to, body)
}
