package sms

import (
	"context"
	"drivesafe-service/internal/platform/obs"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// messageCreator is the slice of the Twilio REST API the sender uses.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioSender implements ports.SMSSender with Twilio's Messages API.
type TwilioSender struct {
	api  messageCreator
	from string
}

// NewTwilioSender builds a sender from account credentials. The credentials
// are handed to the Twilio client and not kept anywhere else.
func NewTwilioSender(accountSID, authToken, from string) (*TwilioSender, error) {
	if strings.TrimSpace(accountSID) == "" || strings.TrimSpace(authToken) == "" {
		return nil, eris.New("twilio: account sid and auth token are required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, eris.New("twilio: sender number is required")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{api: client.Api, from: strings.TrimSpace(from)}, nil
}

type createResult struct {
	msg *openapi.ApiV2010Message
	err error
}

// Send submits body to Twilio and returns the message SID.
//
// The Twilio client takes no context, so the call runs on its own goroutine
// and Send returns as soon as ctx is done. A message abandoned that way may
// still be delivered; the client's own HTTP timeout bounds the goroutine.
func (t *TwilioSender) Send(ctx context.Context, to string, body string) (_ string, err error) {
	defer obs.Time(ctx, "sms.twilio.Send")(&err)

	if err := ctx.Err(); err != nil {
		return "", eris.Wrap(err, "twilio: send")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	ch := make(chan createResult, 1)
	go func() {
		msg, err := t.api.CreateMessage(params)
		ch <- createResult{msg: msg, err: err}
	}()

	var res createResult
	select {
	case <-ctx.Done():
		return "", eris.Wrap(ctx.Err(), "twilio: send abandoned")
	case res = <-ch:
	}

	if res.err != nil {
		var apiErr *twclient.TwilioRestError
		if errors.As(res.err, &apiErr) {
			zap.L().Warn("twilio rejected message",
				zap.String("req_id", obs.RequestID(ctx)),
				zap.Int("code", apiErr.Code),
				zap.Int("status", apiErr.Status),
			)
			return "", eris.Errorf("twilio: %d %s", apiErr.Code, apiErr.Message)
		}
		return "", eris.Wrap(res.err, "twilio: create message")
	}

	if res.msg == nil || res.msg.Sid == nil {
		return "", eris.New("twilio: response carried no message sid")
	}
	return *res.msg.Sid, nil
}
