package notify

import (
	"fmt"
	"net/http"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier covers the two carrier side effects the dispatcher can take.
// Every call is attempted exactly once; retry policy is deliberately absent.
type Notifier interface {
	SendSMS(to, from, body string) error
	RedirectCall(callSID, targetURL string) error
}

// Twilio is a Notifier backed by the Twilio REST API.
type Twilio struct {
	rest *twilio.RestClient
}

func NewTwilio(accountSID, authToken string, timeout time.Duration) *Twilio {
	base := &twclient.Client{
		Credentials: twclient.NewCredentials(accountSID, authToken),
		HTTPClient:  &http.Client{},
	}
	// The REST path is built from the client's account SID, which is not
	// derived from the credentials automatically.
	base.SetAccountSid(accountSID)
	if timeout > 0 {
		base.SetTimeout(timeout)
	}
	return newTwilio(accountSID, authToken, base)
}

func newTwilio(accountSID, authToken string, base twclient.BaseClient) *Twilio {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
		Client:   base,
	})
	return &Twilio{rest: rest}
}

func (t *Twilio) SendSMS(to, from, body string) error {
	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	if _, err := t.rest.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	return nil
}

// RedirectCall points the live call at targetURL, which must serve TwiML.
func (t *Twilio) RedirectCall(callSID, targetURL string) error {
	params := &api.UpdateCallParams{}
	params.SetUrl(targetURL)
	params.SetMethod(http.MethodPost)

	if _, err := t.rest.Api.UpdateCall(callSID, params); err != nil {
		return fmt.Errorf("redirect call: %w", err)
	}
	return nil
}
