// Package stripehook authenticates Stripe webhook deliveries.
package stripehook

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v81/webhook"
)

// SignatureHeader is the header Stripe signs deliveries with.
const SignatureHeader = "Stripe-Signature"

var ErrVerification = errors.New("webhook verification failed")

// Event is a Stripe event whose signature has been checked. The zero value is
// never handed out by Verify, and the fields are unexported so an Event can
// not be assembled from unverified bytes outside this package.
type Event struct {
	id     string
	typ    string
	object json.RawMessage
}

func (e Event) ID() string   { return e.id }
func (e Event) Type() string { return e.typ }

// Object is the raw data.object of the event, byte-for-byte as Stripe sent it.
func (e Event) Object() json.RawMessage { return e.object }

type Verifier struct {
	secret    string
	tolerance time.Duration
}

// NewVerifier returns a verifier for one endpoint secret. A zero tolerance
// falls back to Stripe's default of five minutes.
func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}
	return &Verifier{secret: secret, tolerance: tolerance}
}

// Verify checks the signature header against the raw payload and decodes the
// event envelope. Any failure wraps ErrVerification.
func (v *Verifier) Verify(payload []byte, signature string) (Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrVerification, err)
	}
	if evt.Type == "" || evt.Data == nil {
		return Event{}, fmt.Errorf("%w: event has no type or data", ErrVerification)
	}

	return Event{
		id:     evt.ID,
		typ:    string(evt.Type),
		object: evt.Data.Raw,
	}, nil
}
