// Package notification maps Stripe events to the chat messages announcing them.
package notification

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"StripeDiscordRelay/internal/domain/money"

	"github.com/stripe/stripe-go/v81"
)

var (
	ErrUnhandledEventType = errors.New("unhandled event type")
	ErrMalformedObject    = errors.New("malformed event object")
)

// Placeholder replaces empty field values; Discord rejects empty embed fields.
const Placeholder = "N/A"

type template func(object json.RawMessage) (Message, error)

var templates = map[stripe.EventType]template{
	stripe.EventTypeChargeSucceeded:      chargeSucceeded,
	stripe.EventTypeChargeFailed:         chargeFailed,
	stripe.EventTypeChargeDisputeCreated: disputeCreated,
}

// Render builds the message for an event's data.object. Unknown types return
// ErrUnhandledEventType; objects that do not decode return ErrMalformedObject.
func Render(eventType string, object json.RawMessage) (Message, error) {
	tmpl, ok := templates[stripe.EventType(eventType)]
	if !ok {
		return Message{}, fmt.Errorf("%w: %s", ErrUnhandledEventType, eventType)
	}
	return tmpl(object)
}

func chargeSucceeded(object json.RawMessage) (Message, error) {
	var ch stripe.Charge
	if err := decode(object, &ch); err != nil {
		return Message{}, err
	}

	return newMessage("Successful charge",
		Field{Name: "Description", Value: ch.Description},
		amountField(ch.Amount, ch.Currency),
	), nil
}

func chargeFailed(object json.RawMessage) (Message, error) {
	var ch stripe.Charge
	if err := decode(object, &ch); err != nil {
		return Message{}, err
	}

	return newMessage("Charge Failed",
		Field{Name: "Email", Value: ch.ReceiptEmail},
		amountField(ch.Amount, ch.Currency),
	), nil
}

func disputeCreated(object json.RawMessage) (Message, error) {
	var dp stripe.Dispute
	if err := decode(object, &dp); err != nil {
		return Message{}, err
	}

	var email string
	if dp.Evidence != nil {
		email = dp.Evidence.CustomerEmailAddress
	}

	return newMessage("Dispute created",
		Field{Name: "Email", Value: email},
		amountField(dp.Amount, dp.Currency),
	), nil
}

func decode(object json.RawMessage, v any) error {
	if len(object) == 0 {
		return fmt.Errorf("%w: empty", ErrMalformedObject)
	}
	if err := json.Unmarshal(object, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedObject, err)
	}
	return nil
}

// amountField is left empty, and so rendered as Placeholder, when the
// object carries no currency.
func amountField(amount int64, cur stripe.Currency) Field {
	if strings.TrimSpace(string(cur)) == "" {
		return Field{Name: "Amount"}
	}
	return Field{Name: "Amount", Value: money.FormatMinorOrRaw(amount, string(cur))}
}

func newMessage(title string, fields ...Field) Message {
	for i := range fields {
		if fields[i].Value == "" {
			fields[i].Value = Placeholder
		}
	}
	return Message{Color: BrandColor, Title: title, Fields: fields}
}
