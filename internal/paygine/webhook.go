package paygine

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

var ErrBadSignature = errors.New("webhook signature mismatch")

// Reference prefixes set at order registration; the webhook dispatcher
// uses them to route an event to the payout or transaction side.
const (
	RefPrefixPayout = "payout:"
	RefPrefixTip    = "tip:"
)

type WebhookEvent struct {
	OrderID    string
	Reference  string
	OrderState string
	Amount     int64
}

func (e *WebhookEvent) Completed() bool {
	return e.OrderState == OrderStateCompleted
}

// PayoutID extracts the internal payout request id from the reference,
// or 0 when the event is not payout-scoped.
func (e *WebhookEvent) PayoutID() int {
	return refID(e.Reference, RefPrefixPayout)
}

// TipID extracts the internal transaction id from the reference, or 0.
func (e *WebhookEvent) TipID() int {
	return refID(e.Reference, RefPrefixTip)
}

func refID(reference, prefix string) int {
	if !strings.HasPrefix(reference, prefix) {
		return 0
	}
	id, err := strconv.Atoi(strings.TrimPrefix(reference, prefix))
	if err != nil {
		return 0
	}
	return id
}

// ParseWebhook validates the notification signature and maps the form
// payload to an internal event.
func (c *Client) ParseWebhook(form url.Values) (*WebhookEvent, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	orderID := form.Get("order_id")
	state := form.Get("order_state")
	if form.Get("signature") != c.sign(c.sector, orderID, state) {
		return nil, ErrBadSignature
	}

	amount, _ := strconv.ParseInt(form.Get("amount"), 10, 64)
	return &WebhookEvent{
		OrderID:    orderID,
		Reference:  form.Get("reference"),
		OrderState: state,
		Amount:     amount,
	}, nil
}
