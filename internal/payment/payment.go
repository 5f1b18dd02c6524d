package payment

import (
	"context"
	"errors"
)

const EventCheckoutCompleted = "checkout.session.completed"

var ErrInvalidSignature = errors.New("webhook signature verification failed")

// LineItem is what the hosted checkout page displays. UnitAmount is in the
// currency's smallest unit (cents).
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

type Session struct {
	ID  string
	URL string
}

// Event is a verified, decoded gateway callback. OrderID is the correlation
// metadata echoed back from session creation; it is empty for event types that
// carry no session.
type Event struct {
	Type      string
	SessionID string
	OrderID   string
}

// Gateway is the payment provider contract: create a hosted checkout session
// up front, verify and decode the asynchronous completion callback later.
type Gateway interface {
	CreateSession(ctx context.Context, items []LineItem, orderID, customerEmail string) (*Session, error)
	VerifyEvent(payload []byte, sigHeader string) (*Event, error)
}
