// Package payments wraps the Stripe API behind a small client interface so
// services never touch processor types directly.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventCheckoutPaymentFailed = "checkout.session.async_payment_failed"
	EventCheckoutExpired       = "checkout.session.expired"
)

// Session is the processor's checkout session, reduced to what the
// service needs: an opaque id and the redirect URL for the buyer.
type Session struct {
	ID  string
	URL string
}

// Event is one verified webhook delivery. SessionID and CustomerEmail are
// only populated for checkout session events.
type Event struct {
	Type          string
	SessionID     string
	CustomerEmail string
}

type CheckoutParams struct {
	UserID     int64
	Email      string
	RecordID   int64
	RecordName string
	UnitAmount int64
}

type Client interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*Session, error)
	ConstructEvent(payload []byte, sigHeader string) (*Event, error)
}

type StripeClient struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeClient(secretKey, webhookSecret, successURL, cancelURL string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{
		api:           api,
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

// CreateCheckoutSession opens a single-line-item card checkout. Buyer and
// record ids travel as session metadata so the webhook can reconcile
// without a database join.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*Session, error) {
	p := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.RecordName),
					},
					UnitAmount: stripe.Int64(params.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	p.Context = ctx
	p.AddMetadata("userId", strconv.FormatInt(params.UserID, 10))
	p.AddMetadata("email", params.Email)
	p.AddMetadata("recordId", strconv.FormatInt(params.RecordID, 10))

	sess, err := c.api.CheckoutSessions.New(p)
	if err != nil {
		slog.Error("failed to create checkout session", "record_id", params.RecordID, "error", err)
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

// ConstructEvent verifies the signature header against the exact raw body
// and the shared webhook secret, then extracts the session fields. The
// body must not be re-serialized before this call.
func (c *StripeClient) ConstructEvent(payload []byte, sigHeader string) (*Event, error) {
	stripeEvent, err := webhook.ConstructEventWithOptions(payload, sigHeader, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	event := &Event{Type: string(stripeEvent.Type)}
	switch event.Type {
	case EventCheckoutCompleted, EventCheckoutPaymentFailed, EventCheckoutExpired:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to parse checkout session payload: %w", err)
		}
		event.SessionID = sess.ID
		event.CustomerEmail = sess.Metadata["email"]
	}
	return event, nil
}
