// Package payment creates card payment intents with the external processor.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrProcessor wraps every failure reported by, or on the way to, the
// processor.
var ErrProcessor = errors.New("payment: processor error")

// Intent is the subset of a processor intent the API relays.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

// Processor creates payment intents.
type Processor interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (Intent, error)
}

// Stripe is the production Processor.
type Stripe struct {
	api *client.API
}

// NewStripe builds a client for secretKey. A nil backends uses the default
// Stripe endpoints.
func NewStripe(secretKey string, backends *stripe.Backends) *Stripe {
	return &Stripe{api: client.New(secretKey, backends)}
}

func (s *Stripe) CreateIntent(ctx context.Context, amountMinor int64, currency string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) {
			return Intent{}, fmt.Errorf("%w: %s (%s)", ErrProcessor, serr.Msg, serr.Type)
		}
		return Intent{}, fmt.Errorf("%w: %v", ErrProcessor, err)
	}
	if pi.ClientSecret == "" {
		return Intent{}, fmt.Errorf("%w: intent %s has no client secret", ErrProcessor, pi.ID)
	}

	return Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

// Unconfigured rejects every intent. It stands in when no secret key is set
// so the server still boots.
type Unconfigured struct{}

func (Unconfigured) CreateIntent(context.Context, int64, string) (Intent, error) {
	return Intent{}, fmt.Errorf("%w: no secret key configured", ErrProcessor)
}
