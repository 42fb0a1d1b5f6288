package service

import (
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// PaymentIntentCreator is what handlers depend on; tests stub it.
type PaymentIntentCreator interface {
	CreatePaymentIntent(email string, amountCents int64) (clientSecret, intentID string, err error)
}

// StripeService creates PaymentIntents for membership purchases.
type StripeService struct {
	api *client.API
}

func NewStripeService(secretKey string) *StripeService {
	if secretKey == "" {
		return nil
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeService{api: api}
}

func (s *StripeService) CreatePaymentIntent(email string, amountCents int64) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(amountCents),
		Currency:     stripe.String(string(stripe.CurrencyUSD)),
		ReceiptEmail: stripe.String(email),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.SetIdempotencyKey(uuid.NewString())
	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", err
	}
	return pi.ClientSecret, pi.ID, nil
}
