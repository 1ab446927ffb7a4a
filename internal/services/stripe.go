package services

import (
	"os"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

type StripeService struct {
	publicKey string
	secretKey string
}

func NewStripeService(publicKey, secretKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		publicKey: publicKey,
		secretKey: secretKey,
	}
}

// CreatePremiumCheckoutSession starts a subscription checkout for the
// premium plan. The user id travels as the client reference so the webhook
// can flip the premium flag when payment completes.
func (s *StripeService) CreatePremiumCheckoutSession(userID, priceID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(os.Getenv("STRIPE_SUCCESS_URL")),
		CancelURL:         stripe.String(os.Getenv("STRIPE_CANCEL_URL")),
		ClientReferenceID: stripe.String(userID),
		Metadata: map[string]string{
			"plan": "premium",
		},
	}

	return session.New(params)
}

func (s *StripeService) HandleWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	return webhook.ConstructEvent(payload, signatureHeader, endpointSecret)
}
