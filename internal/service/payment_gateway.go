package service

import (
	"context"
	"fmt"

	"github.com/noah-isme/lms-edge-api/internal/models"
)

// PaymentGateway authorises a checkout session's amount. The gateway stage of
// the checkout flow blocks on this call.
type PaymentGateway interface {
	Authorize(ctx context.Context, session models.CheckoutSession) error
}

// SimulatedGateway approves every well-formed charge. It stands in for a real
// payment provider until one is integrated; the checkout flow treats it
// exactly like a remote authorisation call.
type SimulatedGateway struct{}

// Authorize approves any positive amount.
func (SimulatedGateway) Authorize(_ context.Context, session models.CheckoutSession) error {
	if session.Amount <= 0 {
		return fmt.Errorf("declined: amount %.2f is not chargeable", session.Amount)
	}
	return nil
}
