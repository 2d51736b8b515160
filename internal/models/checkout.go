package models

import "time"

// CheckoutState is one stage of the paced checkout flow.
type CheckoutState string

// Checkout stages, traversed strictly in order. The failed state can be
// entered from processing or gateway.
const (
	CheckoutPending    CheckoutState = "pending"
	CheckoutProcessing CheckoutState = "processing"
	CheckoutGateway    CheckoutState = "gateway"
	CheckoutSuccess    CheckoutState = "success"
	CheckoutFailed     CheckoutState = "failed"
)

// CheckoutKind distinguishes course purchases from plan subscriptions.
type CheckoutKind string

// Supported checkout kinds.
const (
	CheckoutEnrollment   CheckoutKind = "enrollment"
	CheckoutSubscription CheckoutKind = "subscription"
)

// CheckoutSession is the polled state of one checkout run. It lives in redis
// for the configured session TTL.
type CheckoutSession struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	Kind           CheckoutKind  `json:"kind"`
	CartID         string        `json:"cart_id,omitempty"`
	SubscriptionID string        `json:"subscription_id,omitempty"`
	Amount         float64       `json:"amount"`
	Currency       string        `json:"currency"`
	State          CheckoutState `json:"state"`
	FailureReason  string        `json:"failure_reason,omitempty"`
	ReceiptURL     string        `json:"receipt_url,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Terminal reports whether the session has finished, successfully or not.
func (s CheckoutSession) Terminal() bool {
	return s.State == CheckoutSuccess || s.State == CheckoutFailed
}
