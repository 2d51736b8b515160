package models

import "strings"

// Subscription is a purchasable plan mirrored from the upstream API.
// Duration is expressed in days. Description is a comma separated feature
// list in the upstream contract; Features exposes it split for clients.
type Subscription struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Duration    int     `json:"duration"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

// Features splits the comma separated description into a clean list.
func (s Subscription) Features() []string {
	if s.Description == "" {
		return nil
	}
	parts := strings.Split(s.Description, ",")
	features := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			features = append(features, trimmed)
		}
	}
	return features
}

// SubscriptionView is the gateway response shape for a plan.
type SubscriptionView struct {
	Subscription
	Features []string `json:"features"`
}

// NewSubscriptionView projects a Subscription for responses.
func NewSubscriptionView(s Subscription) SubscriptionView {
	return SubscriptionView{Subscription: s, Features: s.Features()}
}
