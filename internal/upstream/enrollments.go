package upstream

import (
	"context"
	"time"

	"github.com/noah-isme/lms-edge-api/internal/models"
)

// EnrollRequest is the POST /enrollments/enroll payload: the purchasing user
// plus the cart being checked out.
type EnrollRequest struct {
	UserDetails models.UserDetails `json:"userDetails"`
	CartID      string             `json:"cartId"`
}

// EnrollResult is the upstream confirmation of an enrollment purchase.
type EnrollResult struct {
	EnrollmentIDs []string `json:"enrollment_ids"`
	OrderID       string   `json:"order_id"`
}

// Enroll finalises a cart purchase upstream.
func (c *Client) Enroll(ctx context.Context, req EnrollRequest) (*EnrollResult, error) {
	var out EnrollResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/enrollments/enroll")
	if apiErr := c.apiError("enroll", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return &out, nil
}

// SubscribeRequest is the POST /enrollments/subscribe payload.
type SubscribeRequest struct {
	UserID         string    `json:"user_id"`
	ExpiryDate     time.Time `json:"expiry_date"`
	SubscriptionID string    `json:"subscription_id"`
}

// Subscribe activates a plan for a user upstream.
func (c *Client) Subscribe(ctx context.Context, req SubscribeRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/enrollments/subscribe")
	return c.apiError("subscribe", resp, err)
}

// MakeProgress reports a material status change upstream. Callers treat this
// as fire-and-forget: the optimistic local aggregate is never rolled back on
// failure.
func (c *Client) MakeProgress(ctx context.Context, update models.ProgressUpdate) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(update).
		Put("/enrollments/progress")
	return c.apiError("make progress", resp, err)
}

// ShareRequest is the POST /enrollments/share payload for seat sharing.
type ShareRequest struct {
	EnrollmentID string   `json:"enrollment_id"`
	EmailList    []string `json:"email_list"`
}

// ShareCourse shares an enrollment's seats with a list of emails.
func (c *Client) ShareCourse(ctx context.Context, req ShareRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/enrollments/share")
	return c.apiError("share course", resp, err)
}

// ListLearnings fetches the authenticated user's enrollments. Progress is
// computed upstream and only displayed by the gateway.
func (c *Client) ListLearnings(ctx context.Context, userID string) ([]models.Learning, error) {
	var out []models.Learning
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("user_id", userID).
		SetResult(&out).
		Get("/enrollments/learnings")
	if apiErr := c.apiError("list learnings", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return out, nil
}
