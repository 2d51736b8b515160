package upstream

import (
	"context"

	"github.com/noah-isme/lms-edge-api/internal/models"
)

// ListSubscriptions fetches all plans from GET /subscriptions.
func (c *Client) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	var out []models.Subscription
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/subscriptions")
	if apiErr := c.apiError("list subscriptions", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return out, nil
}

// GetSubscription fetches one plan from GET /subscriptions/:id.
func (c *Client) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	var out models.Subscription
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/subscriptions/" + id)
	if apiErr := c.apiError("get subscription", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return &out, nil
}

// SubscriptionRequest carries plan attributes for create and update calls.
type SubscriptionRequest struct {
	Title       string  `json:"title"`
	Duration    int     `json:"duration"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

// CreateSubscription creates a plan via POST /subscriptions.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionRequest) (*models.Subscription, error) {
	var out models.Subscription
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/subscriptions")
	if apiErr := c.apiError("create subscription", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return &out, nil
}

// UpdateSubscription updates a plan via PUT /subscriptions/:id.
func (c *Client) UpdateSubscription(ctx context.Context, id string, req SubscriptionRequest) (*models.Subscription, error) {
	var out models.Subscription
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Put("/subscriptions/" + id)
	if apiErr := c.apiError("update subscription", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return &out, nil
}

// DeleteSubscription removes a plan via DELETE /subscriptions/:id. Protected
// plan IDs are rejected by the service layer before this call is reached.
func (c *Client) DeleteSubscription(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/subscriptions/" + id)
	return c.apiError("delete subscription", resp, err)
}

// ListSubscriptionCourses fetches the courses attached to a plan.
func (c *Client) ListSubscriptionCourses(ctx context.Context, id string) ([]models.Course, error) {
	var out []models.Course
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/subscriptions/" + id + "/courses")
	if apiErr := c.apiError("list subscription courses", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return out, nil
}

// AttachSubscriptionCourse adds a course to a plan.
func (c *Client) AttachSubscriptionCourse(ctx context.Context, id, courseID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"course_id": courseID}).
		Post("/subscriptions/" + id + "/courses")
	return c.apiError("attach subscription course", resp, err)
}

// DetachSubscriptionCourse removes a course from a plan.
func (c *Client) DetachSubscriptionCourse(ctx context.Context, id, courseID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/subscriptions/" + id + "/courses/" + courseID)
	return c.apiError("detach subscription course", resp, err)
}
