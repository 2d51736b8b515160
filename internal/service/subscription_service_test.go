package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

type fakeSubscriptionUpstream struct {
	plans    map[string]*models.Subscription
	deleted  []string
	attached [][2]string
}

func (f *fakeSubscriptionUpstream) ListSubscriptions(context.Context) ([]models.Subscription, error) {
	out := make([]models.Subscription, 0, len(f.plans))
	for _, plan := range f.plans {
		out = append(out, *plan)
	}
	return out, nil
}

func (f *fakeSubscriptionUpstream) GetSubscription(_ context.Context, id string) (*models.Subscription, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subscription not found")
	}
	return plan, nil
}

func (f *fakeSubscriptionUpstream) CreateSubscription(_ context.Context, req upstream.SubscriptionRequest) (*models.Subscription, error) {
	plan := &models.Subscription{ID: "sub-new", Title: req.Title, Duration: req.Duration, Amount: req.Amount, Currency: req.Currency, Description: req.Description}
	f.plans[plan.ID] = plan
	return plan, nil
}

func (f *fakeSubscriptionUpstream) UpdateSubscription(_ context.Context, id string, req upstream.SubscriptionRequest) (*models.Subscription, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subscription not found")
	}
	plan.Title = req.Title
	plan.Description = req.Description
	return plan, nil
}

func (f *fakeSubscriptionUpstream) DeleteSubscription(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.plans, id)
	return nil
}

func (f *fakeSubscriptionUpstream) ListSubscriptionCourses(context.Context, string) ([]models.Course, error) {
	return nil, nil
}

func (f *fakeSubscriptionUpstream) AttachSubscriptionCourse(_ context.Context, id, courseID string) error {
	f.attached = append(f.attached, [2]string{id, courseID})
	return nil
}

func (f *fakeSubscriptionUpstream) DetachSubscriptionCourse(context.Context, string, string) error {
	return nil
}

func newSubscriptionFixture() (*SubscriptionService, *fakeSubscriptionUpstream) {
	client := &fakeSubscriptionUpstream{plans: map[string]*models.Subscription{
		"sub-basic-monthly": {ID: "sub-basic-monthly", Title: "Basic", Duration: 30, Amount: 9.99, Currency: "USD", Description: "All basics, Email support"},
		"sub-pro":           {ID: "sub-pro", Title: "Pro", Duration: 30, Amount: 29.99, Currency: "USD"},
	}}
	return NewSubscriptionService(client, []string{"sub-basic-monthly", "sub-basic-yearly"}, nil, nil), client
}

func TestSubscriptionDeleteProtectedPlan(t *testing.T) {
	svc, client := newSubscriptionFixture()

	err := svc.Delete(context.Background(), "sub-basic-monthly")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProtectedPlan.Code, appErrors.FromError(err).Code)
	assert.Empty(t, client.deleted)
}

func TestSubscriptionDeleteRegularPlan(t *testing.T) {
	svc, client := newSubscriptionFixture()

	require.NoError(t, svc.Delete(context.Background(), "sub-pro"))
	assert.Equal(t, []string{"sub-pro"}, client.deleted)
}

func TestSubscriptionProtectedPlanRemainsEditable(t *testing.T) {
	svc, _ := newSubscriptionFixture()

	view, err := svc.Update(context.Background(), "sub-basic-monthly", SubscriptionInput{
		Title: "Basic v2", Duration: 30, Amount: 9.99, Currency: "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, "Basic v2", view.Title)
}

func TestSubscriptionViewSplitsFeatures(t *testing.T) {
	svc, _ := newSubscriptionFixture()

	view, err := svc.Get(context.Background(), "sub-basic-monthly")
	require.NoError(t, err)
	assert.Equal(t, []string{"All basics", "Email support"}, view.Features)
}

func TestSubscriptionCreateValidation(t *testing.T) {
	svc, _ := newSubscriptionFixture()

	_, err := svc.Create(context.Background(), SubscriptionInput{Title: "", Duration: 0, Currency: "US"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubscriptionAttachRequiresCourseID(t *testing.T) {
	svc, client := newSubscriptionFixture()

	err := svc.AttachCourse(context.Background(), "sub-pro", "")
	require.Error(t, err)

	require.NoError(t, svc.AttachCourse(context.Background(), "sub-pro", "c1"))
	require.Len(t, client.attached, 1)
}
