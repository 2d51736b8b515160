package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	"github.com/noah-isme/lms-edge-api/pkg/config"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.CheckoutSession
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]models.CheckoutSession{}}
}

func (m *memorySessionStore) Save(_ context.Context, session *models.CheckoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memorySessionStore) Find(_ context.Context, id string) (*models.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "checkout session not found")
	}
	clone := session
	return &clone, nil
}

type fakeCheckoutUpstream struct {
	mu         sync.Mutex
	enrolled   []upstream.EnrollRequest
	subscribed []upstream.SubscribeRequest
	enrollErr  error
	plans      map[string]*models.Subscription
}

func (f *fakeCheckoutUpstream) Enroll(_ context.Context, req upstream.EnrollRequest) (*upstream.EnrollResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enrollErr != nil {
		return nil, f.enrollErr
	}
	f.enrolled = append(f.enrolled, req)
	return &upstream.EnrollResult{OrderID: "order-1"}, nil
}

func (f *fakeCheckoutUpstream) Subscribe(_ context.Context, req upstream.SubscribeRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, req)
	return nil
}

func (f *fakeCheckoutUpstream) GetSubscription(_ context.Context, id string) (*models.Subscription, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subscription not found")
	}
	return plan, nil
}

type decliningGateway struct{}

func (decliningGateway) Authorize(context.Context, models.CheckoutSession) error {
	return assert.AnError
}

func fastCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{UpstreamTimeout: time.Second}
}

func seededCart(t *testing.T) (*memoryCartStore, *models.Cart) {
	t.Helper()
	store := newMemoryCartStore()
	cart, err := store.Create(context.Background(), "user-1")
	require.NoError(t, err)
	_, err = store.AddItem(context.Background(), cart.ID, models.CartItem{
		CourseID: "c1", CourseName: "Intro to Go", CoursePrice: 100, Quantity: 2,
		AccessType: models.AccessIndividual, AssignLimit: 1,
	})
	require.NoError(t, err)
	return store, cart
}

func waitForTerminal(t *testing.T, sessions *memorySessionStore, id string) models.CheckoutSession {
	t.Helper()
	var final models.CheckoutSession
	require.Eventually(t, func() bool {
		session, err := sessions.Find(context.Background(), id)
		if err != nil {
			return false
		}
		final = *session
		return final.Terminal()
	}, 2*time.Second, 10*time.Millisecond)
	return final
}

func TestCheckoutEnrollmentSucceeds(t *testing.T) {
	carts, cart := seededCart(t)
	sessions := newMemorySessionStore()
	client := &fakeCheckoutUpstream{}
	queue := &fakeQueue{}
	svc := NewCheckoutService(carts, sessions, client, nil, nil, queue, fastCheckoutConfig(), nil)

	session, err := svc.StartEnrollment(context.Background(), "user-1", models.UserDetails{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutPending, session.State)
	assert.Equal(t, 200.0, session.Amount)

	final := waitForTerminal(t, sessions, session.ID)
	assert.Equal(t, models.CheckoutSuccess, final.State)

	// Cart torn down and the receipt render queued.
	_, err = carts.FindByID(context.Background(), cart.ID)
	require.Error(t, err)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobTypeReceiptRender, queue.jobs[0].Type)
	require.Len(t, client.enrolled, 1)
	assert.Equal(t, cart.ID, client.enrolled[0].CartID)
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	carts := newMemoryCartStore()
	_, err := carts.Create(context.Background(), "user-1")
	require.NoError(t, err)
	svc := NewCheckoutService(carts, newMemorySessionStore(), &fakeCheckoutUpstream{}, nil, nil, nil, fastCheckoutConfig(), nil)

	_, err = svc.StartEnrollment(context.Background(), "user-1", models.UserDetails{UserID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCartEmpty.Code, appErrors.FromError(err).Code)
}

func TestCheckoutDeclinedPaymentFails(t *testing.T) {
	carts, cart := seededCart(t)
	sessions := newMemorySessionStore()
	svc := NewCheckoutService(carts, sessions, &fakeCheckoutUpstream{}, decliningGateway{}, nil, nil, fastCheckoutConfig(), nil)

	session, err := svc.StartEnrollment(context.Background(), "user-1", models.UserDetails{UserID: "user-1"})
	require.NoError(t, err)

	final := waitForTerminal(t, sessions, session.ID)
	assert.Equal(t, models.CheckoutFailed, final.State)
	assert.NotEmpty(t, final.FailureReason)

	// A failed checkout leaves the cart intact.
	kept, err := carts.FindByID(context.Background(), cart.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Items, 1)
}

func TestCheckoutUpstreamFailureKeepsCart(t *testing.T) {
	carts, cart := seededCart(t)
	sessions := newMemorySessionStore()
	client := &fakeCheckoutUpstream{enrollErr: appErrors.ErrUpstream}
	svc := NewCheckoutService(carts, sessions, client, nil, nil, nil, fastCheckoutConfig(), nil)

	session, err := svc.StartEnrollment(context.Background(), "user-1", models.UserDetails{UserID: "user-1"})
	require.NoError(t, err)

	final := waitForTerminal(t, sessions, session.ID)
	assert.Equal(t, models.CheckoutFailed, final.State)

	_, err = carts.FindByID(context.Background(), cart.ID)
	require.NoError(t, err)
}

func TestCheckoutSecondStartWhileInFlight(t *testing.T) {
	carts, _ := seededCart(t)
	sessions := newMemorySessionStore()
	cfg := fastCheckoutConfig()
	cfg.ProcessingDelay = 200 * time.Millisecond
	svc := NewCheckoutService(carts, sessions, &fakeCheckoutUpstream{}, nil, nil, nil, cfg, nil)

	first, err := svc.StartEnrollment(context.Background(), "user-1", models.UserDetails{UserID: "user-1"})
	require.NoError(t, err)

	_, err = svc.StartEnrollment(context.Background(), "user-1", models.UserDetails{UserID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCheckoutInFlight.Code, appErrors.FromError(err).Code)

	waitForTerminal(t, sessions, first.ID)
}

func TestCheckoutSubscriptionUsesPlanPricing(t *testing.T) {
	sessions := newMemorySessionStore()
	client := &fakeCheckoutUpstream{plans: map[string]*models.Subscription{
		"sub-1": {ID: "sub-1", Title: "Pro", Duration: 30, Amount: 19.99, Currency: "EUR"},
	}}
	svc := NewCheckoutService(newMemoryCartStore(), sessions, client, nil, nil, nil, fastCheckoutConfig(), nil)

	session, err := svc.StartSubscription(context.Background(), "user-1", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, 19.99, session.Amount)
	assert.Equal(t, "EUR", session.Currency)

	final := waitForTerminal(t, sessions, session.ID)
	assert.Equal(t, models.CheckoutSuccess, final.State)
	require.Len(t, client.subscribed, 1)
	assert.Equal(t, "sub-1", client.subscribed[0].SubscriptionID)
}

func TestCheckoutStartReturnsDetachedSnapshot(t *testing.T) {
	sessions := newMemorySessionStore()
	carts := newMemoryCartStore()
	svc := NewCheckoutService(carts, sessions, &fakeCheckoutUpstream{}, nil, nil, nil, fastCheckoutConfig(), nil)

	for i := 0; i < 25; i++ {
		userID := fmt.Sprintf("user-%d", i)
		cart, err := carts.Create(context.Background(), userID)
		require.NoError(t, err)
		_, err = carts.AddItem(context.Background(), cart.ID, models.CartItem{
			CourseID: "c1", CoursePrice: 10, Quantity: 1,
			AccessType: models.AccessIndividual, AssignLimit: 1,
		})
		require.NoError(t, err)

		session, err := svc.StartEnrollment(context.Background(), userID, models.UserDetails{UserID: userID})
		require.NoError(t, err)

		final := waitForTerminal(t, sessions, session.ID)
		require.Equal(t, models.CheckoutSuccess, final.State)

		// The caller's copy never moves past pending; live state is only
		// visible through the store.
		assert.Equal(t, models.CheckoutPending, session.State)
	}
}

func TestCheckoutStatusOwnership(t *testing.T) {
	sessions := newMemorySessionStore()
	session := &models.CheckoutSession{ID: "sess-1", UserID: "user-1", State: models.CheckoutPending}
	require.NoError(t, sessions.Save(context.Background(), session))
	svc := NewCheckoutService(newMemoryCartStore(), sessions, &fakeCheckoutUpstream{}, nil, nil, nil, fastCheckoutConfig(), nil)

	_, err := svc.Status(context.Background(), "someone-else", "sess-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	got, err := svc.Status(context.Background(), "user-1", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.ID)
}
