package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	"github.com/noah-isme/lms-edge-api/pkg/config"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/jobs"
)

type checkoutUpstream interface {
	Enroll(ctx context.Context, req upstream.EnrollRequest) (*upstream.EnrollResult, error)
	Subscribe(ctx context.Context, req upstream.SubscribeRequest) error
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)
}

type sessionStore interface {
	Save(ctx context.Context, session *models.CheckoutSession) error
	Find(ctx context.Context, id string) (*models.CheckoutSession, error)
}

type receiptLinker interface {
	DownloadURL(ownerID, sessionID string) (string, error)
}

type checkoutMetrics interface {
	CountCheckout(kind models.CheckoutKind, state models.CheckoutState)
}

// defaultCurrency applies to cart purchases; subscription checkouts use the
// plan's own currency.
const defaultCurrency = "USD"

// CheckoutService drives the paced checkout flow. A checkout runs in the
// background after Start returns; clients poll the session until it reaches a
// terminal state. Stage delays come from configuration and the gateway stage
// is shown for at least MinGatewayWait even when authorisation is instant.
type CheckoutService struct {
	carts    cartStore
	sessions sessionStore
	client   checkoutUpstream
	gateway  PaymentGateway
	receipts receiptLinker
	queue    syncQueue
	cfg      config.CheckoutConfig
	logger   *zap.Logger
	metrics  checkoutMetrics

	// sleep is swapped out in tests to avoid real pacing delays.
	sleep func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	inflight map[string]string
}

// NewCheckoutService constructs CheckoutService.
func NewCheckoutService(
	carts cartStore,
	sessions sessionStore,
	client checkoutUpstream,
	gateway PaymentGateway,
	receipts receiptLinker,
	queue syncQueue,
	cfg config.CheckoutConfig,
	logger *zap.Logger,
) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gateway == nil {
		gateway = SimulatedGateway{}
	}
	return &CheckoutService{
		carts:    carts,
		sessions: sessions,
		client:   client,
		gateway:  gateway,
		receipts: receipts,
		queue:    queue,
		cfg:      cfg,
		logger:   logger,
		sleep:    sleepCtx,
		inflight: map[string]string{},
	}
}

// WithMetrics attaches checkout counters.
func (s *CheckoutService) WithMetrics(metrics checkoutMetrics) *CheckoutService {
	s.metrics = metrics
	return s
}

// StartEnrollment begins a cart checkout. The cart must exist and hold at
// least one line; a user may only run one checkout at a time.
func (s *CheckoutService) StartEnrollment(ctx context.Context, userID string, details models.UserDetails) (*models.CheckoutSession, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.ErrCartEmpty
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cart")
	}
	if len(cart.Items) == 0 {
		return nil, appErrors.ErrCartEmpty
	}

	session := s.newSession(userID, models.CheckoutEnrollment)
	session.CartID = cart.ID
	session.Amount = cart.Total()
	session.Currency = defaultCurrency

	if err := s.begin(ctx, session); err != nil {
		return nil, err
	}

	// The background run owns the session struct from here on; the caller
	// gets a pending snapshot and polls the store for updates.
	snapshot := *session

	go s.run(session, func(ctx context.Context) error {
		_, err := s.client.Enroll(ctx, upstream.EnrollRequest{UserDetails: details, CartID: cart.ID})
		return err
	}, func() {
		if err := s.carts.Delete(context.Background(), cart.ID); err != nil {
			s.logger.Warn("failed to clear cart after checkout", zap.String("cart_id", cart.ID), zap.Error(err))
		}
		s.enqueueReceipt(ReceiptPayload{Session: *session, Lines: cart.Items})
	})

	return &snapshot, nil
}

// StartSubscription begins a plan checkout. The plan's amount and currency
// price the session; expiry is the plan duration from now.
func (s *CheckoutService) StartSubscription(ctx context.Context, userID, subscriptionID string) (*models.CheckoutSession, error) {
	plan, err := s.client.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	session := s.newSession(userID, models.CheckoutSubscription)
	session.SubscriptionID = plan.ID
	session.Amount = plan.Amount
	session.Currency = plan.Currency
	if session.Currency == "" {
		session.Currency = defaultCurrency
	}

	if err := s.begin(ctx, session); err != nil {
		return nil, err
	}

	snapshot := *session

	expiry := time.Now().UTC().AddDate(0, 0, plan.Duration)
	go s.run(session, func(ctx context.Context) error {
		return s.client.Subscribe(ctx, upstream.SubscribeRequest{
			UserID:         userID,
			ExpiryDate:     expiry,
			SubscriptionID: plan.ID,
		})
	}, func() {
		s.enqueueReceipt(ReceiptPayload{Session: *session, PlanTitle: plan.Title})
	})

	return &snapshot, nil
}

// Status returns the session if it belongs to the requesting user.
func (s *CheckoutService) Status(ctx context.Context, userID, sessionID string) (*models.CheckoutSession, error) {
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "checkout session belongs to another user")
	}
	return session, nil
}

func (s *CheckoutService) newSession(userID string, kind models.CheckoutKind) *models.CheckoutSession {
	now := time.Now().UTC()
	return &models.CheckoutSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		State:     models.CheckoutPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// begin registers the session as the user's single in-flight checkout and
// persists the pending state.
func (s *CheckoutService) begin(ctx context.Context, session *models.CheckoutSession) error {
	s.mu.Lock()
	if _, busy := s.inflight[session.UserID]; busy {
		s.mu.Unlock()
		return appErrors.ErrCheckoutInFlight
	}
	s.inflight[session.UserID] = session.ID
	s.mu.Unlock()

	if err := s.sessions.Save(ctx, session); err != nil {
		s.release(session.UserID)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start checkout")
	}
	return nil
}

func (s *CheckoutService) release(userID string) {
	s.mu.Lock()
	delete(s.inflight, userID)
	s.mu.Unlock()
}

// run walks the session through processing and gateway to a terminal state.
// finalize is the upstream commit; onSuccess applies the success side effects
// just before the terminal state is persisted.
func (s *CheckoutService) run(session *models.CheckoutSession, finalize func(context.Context) error, onSuccess func()) {
	ctx := context.Background()
	defer s.release(session.UserID)

	if err := s.sleep(ctx, s.cfg.ProcessingDelay); err != nil {
		s.fail(ctx, session, "checkout interrupted")
		return
	}
	s.transition(ctx, session, models.CheckoutProcessing)

	if err := s.sleep(ctx, s.cfg.GatewayDelay); err != nil {
		s.fail(ctx, session, "checkout interrupted")
		return
	}
	s.transition(ctx, session, models.CheckoutGateway)
	gatewayEntered := time.Now()

	if err := s.gateway.Authorize(ctx, *session); err != nil {
		s.holdGatewayFloor(ctx, gatewayEntered)
		s.fail(ctx, session, err.Error())
		return
	}

	commitCtx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
	err := finalize(commitCtx)
	cancel()
	s.holdGatewayFloor(ctx, gatewayEntered)
	if err != nil {
		s.logger.Warn("checkout upstream commit failed",
			zap.String("session_id", session.ID),
			zap.Error(err))
		s.fail(ctx, session, appErrors.FromError(err).Message)
		return
	}

	if s.receipts != nil {
		url, err := s.receipts.DownloadURL(session.UserID, session.ID)
		if err != nil {
			s.logger.Warn("failed to sign receipt url", zap.String("session_id", session.ID), zap.Error(err))
		} else {
			session.ReceiptURL = url
		}
	}
	// Side effects land before the terminal save: a poller that observes
	// success must also see the cart gone and the receipt queued.
	if onSuccess != nil {
		onSuccess()
	}
	s.transition(ctx, session, models.CheckoutSuccess)
}

// holdGatewayFloor keeps the gateway stage visible for at least the
// configured minimum before a terminal transition.
func (s *CheckoutService) holdGatewayFloor(ctx context.Context, entered time.Time) {
	remaining := s.cfg.MinGatewayWait - time.Since(entered)
	if remaining > 0 {
		_ = s.sleep(ctx, remaining)
	}
}

func (s *CheckoutService) transition(ctx context.Context, session *models.CheckoutSession, state models.CheckoutState) {
	session.State = state
	session.UpdatedAt = time.Now().UTC()
	if session.Terminal() && s.metrics != nil {
		s.metrics.CountCheckout(session.Kind, state)
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("failed to persist checkout state",
			zap.String("session_id", session.ID),
			zap.String("state", string(state)),
			zap.Error(err))
	}
}

func (s *CheckoutService) fail(ctx context.Context, session *models.CheckoutSession, reason string) {
	session.FailureReason = reason
	s.transition(ctx, session, models.CheckoutFailed)
}

func (s *CheckoutService) enqueueReceipt(payload ReceiptPayload) {
	if s.queue == nil {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: JobTypeReceiptRender, Payload: payload}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue receipt render", zap.String("session_id", payload.Session.ID), zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
