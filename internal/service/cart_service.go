package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-edge-api/internal/models"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

type cartStore interface {
	FindByUser(ctx context.Context, userID string) (*models.Cart, error)
	FindByID(ctx context.Context, id string) (*models.Cart, error)
	Create(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, cartID string, item models.CartItem) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	Delete(ctx context.Context, cartID string) error
}

type courseGetter interface {
	GetCourse(ctx context.Context, id string) (*models.CourseDetail, error)
}

// AddItemRequest adds one course line to the user's cart. Price and name are
// resolved from the catalog at add time, never trusted from the client.
type AddItemRequest struct {
	CourseID    string            `json:"courseId" validate:"required"`
	AccessType  models.AccessType `json:"for" validate:"required,oneof=individual institution corporate"`
	AssignLimit int               `json:"assignLimit" validate:"omitempty,gte=1"`
	Quantity    int               `json:"quantity" validate:"omitempty,gte=1"`
}

// CartView is the cart response shape with the computed total.
type CartView struct {
	models.Cart
	Total float64 `json:"total"`
}

// CartService manages the gateway-local cart. The cart is created lazily on
// the first add and torn down on clear or successful checkout.
type CartService struct {
	store     cartStore
	catalog   courseGetter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCartService constructs CartService.
func NewCartService(store cartStore, catalog courseGetter, validate *validator.Validate, logger *zap.Logger) *CartService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{store: store, catalog: catalog, validator: validate, logger: logger}
}

// View returns the user's cart. A user without a cart gets an empty view, not
// an error.
func (s *CartService) View(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.store.FindByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return &CartView{Cart: models.Cart{UserID: userID, Items: []models.CartItem{}}}, nil
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cart")
	}
	return &CartView{Cart: *cart, Total: cart.Total()}, nil
}

// AddItem resolves the course's price for the requested access type and adds
// a line to the cart, creating the cart if the user has none.
func (s *CartService) AddItem(ctx context.Context, userID string, req AddItemRequest) (*CartView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cart item")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	course, err := s.catalog.GetCourse(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	option, err := s.priceFor(course, req)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.FindByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		cart, err = s.store.Create(ctx, userID)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cart")
	}

	item := models.CartItem{
		CourseID:    course.ID,
		CourseName:  course.Title,
		CoursePrice: option.Price,
		Quantity:    req.Quantity,
		AccessType:  option.Type,
		AssignLimit: option.AssignLimit,
	}
	if _, err := s.store.AddItem(ctx, cart.ID, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add cart item")
	}
	return s.View(ctx, userID)
}

// UpdateQuantity sets a line's quantity.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "quantity must be at least 1")
	}
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateItemQuantity(ctx, cart.ID, itemID, quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cart item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update cart item")
	}
	return s.View(ctx, userID)
}

// RemoveItem deletes a line from the user's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*CartView, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cart item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove cart item")
	}
	return s.View(ctx, userID)
}

// Clear tears the user's cart down. Clearing a missing cart is a no-op.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	cart, err := s.store.FindByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cart")
	}
	if err := s.store.Delete(ctx, cart.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear cart")
	}
	return nil
}

func (s *CartService) requireCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.store.FindByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "cart not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cart")
	}
	return cart, nil
}

// priceFor selects the pricing option matching the requested access type and
// assign limit. When the assign limit does not match any tier the resolved
// default for that access type applies.
func (s *CartService) priceFor(course *models.CourseDetail, req AddItemRequest) (*models.PricingOption, error) {
	resolution := ResolvePricing(course.Pricing, req.AccessType)
	if resolution.Default == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "course has no pricing and cannot be purchased")
	}
	for i := range resolution.Options {
		option := resolution.Options[i]
		if option.Type == req.AccessType && (req.AssignLimit == 0 || option.AssignLimit == req.AssignLimit) {
			return &option, nil
		}
	}
	return resolution.Default, nil
}
