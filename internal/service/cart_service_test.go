package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-edge-api/internal/models"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

type memoryCartStore struct {
	carts map[string]*models.Cart
	seq   int
}

func newMemoryCartStore() *memoryCartStore {
	return &memoryCartStore{carts: map[string]*models.Cart{}}
}

func (m *memoryCartStore) FindByUser(_ context.Context, userID string) (*models.Cart, error) {
	for _, cart := range m.carts {
		if cart.UserID == userID {
			clone := *cart
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryCartStore) FindByID(_ context.Context, id string) (*models.Cart, error) {
	cart, ok := m.carts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *cart
	return &clone, nil
}

func (m *memoryCartStore) Create(_ context.Context, userID string) (*models.Cart, error) {
	m.seq++
	cart := &models.Cart{ID: "cart-" + userID, UserID: userID, Items: []models.CartItem{}}
	m.carts[cart.ID] = cart
	return cart, nil
}

func (m *memoryCartStore) AddItem(_ context.Context, cartID string, item models.CartItem) (*models.CartItem, error) {
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	for i := range cart.Items {
		if cart.Items[i].CourseID == item.CourseID && cart.Items[i].AccessType == item.AccessType {
			cart.Items[i].Quantity += item.Quantity
			return &cart.Items[i], nil
		}
	}
	m.seq++
	item.ID = "item-" + item.CourseID
	item.CartID = cartID
	cart.Items = append(cart.Items, item)
	return &item, nil
}

func (m *memoryCartStore) UpdateItemQuantity(_ context.Context, cartID, itemID string, quantity int) error {
	cart, ok := m.carts[cartID]
	if !ok {
		return sql.ErrNoRows
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memoryCartStore) RemoveItem(_ context.Context, cartID, itemID string) error {
	cart, ok := m.carts[cartID]
	if !ok {
		return sql.ErrNoRows
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memoryCartStore) Delete(_ context.Context, cartID string) error {
	delete(m.carts, cartID)
	return nil
}

type fakeCourseGetter struct {
	courses map[string]*models.CourseDetail
}

func (f *fakeCourseGetter) GetCourse(_ context.Context, id string) (*models.CourseDetail, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return course, nil
}

func pricedCourse(id string, price float64) *models.CourseDetail {
	return &models.CourseDetail{
		Course: models.Course{
			ID:    id,
			Title: "Course " + id,
			Pricing: models.CoursePricing{
				Individual: &models.PricingTier{AssignLimit: 1, Price: price},
			},
		},
	}
}

func newCartFixture() (*CartService, *memoryCartStore) {
	store := newMemoryCartStore()
	catalog := &fakeCourseGetter{courses: map[string]*models.CourseDetail{
		"c1": pricedCourse("c1", 100),
		"c2": pricedCourse("c2", 50),
	}}
	return NewCartService(store, catalog, nil, nil), store
}

func TestCartViewWithoutCartIsEmpty(t *testing.T) {
	svc, _ := newCartFixture()
	view, err := svc.View(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0.0, view.Total)
}

func TestCartTotalSumsPriceTimesQuantity(t *testing.T) {
	svc, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", AddItemRequest{CourseID: "c1", AccessType: models.AccessIndividual, Quantity: 2})
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, "user-1", AddItemRequest{CourseID: "c2", AccessType: models.AccessIndividual, Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, 250.0, view.Total)
	assert.Len(t, view.Items, 2)
}

func TestCartAddSameCourseBumpsQuantity(t *testing.T) {
	svc, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", AddItemRequest{CourseID: "c1", AccessType: models.AccessIndividual})
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, "user-1", AddItemRequest{CourseID: "c1", AccessType: models.AccessIndividual})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 200.0, view.Total)
}

func TestCartAddUnpricedCourseRejected(t *testing.T) {
	store := newMemoryCartStore()
	catalog := &fakeCourseGetter{courses: map[string]*models.CourseDetail{
		"free": {Course: models.Course{ID: "free", Title: "Unpriced"}},
	}}
	svc := NewCartService(store, catalog, nil, nil)

	_, err := svc.AddItem(context.Background(), "user-1", AddItemRequest{CourseID: "free", AccessType: models.AccessIndividual})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestCartRemoveMissingItem(t *testing.T) {
	svc, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", AddItemRequest{CourseID: "c1", AccessType: models.AccessIndividual})
	require.NoError(t, err)

	_, err = svc.RemoveItem(ctx, "user-1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCartClearIsIdempotent(t *testing.T) {
	svc, store := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", AddItemRequest{CourseID: "c1", AccessType: models.AccessIndividual})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "user-1"))
	require.NoError(t, svc.Clear(ctx, "user-1"))
	assert.Empty(t, store.carts)
}
