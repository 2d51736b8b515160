package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-edge-api/internal/models"
)

// CartRepository persists carts in the gateway-local Postgres store. Carts
// used to live in ambient browser state; they are now explicit records
// created on first use and deleted on clear or successful checkout.
type CartRepository struct {
	db *sqlx.DB
}

// NewCartRepository creates a new repository instance.
func NewCartRepository(db *sqlx.DB) *CartRepository {
	return &CartRepository{db: db}
}

// FindByUser returns the user's cart with items, or sql.ErrNoRows when the
// user has no cart yet.
func (r *CartRepository) FindByUser(ctx context.Context, userID string) (*models.Cart, error) {
	const query = `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`
	var cart models.Cart
	if err := r.db.GetContext(ctx, &cart, query, userID); err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

// FindByID returns a cart by its id with items.
func (r *CartRepository) FindByID(ctx context.Context, id string) (*models.Cart, error) {
	const query = `SELECT id, user_id, created_at, updated_at FROM carts WHERE id = $1`
	var cart models.Cart
	if err := r.db.GetContext(ctx, &cart, query, id); err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

// Create inserts an empty cart for the user.
func (r *CartRepository) Create(ctx context.Context, userID string) (*models.Cart, error) {
	now := time.Now().UTC()
	cart := &models.Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	const query = `INSERT INTO carts (id, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, cart.ID, cart.UserID, cart.CreatedAt, cart.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

// AddItem inserts a line into the cart. An existing line for the same course
// and access type has its quantity increased instead.
func (r *CartRepository) AddItem(ctx context.Context, cartID string, item models.CartItem) (*models.CartItem, error) {
	const existingQuery = `SELECT id, cart_id, course_id, course_name, course_price, quantity, access_type, assign_limit FROM cart_items WHERE cart_id = $1 AND course_id = $2 AND access_type = $3`
	var existing models.CartItem
	err := r.db.GetContext(ctx, &existing, existingQuery, cartID, item.CourseID, item.AccessType)
	switch {
	case err == nil:
		existing.Quantity += item.Quantity
		const update = `UPDATE cart_items SET quantity = $1 WHERE id = $2`
		if _, err := r.db.ExecContext(ctx, update, existing.Quantity, existing.ID); err != nil {
			return nil, fmt.Errorf("bump cart item quantity: %w", err)
		}
		if err := r.touch(ctx, cartID); err != nil {
			return nil, err
		}
		return &existing, nil
	case err != sql.ErrNoRows:
		return nil, fmt.Errorf("find cart item: %w", err)
	}

	item.ID = uuid.NewString()
	item.CartID = cartID
	const insert = `INSERT INTO cart_items (id, cart_id, course_id, course_name, course_price, quantity, access_type, assign_limit) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, insert, item.ID, item.CartID, item.CourseID, item.CourseName, item.CoursePrice, item.Quantity, item.AccessType, item.AssignLimit); err != nil {
		return nil, fmt.Errorf("insert cart item: %w", err)
	}
	if err := r.touch(ctx, cartID); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemQuantity sets the quantity of a line.
func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	const query = `UPDATE cart_items SET quantity = $1 WHERE id = $2 AND cart_id = $3`
	result, err := r.db.ExecContext(ctx, query, quantity, itemID, cartID)
	if err != nil {
		return fmt.Errorf("update cart item quantity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cart item quantity: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return r.touch(ctx, cartID)
}

// RemoveItem deletes a line from the cart.
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, itemID string) error {
	const query = `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`
	result, err := r.db.ExecContext(ctx, query, itemID, cartID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return r.touch(ctx, cartID)
}

// Delete tears the cart down entirely, items included.
func (r *CartRepository) Delete(ctx context.Context, cartID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func (r *CartRepository) listItems(ctx context.Context, cartID string) ([]models.CartItem, error) {
	const query = `SELECT id, cart_id, course_id, course_name, course_price, quantity, access_type, assign_limit FROM cart_items WHERE cart_id = $1 ORDER BY course_name`
	items := []models.CartItem{}
	if err := r.db.SelectContext(ctx, &items, query, cartID); err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return items, nil
}

func (r *CartRepository) touch(ctx context.Context, cartID string) error {
	const query = `UPDATE carts SET updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), cartID); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}
