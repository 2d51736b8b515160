package models

import "time"

// CartItem is one course line in a user's cart. JSON keys follow the
// storefront contract.
type CartItem struct {
	ID          string     `db:"id" json:"id"`
	CartID      string     `db:"cart_id" json:"-"`
	CourseID    string     `db:"course_id" json:"courseId"`
	CourseName  string     `db:"course_name" json:"courseName"`
	CoursePrice float64    `db:"course_price" json:"coursePrice"`
	Quantity    int        `db:"quantity" json:"quantity"`
	AccessType  AccessType `db:"access_type" json:"for"`
	AssignLimit int        `db:"assign_limit" json:"assignLimit"`
}

// Cart is the gateway-local shopping cart, scoped to one user. It is created
// on first use and torn down on explicit clear or successful checkout.
type Cart struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Total sums price times quantity across all lines. No tax, discount or
// currency conversion applies.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.CoursePrice * float64(item.Quantity)
	}
	return total
}
