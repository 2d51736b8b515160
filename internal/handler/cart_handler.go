package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-edge-api/internal/service"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/response"
)

// CartHandler exposes the authenticated user's cart.
type CartHandler struct {
	carts *service.CartService
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// View godoc
// @Summary Get the current cart
// @Tags Cart
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cart [get]
func (h *CartHandler) View(c *gin.Context) {
	view, err := h.carts.View(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// AddItem godoc
// @Summary Add a course to the cart
// @Tags Cart
// @Accept json
// @Produce json
// @Param payload body service.AddItemRequest true "Cart item"
// @Success 201 {object} response.Envelope
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req service.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.carts.AddItem(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// UpdateItem godoc
// @Summary Change a cart line's quantity
// @Tags Cart
// @Accept json
// @Produce json
// @Param itemId path string true "Cart item ID"
// @Param payload body handler.updateQuantityRequest true "Quantity"
// @Success 200 {object} response.Envelope
// @Router /cart/items/{itemId} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.carts.UpdateQuantity(c.Request.Context(), currentUserID(c), c.Param("itemId"), req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// RemoveItem godoc
// @Summary Remove a cart line
// @Tags Cart
// @Produce json
// @Param itemId path string true "Cart item ID"
// @Success 200 {object} response.Envelope
// @Router /cart/items/{itemId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.carts.RemoveItem(c.Request.Context(), currentUserID(c), c.Param("itemId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Clear godoc
// @Summary Empty the cart
// @Tags Cart
// @Success 204
// @Router /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}
