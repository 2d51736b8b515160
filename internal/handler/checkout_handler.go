package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/service"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/response"
)

// CheckoutHandler exposes the staged checkout flow and receipt downloads.
type CheckoutHandler struct {
	checkout *service.CheckoutService
	receipts *service.ReceiptService
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(checkout *service.CheckoutService, receipts *service.ReceiptService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, receipts: receipts}
}

// Start godoc
// @Summary Start a cart checkout
// @Tags Checkout
// @Accept json
// @Produce json
// @Param payload body handler.startCheckoutRequest false "Purchasing user details"
// @Success 202 {object} response.Envelope
// @Router /checkout [post]
func (h *CheckoutHandler) Start(c *gin.Context) {
	var req startCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	claims := claimsFromContext(c)
	details := models.UserDetails{UserID: claims.UserID, Email: claims.Email}
	if req.Name != "" {
		details.Name = req.Name
	}

	session, err := h.checkout.StartEnrollment(c.Request.Context(), claims.UserID, details)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, session, nil)
}

// StartSubscription godoc
// @Summary Start a subscription checkout
// @Tags Checkout
// @Accept json
// @Produce json
// @Param payload body handler.startSubscriptionRequest true "Plan reference"
// @Success 202 {object} response.Envelope
// @Router /checkout/subscription [post]
func (h *CheckoutHandler) StartSubscription(c *gin.Context) {
	var req startSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.checkout.StartSubscription(c.Request.Context(), currentUserID(c), req.SubscriptionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, session, nil)
}

// Status godoc
// @Summary Poll a checkout session
// @Tags Checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /checkout/{id} [get]
func (h *CheckoutHandler) Status(c *gin.Context) {
	session, err := h.checkout.Status(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// DownloadReceipt godoc
// @Summary Download a receipt by signed token
// @Tags Checkout
// @Produce application/pdf
// @Param token path string true "Signed receipt token"
// @Success 200
// @Router /receipts/{token} [get]
func (h *CheckoutHandler) DownloadReceipt(c *gin.Context) {
	file, err := h.receipts.OpenByToken(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", "attachment; filename=receipt.pdf")
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}

type startCheckoutRequest struct {
	Name string `json:"name"`
}

type startSubscriptionRequest struct {
	SubscriptionID string `json:"subscription_id" binding:"required"`
}
