package handlers

import (
	"context"
	"net/http"

	"github.com/hostmarket/backend/internal/models"
	"github.com/hostmarket/backend/internal/services"
)

type CreditCheckout interface {
	ApplyCreditsToOrder(ctx context.Context, user *models.User, orderID int64) (*services.CreditApplication, error)
}

type CheckoutHandler struct {
	checkout CreditCheckout
	session
}

func NewCheckoutHandler(checkout CreditCheckout, users services.UserDirectory) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, session: newSession(users)}
}

// ApplyCredits pays an order with account credits
// @Summary Apply credits to an order
// @Description Spend as much of the caller's balance as the unpaid order total allows
// @Tags Checkout
// @Produce json
// @Security BearerAuth
// @Param orderID path int true "Order ID"
// @Success 200 {object} services.CreditApplication
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /orders/{orderID}/credits [post]
func (h *CheckoutHandler) ApplyCredits(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}

	app, err := h.checkout.ApplyCreditsToOrder(r.Context(), user, orderID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"message":           "Credits applied to order " + app.OrderNumber,
		"credits_used":      app.CreditsUsed.StringFixed(2),
		"remaining_amount":  app.RemainingAmount.StringFixed(2),
		"remaining_credits": app.RemainingCredits.StringFixed(2),
		"transaction":       app.Transaction,
	})
}
