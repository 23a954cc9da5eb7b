package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hostmarket/backend/internal/models"
	"github.com/hostmarket/backend/internal/services"
)

// CreditLedger is the admin-facing side of the credit ledger.
type CreditLedger interface {
	Grant(ctx context.Context, admin *models.User, req services.GrantRequest) (*services.LedgerResult, error)
	Deduct(ctx context.Context, admin *models.User, req services.DeductRequest) (*services.LedgerResult, error)
	Refund(ctx context.Context, admin *models.User, req services.RefundRequest) (*services.LedgerResult, error)
	GetHistory(ctx context.Context, userID int64, p services.Pagination) (*models.Page[models.CreditTransaction], error)
	ListUsers(ctx context.Context, search string, p services.Pagination) (*models.Page[models.User], error)
	Statistics(ctx context.Context) (*models.CreditStatistics, error)
}

type AdminCreditHandler struct {
	ledger CreditLedger
	session
}

func NewAdminCreditHandler(ledger CreditLedger, users services.UserDirectory) *AdminCreditHandler {
	return &AdminCreditHandler{ledger: ledger, session: newSession(users)}
}

// ListUsers lists users with their credit balances
// @Summary List users with credits
// @Description Users ordered by credit balance, optionally filtered by email or username
// @Tags Admin Credits
// @Produce json
// @Security BearerAuth
// @Param search query string false "Email or username filter"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} models.Page[models.User]
// @Failure 403 {object} services.ErrorResponse
// @Router /admin/credits/users [get]
func (h *AdminCreditHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentAdmin(w, r); !ok {
		return
	}

	page, err := h.ledger.ListUsers(r.Context(), r.URL.Query().Get("search"), pagination(r))
	if err != nil {
		services.SendServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Transactions returns a user's credit history
// @Summary User credit history
// @Description Ledger entries for a user, newest first
// @Tags Admin Credits
// @Produce json
// @Security BearerAuth
// @Param userID path int true "User ID"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} models.Page[models.CreditTransaction]
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/credits/users/{userID}/transactions [get]
func (h *AdminCreditHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentAdmin(w, r); !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	page, err := h.ledger.GetHistory(r.Context(), userID, pagination(r))
	if err != nil {
		services.SendServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Grant adds credits to a user
// @Summary Grant credits
// @Description Credit a user's balance on behalf of the acting admin
// @Tags Admin Credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.GrantRequest true "Grant request"
// @Success 200 {object} object{success=bool,message=string,transaction=models.CreditTransaction,new_balance=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /admin/credits/grant [post]
func (h *AdminCreditHandler) Grant(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.currentAdmin(w, r)
	if !ok {
		return
	}

	var req services.GrantRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.ledger.Grant(r.Context(), admin, req)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	h.respond(w, fmt.Sprintf("Granted $%s credits.", req.Amount.StringFixed(2)), result)
}

// Deduct removes credits from a user
// @Summary Deduct credits
// @Description Debit a user's balance on behalf of the acting admin
// @Tags Admin Credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.DeductRequest true "Deduct request"
// @Success 200 {object} object{success=bool,message=string,transaction=models.CreditTransaction,new_balance=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /admin/credits/deduct [post]
func (h *AdminCreditHandler) Deduct(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.currentAdmin(w, r)
	if !ok {
		return
	}

	var req services.DeductRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.ledger.Deduct(r.Context(), admin, req)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	h.respond(w, fmt.Sprintf("Deducted $%s credits.", req.Amount.StringFixed(2)), result)
}

// Refund returns credits to a user
// @Summary Refund credits
// @Description Credit a user back, optionally against an order paid with credits
// @Tags Admin Credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.RefundRequest true "Refund request"
// @Success 200 {object} object{success=bool,message=string,transaction=models.CreditTransaction,new_balance=string}
// @Failure 400 {object} services.ErrorResponse
// @Router /admin/credits/refund [post]
func (h *AdminCreditHandler) Refund(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.currentAdmin(w, r)
	if !ok {
		return
	}

	var req services.RefundRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.ledger.Refund(r.Context(), admin, req)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	h.respond(w, fmt.Sprintf("Refunded $%s credits.", req.Amount.StringFixed(2)), result)
}

// Statistics reports credit totals
// @Summary Credit statistics
// @Description Credits in circulation and the last 30 days of grants and usage
// @Tags Admin Credits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CreditStatistics
// @Failure 403 {object} services.ErrorResponse
// @Router /admin/credits/statistics [get]
func (h *AdminCreditHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentAdmin(w, r); !ok {
		return
	}

	stats, err := h.ledger.Statistics(r.Context())
	if err != nil {
		services.SendServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminCreditHandler) respond(w http.ResponseWriter, message string, result *services.LedgerResult) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     message,
		"transaction": result.Transaction,
		"new_balance": result.NewBalance.StringFixed(2),
	})
}
