package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostmarket/backend/internal/audit"
	"github.com/hostmarket/backend/internal/config"
	"github.com/hostmarket/backend/internal/models"
	"github.com/shopspring/decimal"
)

// LedgerOp is the kind of balance mutation. Each op fixes the sign of the
// stored amount and the type column it is recorded under.
type LedgerOp int

const (
	OpGrant LedgerOp = iota + 1
	OpDeduct
	OpPurchase
	OpRefund
	OpPayment
)

func (op LedgerOp) String() string {
	switch op {
	case OpGrant:
		return "grant"
	case OpDeduct:
		return "deduct"
	case OpPurchase:
		return "purchase"
	case OpRefund:
		return "refund"
	case OpPayment:
		return "payment"
	}
	return fmt.Sprintf("LedgerOp(%d)", int(op))
}

// StoredType is the type column value. Manual deductions share the
// admin_grant bucket with grants and are told apart by sign.
func (op LedgerOp) StoredType() models.TransactionType {
	switch op {
	case OpGrant, OpDeduct:
		return models.TransactionTypeAdminGrant
	case OpPurchase:
		return models.TransactionTypePurchase
	case OpRefund:
		return models.TransactionTypeRefund
	default:
		return models.TransactionTypePayment
	}
}

// Signed applies the op's direction to a positive magnitude.
func (op LedgerOp) Signed(amount decimal.Decimal) decimal.Decimal {
	switch op {
	case OpGrant, OpRefund:
		return amount.Abs()
	default:
		return amount.Abs().Neg()
	}
}

type GrantRequest struct {
	UserID      int64                    `json:"user_id" validate:"required,gt=0"`
	Amount      decimal.Decimal          `json:"amount" validate:"required,gte=0.01,lte=10000"`
	Reason      models.TransactionReason `json:"reason" validate:"required,oneof=giveaway refund gift"`
	Description string                   `json:"description" validate:"max=500"`
}

type DeductRequest struct {
	UserID      int64           `json:"user_id" validate:"required,gt=0"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gte=0.01"`
	Reason      string          `json:"reason" validate:"max=191"`
	Description string          `json:"description" validate:"max=500"`
}

type RefundRequest struct {
	UserID      int64           `json:"user_id" validate:"required,gt=0"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gte=0.01,lte=10000"`
	OrderID     *int64          `json:"order_id,omitempty" validate:"omitempty,gt=0"`
	Description string          `json:"description" validate:"max=500"`
}

// LedgerResult is returned by every balance mutation.
type LedgerResult struct {
	Transaction *models.CreditTransaction `json:"transaction"`
	NewBalance  decimal.Decimal           `json:"new_balance"`
}

// CreditApplication describes credits spent toward an order at checkout.
type CreditApplication struct {
	OrderNumber      string                    `json:"order_number"`
	Total            decimal.Decimal           `json:"total"`
	CreditsUsed      decimal.Decimal           `json:"credits_used"`
	RemainingAmount  decimal.Decimal           `json:"remaining_amount"`
	RemainingCredits decimal.Decimal           `json:"remaining_credits"`
	Transaction      *models.CreditTransaction `json:"transaction"`
}

// Pagination is a 1-based page request.
type Pagination struct {
	Page    int
	PerPage int
}

func (p Pagination) normalize(cfg *config.BillingConfig) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = cfg.PageSize
	}
	if p.PerPage > cfg.MaxPageSize {
		p.PerPage = cfg.MaxPageSize
	}
	return p
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.PerPage
}

type ledgerMutation struct {
	op          LedgerOp
	userID      int64
	amount      decimal.Decimal
	reason      *models.TransactionReason
	description *string
	orderID     *int64
	admin       *models.User
}

// CreditLedgerService owns users.credits and the credit_transactions log.
// Every mutation locks the user's row so concurrent mutations serialize and
// balance_after always equals the running sum.
type CreditLedgerService struct {
	db      *sql.DB
	orders  OrderDirectory
	audit   *audit.Logger
	config  *config.BillingConfig
	now     func() time.Time
	newUUID func() string
}

func NewCreditLedgerService(db *sql.DB, orders OrderDirectory, cfg *config.BillingConfig) *CreditLedgerService {
	return &CreditLedgerService{
		db:      db,
		orders:  orders,
		audit:   audit.NewLogger(),
		config:  cfg,
		now:     time.Now,
		newUUID: uuid.NewString,
	}
}

// Grant credits a user on behalf of an admin.
func (s *CreditLedgerService) Grant(ctx context.Context, admin *models.User, req GrantRequest) (*LedgerResult, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if err := s.checkAmount(req.Amount, true); err != nil {
		return nil, err
	}
	switch req.Reason {
	case models.ReasonGiveaway, models.ReasonRefund, models.ReasonGift:
	default:
		return nil, validationError("The reason must be one of giveaway, refund, gift.")
	}
	if len(req.Description) > 500 {
		return nil, validationError("The description may not be greater than 500 characters.")
	}

	reason := req.Reason
	return s.apply(ctx, &ledgerMutation{
		op:          OpGrant,
		userID:      req.UserID,
		amount:      req.Amount,
		reason:      &reason,
		description: optionalString(req.Description),
		admin:       admin,
	}, nil)
}

// Deduct debits a user on behalf of an admin. A reason that is not one of
// the stored reason values is kept as the description and recorded as other.
func (s *CreditLedgerService) Deduct(ctx context.Context, admin *models.User, req DeductRequest) (*LedgerResult, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if err := s.checkAmount(req.Amount, false); err != nil {
		return nil, err
	}
	if len(req.Description) > 500 {
		return nil, validationError("The description may not be greater than 500 characters.")
	}

	reason := models.ReasonOther
	description := req.Description
	if candidate := models.TransactionReason(strings.ToLower(strings.TrimSpace(req.Reason))); candidate.Valid() {
		reason = candidate
	} else if description == "" {
		description = req.Reason
	}

	return s.apply(ctx, &ledgerMutation{
		op:          OpDeduct,
		userID:      req.UserID,
		amount:      req.Amount,
		reason:      &reason,
		description: optionalString(description),
		admin:       admin,
	}, nil)
}

// Refund credits a user back, optionally against an order. An order-linked
// refund may not exceed the credits that order was paid with.
func (s *CreditLedgerService) Refund(ctx context.Context, admin *models.User, req RefundRequest) (*LedgerResult, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if err := s.checkAmount(req.Amount, true); err != nil {
		return nil, err
	}

	description := req.Description
	if req.OrderID != nil {
		order, err := s.orders.OrderByID(ctx, *req.OrderID)
		if err != nil {
			return nil, err
		}
		if order.UserID != req.UserID {
			return nil, validationError("The order does not belong to this user.")
		}
		if description == "" {
			description = fmt.Sprintf("Refund for order %s", order.OrderNumber)
		}
	}

	reason := models.ReasonRefund
	m := &ledgerMutation{
		op:          OpRefund,
		userID:      req.UserID,
		amount:      req.Amount,
		reason:      &reason,
		description: optionalString(description),
		orderID:     req.OrderID,
		admin:       admin,
	}

	var guard func(context.Context, *sql.Tx, decimal.Decimal) error
	if req.OrderID != nil {
		guard = func(ctx context.Context, tx *sql.Tx, _ decimal.Decimal) error {
			paid, err := s.creditsPaidForOrder(ctx, tx, *req.OrderID)
			if err != nil {
				return err
			}
			if req.Amount.GreaterThan(paid) {
				return validationError("The refund exceeds the %s credits paid for this order.", paid.StringFixed(2))
			}
			return nil
		}
	}

	return s.apply(ctx, m, guard)
}

// DebitForPurchase spends credits toward an order. The caller clamps amount
// to min(balance, order total); an amount above the balance still fails.
func (s *CreditLedgerService) DebitForPurchase(ctx context.Context, userID int64, amount decimal.Decimal, order *models.Order) (*LedgerResult, error) {
	if order == nil {
		return nil, validationError("An order is required.")
	}
	if err := s.checkAmount(amount, false); err != nil {
		return nil, err
	}
	return s.apply(ctx, paymentMutation(userID, amount, order), nil)
}

// ApplyCreditsToOrder spends as much of the user's balance as the unpaid
// part of the order allows. The clamp is computed under the balance lock.
func (s *CreditLedgerService) ApplyCreditsToOrder(ctx context.Context, user *models.User, orderID int64) (*CreditApplication, error) {
	order, err := s.orders.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != user.ID {
		return nil, unauthorizedError("Unauthorized")
	}

	m := paymentMutation(user.ID, decimal.Zero, order)
	var remaining decimal.Decimal

	result, err := s.apply(ctx, m, func(ctx context.Context, tx *sql.Tx, balance decimal.Decimal) error {
		paid, err := s.creditsPaidForOrder(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		remaining = order.Total.Sub(paid)
		if !remaining.IsPositive() {
			return validationError("This order has already been paid with credits.")
		}
		if !balance.IsPositive() {
			return validationError("You have no credits available.")
		}
		m.amount = decimal.Min(balance, remaining)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CHECKOUT] Applied %s credits to order %s for user %d", m.amount.StringFixed(2), order.OrderNumber, user.ID)

	return &CreditApplication{
		OrderNumber:      order.OrderNumber,
		Total:            order.Total,
		CreditsUsed:      m.amount,
		RemainingAmount:  remaining.Sub(m.amount),
		RemainingCredits: result.NewBalance,
		Transaction:      result.Transaction,
	}, nil
}

func paymentMutation(userID int64, amount decimal.Decimal, order *models.Order) *ledgerMutation {
	reason := models.ReasonPayment
	orderID := order.ID
	return &ledgerMutation{
		op:          OpPayment,
		userID:      userID,
		amount:      amount,
		reason:      &reason,
		description: optionalString(fmt.Sprintf("Payment for order %s", order.OrderNumber)),
		orderID:     &orderID,
	}
}

// apply runs one mutation in a single transaction: lock the balance, run the
// optional guard, append the entry, update the balance, commit.
func (s *CreditLedgerService) apply(ctx context.Context, m *ledgerMutation, guard func(context.Context, *sql.Tx, decimal.Decimal) error) (*LedgerResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("[LEDGER] Failed to begin transaction: %v", err)
		return nil, internalError(err, "Failed to process credit transaction")
	}
	defer tx.Rollback()

	balance, err := s.lockBalance(ctx, tx, m.userID)
	if err != nil {
		return nil, err
	}

	if guard != nil {
		if err := guard(ctx, tx, balance); err != nil {
			return nil, internalError(err, "Failed to process credit transaction")
		}
	}

	signed := m.op.Signed(m.amount)
	newBalance := balance.Add(signed)
	if newBalance.IsNegative() {
		log.Printf("[LEDGER] Insufficient credits for user %d: balance %s, requested %s", m.userID, balance.StringFixed(2), m.amount.StringFixed(2))
		return nil, ErrInsufficientFunds
	}

	entry := &models.CreditTransaction{
		UUID:         s.newUUID(),
		UserID:       m.userID,
		Amount:       signed,
		BalanceAfter: newBalance,
		Type:         m.op.StoredType(),
		Reason:       m.reason,
		Description:  m.description,
		OrderID:      m.orderID,
		CreatedAt:    s.now(),
	}
	if m.admin != nil {
		adminID := m.admin.ID
		entry.AdminID = &adminID
		entry.Metadata = models.Metadata{
			"admin_email":    m.admin.Email,
			"admin_username": m.admin.Username,
		}
	}

	if err := s.createLedgerEntry(ctx, tx, entry); err != nil {
		log.Printf("[LEDGER] Failed to record %s for user %d: %v", m.op, m.userID, err)
		s.audit.LogError("LEDGER_"+strings.ToUpper(m.op.String()), entry.UUID, err)
		return nil, internalError(err, "Failed to record credit transaction")
	}

	if err := s.updateBalance(ctx, tx, m.userID, newBalance); err != nil {
		log.Printf("[LEDGER] Failed to update balance for user %d: %v", m.userID, err)
		s.audit.LogError("LEDGER_"+strings.ToUpper(m.op.String()), entry.UUID, err)
		return nil, internalError(err, "Failed to update credit balance")
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[LEDGER] Failed to commit %s for user %d: %v", m.op, m.userID, err)
		return nil, internalError(err, "Failed to process credit transaction")
	}

	s.audit.LogLedgerEntry(entry)
	log.Printf("[LEDGER] %s of %s for user %d committed, balance %s", m.op, m.amount.StringFixed(2), m.userID, newBalance.StringFixed(2))

	return &LedgerResult{Transaction: entry, NewBalance: newBalance}, nil
}

func (s *CreditLedgerService) lockBalance(ctx context.Context, tx *sql.Tx, userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx, `SELECT credits FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, notFoundError("User not found")
	}
	if err != nil {
		return decimal.Zero, internalError(err, "Failed to lock credit balance")
	}
	return balance, nil
}

func (s *CreditLedgerService) createLedgerEntry(ctx context.Context, tx *sql.Tx, entry *models.CreditTransaction) error {
	return tx.QueryRowContext(ctx, `
		INSERT INTO credit_transactions (uuid, user_id, admin_id, amount, balance_after, type, reason, description, order_id, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING id`,
		entry.UUID, entry.UserID, entry.AdminID, entry.Amount, entry.BalanceAfter, entry.Type,
		entry.Reason, entry.Description, entry.OrderID, entry.Metadata, entry.CreatedAt).Scan(&entry.ID)
}

func (s *CreditLedgerService) updateBalance(ctx context.Context, tx *sql.Tx, userID int64, balance decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `UPDATE users SET credits = $1, updated_at = $2 WHERE id = $3`, balance, s.now(), userID)
	return err
}

// creditsPaidForOrder is the net amount of credits spent on an order:
// payments minus refunds already issued against it.
func (s *CreditLedgerService) creditsPaidForOrder(ctx context.Context, tx *sql.Tx, orderID int64) (decimal.Decimal, error) {
	var net decimal.Decimal
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM credit_transactions
		WHERE order_id = $1 AND type IN ('payment', 'refund')`, orderID).Scan(&net)
	if err != nil {
		return decimal.Zero, internalError(err, "Failed to load order credits")
	}
	return net.Neg(), nil
}

// checkAmount enforces a positive, cent-precision amount, bounded above by
// the grant limit when capped is set.
func (s *CreditLedgerService) checkAmount(amount decimal.Decimal, capped bool) error {
	if !amount.Equal(amount.Round(2)) {
		return validationError("The amount may not have more than two decimal places.")
	}
	if amount.LessThan(s.config.MinGrantAmount) {
		return validationError("The amount must be at least %s.", s.config.MinGrantAmount.StringFixed(2))
	}
	if capped && amount.GreaterThan(s.config.MaxGrantAmount) {
		return validationError("The amount may not be greater than %s.", s.config.MaxGrantAmount.StringFixed(2))
	}
	return nil
}

func requireAdmin(admin *models.User) error {
	if admin == nil || !admin.RootAdmin {
		return unauthorizedError("Admin access required")
	}
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
