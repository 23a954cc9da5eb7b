package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the stored type column of a credit transaction.
type TransactionType string

const (
	TransactionTypeAdminGrant TransactionType = "admin_grant"
	TransactionTypePurchase   TransactionType = "purchase"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypePayment    TransactionType = "payment"
)

// TransactionReason is the optional categorisation of a credit transaction.
type TransactionReason string

const (
	ReasonGiveaway TransactionReason = "giveaway"
	ReasonRefund   TransactionReason = "refund"
	ReasonGift     TransactionReason = "gift"
	ReasonPurchase TransactionReason = "purchase"
	ReasonPayment  TransactionReason = "payment"
	ReasonOther    TransactionReason = "other"
)

// Valid reports whether r is one of the stored reason values.
func (r TransactionReason) Valid() bool {
	switch r {
	case ReasonGiveaway, ReasonRefund, ReasonGift, ReasonPurchase, ReasonPayment, ReasonOther:
		return true
	}
	return false
}

// CreditTransaction is one immutable entry of a user's credit ledger.
// Amount is signed: positive credits the balance, negative debits it.
type CreditTransaction struct {
	ID           int64              `json:"-" db:"id"`
	UUID         string             `json:"uuid" db:"uuid"`
	UserID       int64              `json:"user_id" db:"user_id"`
	AdminID      *int64             `json:"admin_id,omitempty" db:"admin_id"`
	Amount       decimal.Decimal    `json:"amount" db:"amount"`
	BalanceAfter decimal.Decimal    `json:"balance_after" db:"balance_after"`
	Type         TransactionType    `json:"type" db:"type"`
	Reason       *TransactionReason `json:"reason" db:"reason"`
	Description  *string            `json:"description" db:"description"`
	OrderID      *int64             `json:"order_id,omitempty" db:"order_id"`
	Metadata     Metadata           `json:"metadata,omitempty" db:"metadata"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`

	User  *UserSummary `json:"user,omitempty"`
	Admin *UserSummary `json:"admin,omitempty"`
}

// IsCredit reports whether the entry increased the balance.
func (t *CreditTransaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// IsDebit reports whether the entry decreased the balance.
func (t *CreditTransaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// FormattedAmount renders the amount as "+$25.00" / "$10.00".
func (t *CreditTransaction) FormattedAmount() string {
	prefix := ""
	if t.Amount.IsPositive() {
		prefix = "+"
	}
	return prefix + "$" + t.Amount.Abs().StringFixed(2)
}

// CreditStatistics is the aggregate view shown on the admin credits page.
type CreditStatistics struct {
	TotalCreditsInCirculation decimal.Decimal     `json:"total_credits_in_circulation"`
	UsersWithCredits          int64               `json:"users_with_credits"`
	TotalUsers                int64               `json:"total_users"`
	CreditsGranted30Days      decimal.Decimal     `json:"credits_granted_30_days"`
	CreditsUsed30Days         decimal.Decimal     `json:"credits_used_30_days"`
	RecentTransactions        []CreditTransaction `json:"recent_transactions"`
}
