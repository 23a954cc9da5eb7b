package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvitationStatus is the stored status of a billing invitation.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationDeclined  InvitationStatus = "declined"
	InvitationExpired   InvitationStatus = "expired"
	InvitationCancelled InvitationStatus = "cancelled"
)

// ShareStatus is the stored status of a billing share.
type ShareStatus string

const (
	ShareActive    ShareStatus = "active"
	SharePending   ShareStatus = "pending"
	ShareCancelled ShareStatus = "cancelled"
)

// BillingInvitation proposes that the invitee co-pays a server.
// The token authorizes exactly one terminal transition.
type BillingInvitation struct {
	ID              int64            `json:"-" db:"id"`
	UUID            string           `json:"uuid" db:"uuid"`
	Token           string           `json:"token,omitempty" db:"token"`
	ServerID        int64            `json:"server_id" db:"server_id"`
	InviterID       int64            `json:"inviter_id" db:"inviter_id"`
	InviteeEmail    string           `json:"invitee_email" db:"invitee_email"`
	InviteeUserID   *int64           `json:"invitee_user_id,omitempty" db:"invitee_user_id"`
	SharePercentage decimal.Decimal  `json:"share_percentage" db:"share_percentage"`
	Status          InvitationStatus `json:"status" db:"status"`
	Message         *string          `json:"message" db:"message"`
	ExpiresAt       time.Time        `json:"expires_at" db:"expires_at"`
	AcceptedAt      *time.Time       `json:"accepted_at,omitempty" db:"accepted_at"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`

	Server  *ServerSummary `json:"server,omitempty"`
	Inviter *UserSummary   `json:"inviter,omitempty"`
}

// IsExpired reports whether the invitation's expiry has passed at now.
func (i *BillingInvitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsActionable reports whether the invitation can still be accepted,
// declined or cancelled. A stored pending status is only truthful while
// the invitation is unexpired.
func (i *BillingInvitation) IsActionable(now time.Time) bool {
	return i.Status == InvitationPending && !i.IsExpired(now)
}

// EffectiveStatus is the stored status with expiry applied.
func (i *BillingInvitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationPending && i.IsExpired(now) {
		return InvitationExpired
	}
	return i.Status
}

// ServerBillingShare is one user's percentage of a server's recurring cost.
type ServerBillingShare struct {
	ID              int64           `json:"id" db:"id"`
	ServerID        int64           `json:"server_id" db:"server_id"`
	UserID          int64           `json:"user_id" db:"user_id"`
	SharePercentage decimal.Decimal `json:"share_percentage" db:"share_percentage"`
	Status          ShareStatus     `json:"status" db:"status"`
	HasServerAccess bool            `json:"has_server_access" db:"has_server_access"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	User *UserSummary `json:"user,omitempty"`
}

// ChargeFor apportions totalAmount according to the share percentage.
func (s *ServerBillingShare) ChargeFor(totalAmount decimal.Decimal) decimal.Decimal {
	return totalAmount.Mul(s.SharePercentage).Div(decimal.NewFromInt(100))
}
