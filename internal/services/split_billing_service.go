package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
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

// shareLockClass namespaces the advisory locks that serialize changes to a
// server's share set.
const shareLockClass = 7301

var hundred = decimal.NewFromInt(100)

type InviteRequest struct {
	Email   string `json:"email" validate:"required,email,max=191"`
	Message string `json:"message" validate:"max=500"`
}

// AcceptResult is returned to the invitee after joining a server's billing.
type AcceptResult struct {
	Server          *models.ServerSummary `json:"server"`
	SharePercentage decimal.Decimal       `json:"share_percentage"`
}

// SplitBillingService drives the billing invitation lifecycle and keeps each
// server's share set at one owner plus at most one co-payer, summing to 100.
type SplitBillingService struct {
	db        *sql.DB
	users     UserDirectory
	servers   ServerDirectory
	notifier  Notifier
	limiter   RateLimiter
	validator *ValidationHelper
	audit     *audit.Logger
	config    *config.BillingConfig
	now       func() time.Time
	newUUID   func() string
	newToken  func() (string, error)
}

func NewSplitBillingService(db *sql.DB, users UserDirectory, servers ServerDirectory, notifier Notifier, limiter RateLimiter, cfg *config.BillingConfig) *SplitBillingService {
	return &SplitBillingService{
		db:        db,
		users:     users,
		servers:   servers,
		notifier:  notifier,
		limiter:   limiter,
		validator: NewValidationHelper(),
		audit:     audit.NewLogger(),
		config:    cfg,
		now:       time.Now,
		newUUID:   uuid.NewString,
		newToken:  generateInvitationToken,
	}
}

// SendInvitation invites an email address to co-pay a server the inviter owns.
// The mail notice goes out after commit and its failure is only logged.
func (s *SplitBillingService) SendInvitation(ctx context.Context, serverID int64, inviter *models.User, req InviteRequest) (*models.BillingInvitation, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.ValidateVar(email, "required,email,max=191"); err != nil {
		return nil, validationError("A valid email address is required.")
	}
	if len(req.Message) > 500 {
		return nil, validationError("The message may not be greater than 500 characters.")
	}

	server, err := s.servers.ServerByID(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if server.OwnerID != inviter.ID {
		return nil, unauthorizedError("Only the server owner can invite users to split billing.")
	}
	if strings.EqualFold(email, inviter.Email) {
		return nil, validationError("You cannot invite yourself.")
	}

	key := fmt.Sprintf("billing:invite:%d", inviter.ID)
	allowed, err := s.limiter.Allow(ctx, key, s.config.MaxInvitesPerInviter, s.config.InviteRateLimitWindow)
	if err != nil {
		log.Printf("[SPLIT_BILLING] Rate limiter unavailable for user %d: %v", inviter.ID, err)
	} else if !allowed {
		return nil, conflictError("Too many invitations sent. Please try again later.")
	}

	invitee, err := s.users.UserByEmail(ctx, email)
	if err != nil && CodeOf(err) != CodeNotFound {
		return nil, err
	}

	token, err := s.newToken()
	if err != nil {
		return nil, internalError(err, "Failed to create invitation")
	}

	now := s.now()
	inv := &models.BillingInvitation{
		UUID:            s.newUUID(),
		Token:           token,
		ServerID:        server.ID,
		InviterID:       inviter.ID,
		InviteeEmail:    email,
		SharePercentage: s.config.DefaultSharePercentage,
		Status:          models.InvitationPending,
		Message:         optionalString(req.Message),
		ExpiresAt:       now.Add(s.config.InvitationTTL),
		CreatedAt:       now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, internalError(err, "Failed to create invitation")
	}
	defer tx.Rollback()

	if err := s.lockShareSet(ctx, tx, server.ID); err != nil {
		return nil, err
	}

	if invitee != nil {
		sharing, err := s.hasActiveShare(ctx, tx, server.ID, invitee.ID)
		if err != nil {
			return nil, err
		}
		if sharing {
			return nil, conflictError("This user is already sharing billing for this server.")
		}
	}

	var pending bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM billing_invitations
			WHERE server_id = $1 AND LOWER(invitee_email) = $2 AND status = $3 AND expires_at > $4
		)`, server.ID, email, models.InvitationPending, now).Scan(&pending)
	if err != nil {
		return nil, internalError(err, "Failed to check pending invitations")
	}
	if pending {
		return nil, conflictError("An invitation is already pending for this email.")
	}

	shares, err := s.loadShareSet(ctx, tx, server.ID)
	if err != nil {
		return nil, err
	}
	if err := checkSinglePartner(shares, server.OwnerID, 0); err != nil {
		return nil, err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO billing_invitations (uuid, token, server_id, inviter_id, invitee_email, share_percentage, status, message, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING id`,
		inv.UUID, inv.Token, inv.ServerID, inv.InviterID, inv.InviteeEmail, inv.SharePercentage,
		inv.Status, inv.Message, inv.ExpiresAt, inv.CreatedAt).Scan(&inv.ID)
	if err != nil {
		log.Printf("[SPLIT_BILLING] Failed to create invitation for server %d: %v", server.ID, err)
		return nil, internalError(err, "Failed to create invitation")
	}

	if err := tx.Commit(); err != nil {
		return nil, internalError(err, "Failed to create invitation")
	}

	s.audit.LogBillingEvent("BILLING_INVITATION_SENT", inv.UUID, server.ID, inviter.ID, map[string]string{
		"invitee_email": email,
	})
	log.Printf("[SPLIT_BILLING] Invitation %s sent for server %d to %s", inv.UUID, server.ID, email)

	notice := InvitationNotice{
		InvitationUUID:  inv.UUID,
		Token:           inv.Token,
		InviteeEmail:    email,
		InviterName:     inviter.Username,
		ServerName:      server.Name,
		SharePercentage: inv.SharePercentage,
		Message:         req.Message,
		ExpiresAt:       inv.ExpiresAt,
		AcceptURL:       s.acceptURL(inv.Token),
	}
	if err := s.notifier.NotifyInvitation(ctx, notice); err != nil {
		log.Printf("[SPLIT_BILLING] Failed to queue invitation email %s: %v", inv.UUID, err)
	}

	inv.Token = ""
	inv.Server = &models.ServerSummary{ID: server.ID, UUID: server.UUID, Name: server.Name}
	inv.Inviter = inviter.Summary()
	return inv, nil
}

// Accept joins the invitee to the server's billing: the invitation, both
// share rows and the subuser grant commit together or not at all.
func (s *SplitBillingService) Accept(ctx context.Context, token string, user *models.User) (*AcceptResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, internalError(err, "Failed to accept invitation")
	}
	defer tx.Rollback()

	inv, err := s.lockInvitation(ctx, tx, "token", token)
	if err != nil {
		return nil, err
	}
	if err := s.checkInvitee(inv, user); err != nil {
		return nil, err
	}

	server, err := s.servers.ServerByID(ctx, inv.ServerID)
	if err != nil {
		return nil, err
	}
	if server.OwnerID == user.ID {
		return nil, validationError("You already own this server.")
	}

	if err := s.lockShareSet(ctx, tx, server.ID); err != nil {
		return nil, err
	}
	shares, err := s.loadShareSet(ctx, tx, server.ID)
	if err != nil {
		return nil, err
	}

	plan, err := planSplit(shares, server.OwnerID, user.ID, inv.SharePercentage)
	if err != nil {
		return nil, err
	}
	if err := validateShareSet(plan); err != nil {
		return nil, err
	}

	now := s.now()
	_, err = tx.ExecContext(ctx, `
		UPDATE billing_invitations
		SET status = $1, invitee_user_id = $2, accepted_at = $3, updated_at = $3
		WHERE id = $4`, models.InvitationAccepted, user.ID, now, inv.ID)
	if err != nil {
		return nil, internalError(err, "Failed to accept invitation")
	}

	for _, share := range plan {
		if err := s.upsertShare(ctx, tx, server.ID, share, now); err != nil {
			log.Printf("[SPLIT_BILLING] Failed to write share for user %d on server %d: %v", share.userID, server.ID, err)
			return nil, internalError(err, "Failed to accept invitation")
		}
	}

	if err := s.servers.GrantAccess(ctx, tx, server.ID, user.ID, FullAccess); err != nil {
		log.Printf("[SPLIT_BILLING] Failed to grant server %d access to user %d: %v", server.ID, user.ID, err)
		return nil, internalError(err, "Failed to accept invitation")
	}

	if err := tx.Commit(); err != nil {
		return nil, internalError(err, "Failed to accept invitation")
	}

	s.audit.LogBillingEvent("BILLING_INVITATION_ACCEPTED", inv.UUID, server.ID, user.ID, map[string]string{
		"share_percentage": inv.SharePercentage.StringFixed(2),
	})
	log.Printf("[SPLIT_BILLING] User %d joined billing for server %d", user.ID, server.ID)

	return &AcceptResult{
		Server:          &models.ServerSummary{ID: server.ID, UUID: server.UUID, Name: server.Name},
		SharePercentage: inv.SharePercentage,
	}, nil
}

// Decline closes the invitation without touching any shares.
func (s *SplitBillingService) Decline(ctx context.Context, token string, user *models.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return internalError(err, "Failed to decline invitation")
	}
	defer tx.Rollback()

	inv, err := s.lockInvitation(ctx, tx, "token", token)
	if err != nil {
		return err
	}
	if err := s.checkInvitee(inv, user); err != nil {
		return err
	}

	if err := s.setInvitationStatus(ctx, tx, inv.ID, models.InvitationDeclined); err != nil {
		return internalError(err, "Failed to decline invitation")
	}
	if err := tx.Commit(); err != nil {
		return internalError(err, "Failed to decline invitation")
	}

	s.audit.LogBillingEvent("BILLING_INVITATION_DECLINED", inv.UUID, inv.ServerID, user.ID, nil)
	return nil
}

// Cancel withdraws a pending invitation. Only its inviter may cancel it.
func (s *SplitBillingService) Cancel(ctx context.Context, invitationUUID string, inviter *models.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return internalError(err, "Failed to cancel invitation")
	}
	defer tx.Rollback()

	inv, err := s.lockInvitation(ctx, tx, "uuid", invitationUUID)
	if err != nil {
		return err
	}
	if inv.InviterID != inviter.ID {
		return unauthorizedError("Only the inviter can cancel this invitation.")
	}
	if !inv.IsActionable(s.now()) {
		return invalidStateError("Only pending invitations can be cancelled.")
	}

	if err := s.setInvitationStatus(ctx, tx, inv.ID, models.InvitationCancelled); err != nil {
		return internalError(err, "Failed to cancel invitation")
	}
	if err := tx.Commit(); err != nil {
		return internalError(err, "Failed to cancel invitation")
	}

	s.audit.LogBillingEvent("BILLING_INVITATION_CANCELLED", inv.UUID, inv.ServerID, inviter.ID, nil)
	return nil
}

// RemoveShare drops a co-payer from the server, revokes their access and
// hands the whole cost back to the owner.
func (s *SplitBillingService) RemoveShare(ctx context.Context, serverID, targetUserID int64, requester *models.User) error {
	server, err := s.servers.ServerByID(ctx, serverID)
	if err != nil {
		return err
	}
	if server.OwnerID != requester.ID {
		return unauthorizedError("Only the server owner can remove billing shares.")
	}
	if targetUserID == server.OwnerID {
		return validationError("The owner's share cannot be removed.")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return internalError(err, "Failed to remove billing share")
	}
	defer tx.Rollback()

	if err := s.lockShareSet(ctx, tx, server.ID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM server_billing_shares WHERE server_id = $1 AND user_id = $2`, server.ID, targetUserID)
	if err != nil {
		return internalError(err, "Failed to remove billing share")
	}
	if n, err := res.RowsAffected(); err != nil {
		return internalError(err, "Failed to remove billing share")
	} else if n == 0 {
		return notFoundError("Billing share not found")
	}

	if err := s.servers.RevokeAccess(ctx, tx, server.ID, targetUserID); err != nil {
		log.Printf("[SPLIT_BILLING] Failed to revoke server %d access from user %d: %v", server.ID, targetUserID, err)
		return internalError(err, "Failed to remove billing share")
	}

	plan := planOwnerDefault(server.OwnerID)
	if err := validateShareSet(plan); err != nil {
		return err
	}

	// A missing owner row is left missing.
	_, err = tx.ExecContext(ctx, `
		UPDATE server_billing_shares
		SET share_percentage = $1, status = $2, updated_at = $3
		WHERE server_id = $4 AND user_id = $5`,
		plan[0].percentage, models.ShareActive, s.now(), server.ID, server.OwnerID)
	if err != nil {
		return internalError(err, "Failed to remove billing share")
	}

	if err := tx.Commit(); err != nil {
		return internalError(err, "Failed to remove billing share")
	}

	s.audit.LogBillingEvent("BILLING_SHARE_REMOVED", fmt.Sprintf("%d:%d", server.ID, targetUserID), server.ID, requester.ID, nil)
	log.Printf("[SPLIT_BILLING] User %d removed from billing for server %d", targetUserID, server.ID)
	return nil
}

// GetServerShares lists a server's share rows for its owner or collaborators.
func (s *SplitBillingService) GetServerShares(ctx context.Context, serverID int64, requester *models.User) ([]models.ServerBillingShare, error) {
	server, err := s.servers.ServerByID(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if server.OwnerID != requester.ID {
		member, err := s.servers.IsCollaborator(ctx, server.ID, requester.ID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, unauthorizedError("Unauthorized")
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.server_id, s.user_id, s.share_percentage, s.status, s.has_server_access, s.created_at, s.updated_at,
		       u.username, u.email, u.name_first, u.name_last
		FROM server_billing_shares s
		JOIN users u ON u.id = s.user_id
		WHERE s.server_id = $1
		ORDER BY s.share_percentage DESC, s.id ASC`, server.ID)
	if err != nil {
		return nil, internalError(err, "Failed to load billing shares")
	}
	defer rows.Close()

	shares := []models.ServerBillingShare{}
	for rows.Next() {
		var (
			share models.ServerBillingShare
			user  models.UserSummary
		)
		if err := rows.Scan(&share.ID, &share.ServerID, &share.UserID, &share.SharePercentage, &share.Status,
			&share.HasServerAccess, &share.CreatedAt, &share.UpdatedAt,
			&user.Username, &user.Email, &user.NameFirst, &user.NameLast); err != nil {
			return nil, internalError(err, "Failed to load billing shares")
		}
		user.ID = share.UserID
		share.User = &user
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError(err, "Failed to load billing shares")
	}
	return shares, nil
}

// ListPendingInvitations returns the actionable invitations addressed to the
// user. This is the only listing that carries the token.
func (s *SplitBillingService) ListPendingInvitations(ctx context.Context, user *models.User) ([]models.BillingInvitation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.uuid, i.token, i.server_id, i.inviter_id, i.invitee_email, i.invitee_user_id,
		       i.share_percentage, i.status, i.message, i.expires_at, i.accepted_at, i.created_at,
		       sv.uuid, sv.name, u.username, u.email
		FROM billing_invitations i
		JOIN servers sv ON sv.id = i.server_id
		JOIN users u ON u.id = i.inviter_id
		WHERE LOWER(i.invitee_email) = LOWER($1) AND i.status = $2 AND i.expires_at > $3
		ORDER BY i.created_at DESC`, user.Email, models.InvitationPending, s.now())
	if err != nil {
		return nil, internalError(err, "Failed to load invitations")
	}
	defer rows.Close()

	invitations := []models.BillingInvitation{}
	for rows.Next() {
		var (
			inv     models.BillingInvitation
			server  models.ServerSummary
			inviter models.UserSummary
		)
		if err := rows.Scan(&inv.ID, &inv.UUID, &inv.Token, &inv.ServerID, &inv.InviterID, &inv.InviteeEmail, &inv.InviteeUserID,
			&inv.SharePercentage, &inv.Status, &inv.Message, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt,
			&server.UUID, &server.Name, &inviter.Username, &inviter.Email); err != nil {
			return nil, internalError(err, "Failed to load invitations")
		}
		server.ID = inv.ServerID
		inviter.ID = inv.InviterID
		inv.Server = &server
		inv.Inviter = &inviter
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError(err, "Failed to load invitations")
	}
	return invitations, nil
}

// ComputeChargeShare apportions a recurring charge by share percentage.
// The result is not rounded.
func ComputeChargeShare(share *models.ServerBillingShare, totalAmount decimal.Decimal) decimal.Decimal {
	return share.ChargeFor(totalAmount)
}

func (s *SplitBillingService) checkInvitee(inv *models.BillingInvitation, user *models.User) error {
	if !inv.IsActionable(s.now()) {
		return invalidStateError("This invitation is no longer valid.")
	}
	if !strings.EqualFold(inv.InviteeEmail, user.Email) {
		return unauthorizedError("This invitation was sent to a different email address.")
	}
	return nil
}

func (s *SplitBillingService) acceptURL(token string) string {
	return strings.TrimRight(s.config.AcceptURLBase, "/") + "/" + token
}

const invitationColumns = `id, uuid, token, server_id, inviter_id, invitee_email, invitee_user_id,
	share_percentage, status, message, expires_at, accepted_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*models.BillingInvitation, error) {
	var inv models.BillingInvitation
	err := row.Scan(&inv.ID, &inv.UUID, &inv.Token, &inv.ServerID, &inv.InviterID, &inv.InviteeEmail, &inv.InviteeUserID,
		&inv.SharePercentage, &inv.Status, &inv.Message, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundError("Invitation not found")
	}
	if err != nil {
		return nil, internalError(err, "Failed to load invitation")
	}
	return &inv, nil
}

// lockInvitation loads an invitation by token or uuid and holds its row for
// the rest of the transaction.
func (s *SplitBillingService) lockInvitation(ctx context.Context, tx *sql.Tx, column, value string) (*models.BillingInvitation, error) {
	if value == "" {
		return nil, notFoundError("Invitation not found")
	}
	var query string
	switch column {
	case "token":
		query = `SELECT ` + invitationColumns + ` FROM billing_invitations WHERE token = $1 FOR UPDATE`
	case "uuid":
		query = `SELECT ` + invitationColumns + ` FROM billing_invitations WHERE uuid = $1 FOR UPDATE`
	default:
		return nil, fmt.Errorf("unsupported invitation key %q", column)
	}
	return scanInvitation(tx.QueryRowContext(ctx, query, value))
}

func (s *SplitBillingService) invitationByToken(ctx context.Context, token string) (*models.BillingInvitation, error) {
	if token == "" {
		return nil, notFoundError("Invitation not found")
	}
	return scanInvitation(s.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM billing_invitations WHERE token = $1`, token))
}

func (s *SplitBillingService) setInvitationStatus(ctx context.Context, tx *sql.Tx, id int64, status models.InvitationStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE billing_invitations SET status = $1, updated_at = $2 WHERE id = $3`, status, s.now(), id)
	return err
}

func (s *SplitBillingService) lockShareSet(ctx context.Context, tx *sql.Tx, serverID int64) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, shareLockClass, serverID); err != nil {
		return internalError(err, "Failed to lock billing shares")
	}
	return nil
}

func (s *SplitBillingService) loadShareSet(ctx context.Context, tx *sql.Tx, serverID int64) ([]models.ServerBillingShare, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, server_id, user_id, share_percentage, status, has_server_access, created_at, updated_at
		FROM server_billing_shares WHERE server_id = $1`, serverID)
	if err != nil {
		return nil, internalError(err, "Failed to load billing shares")
	}
	defer rows.Close()

	var shares []models.ServerBillingShare
	for rows.Next() {
		var share models.ServerBillingShare
		if err := rows.Scan(&share.ID, &share.ServerID, &share.UserID, &share.SharePercentage, &share.Status,
			&share.HasServerAccess, &share.CreatedAt, &share.UpdatedAt); err != nil {
			return nil, internalError(err, "Failed to load billing shares")
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError(err, "Failed to load billing shares")
	}
	return shares, nil
}

func (s *SplitBillingService) hasActiveShare(ctx context.Context, tx *sql.Tx, serverID, userID int64) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM server_billing_shares WHERE server_id = $1 AND user_id = $2 AND status = $3
		)`, serverID, userID, models.ShareActive).Scan(&exists)
	if err != nil {
		return false, internalError(err, "Failed to check billing shares")
	}
	return exists, nil
}

func (s *SplitBillingService) upsertShare(ctx context.Context, tx *sql.Tx, serverID int64, share plannedShare, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO server_billing_shares (server_id, user_id, share_percentage, status, has_server_access, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (server_id, user_id) DO UPDATE SET
			share_percentage = EXCLUDED.share_percentage,
			status = EXCLUDED.status,
			has_server_access = EXCLUDED.has_server_access,
			updated_at = EXCLUDED.updated_at`,
		serverID, share.userID, share.percentage, models.ShareActive, true, now)
	return err
}

type plannedShare struct {
	userID     int64
	percentage decimal.Decimal
}

// planSplit is the share set after joinerID accepts joinerPct: the joiner
// and the current owner, both active.
func planSplit(current []models.ServerBillingShare, ownerID, joinerID int64, joinerPct decimal.Decimal) ([]plannedShare, error) {
	if err := checkSinglePartner(current, ownerID, joinerID); err != nil {
		return nil, err
	}
	return []plannedShare{
		{userID: joinerID, percentage: joinerPct},
		{userID: ownerID, percentage: hundred.Sub(joinerPct)},
	}, nil
}

// planOwnerDefault is the share set of a server nobody else pays for.
func planOwnerDefault(ownerID int64) []plannedShare {
	return []plannedShare{{userID: ownerID, percentage: hundred}}
}

// checkSinglePartner fails when an active co-payer other than allowedID
// already exists.
func checkSinglePartner(current []models.ServerBillingShare, ownerID, allowedID int64) error {
	for _, share := range current {
		if share.Status != models.ShareActive || share.UserID == ownerID || share.UserID == allowedID {
			continue
		}
		return conflictError("This server already shares billing with another user.")
	}
	return nil
}

func validateShareSet(plan []plannedShare) error {
	sum := decimal.Zero
	for _, share := range plan {
		if share.percentage.IsNegative() || share.percentage.GreaterThan(hundred) {
			return internalError(fmt.Errorf("share for user %d is %s", share.userID, share.percentage), "Billing shares are inconsistent")
		}
		sum = sum.Add(share.percentage)
	}
	if !sum.Equal(hundred) {
		return internalError(fmt.Errorf("shares sum to %s", sum), "Billing shares are inconsistent")
	}
	return nil
}

func generateInvitationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
