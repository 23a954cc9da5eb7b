package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hostmarket/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	advisoryLockSQL    = "SELECT pg_advisory_xact_lock"
	lockByTokenSQL     = "FROM billing_invitations WHERE token = \\$1 FOR UPDATE"
	lockByUUIDSQL      = "FROM billing_invitations WHERE uuid = \\$1 FOR UPDATE"
	loadSharesSQL      = "FROM server_billing_shares WHERE server_id = \\$1"
	upsertShareSQL     = "INSERT INTO server_billing_shares"
	invitationStateSQL = "UPDATE billing_invitations SET status = \\$1, updated_at = \\$2 WHERE id = \\$3"
)

var (
	testOwner   = &models.User{ID: 10, Username: "alice", Email: "alice@panel.test"}
	testInvitee = &models.User{ID: 22, Username: "bob", Email: "B@Example.com"}
	testServer  = &models.Server{ID: 5, UUID: "srv-5", Name: "survival", OwnerID: 10}
)

var invitationCols = []string{
	"id", "uuid", "token", "server_id", "inviter_id", "invitee_email", "invitee_user_id",
	"share_percentage", "status", "message", "expires_at", "accepted_at", "created_at",
}

var shareCols = []string{"id", "server_id", "user_id", "share_percentage", "status", "has_server_access", "created_at", "updated_at"}

type splitBillingFixture struct {
	svc      *SplitBillingService
	sql      sqlmock.Sqlmock
	users    *MockUserDirectory
	servers  *MockServerDirectory
	notifier *MockNotifier
	limiter  *MockRateLimiter
}

func newSplitBillingFixture(t *testing.T) *splitBillingFixture {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &splitBillingFixture{
		sql:      sqlMock,
		users:    new(MockUserDirectory),
		servers:  new(MockServerDirectory),
		notifier: new(MockNotifier),
		limiter:  new(MockRateLimiter),
	}
	f.svc = NewSplitBillingService(db, f.users, f.servers, f.notifier, f.limiter, testBillingConfig())
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.newUUID = func() string { return "inv-uuid" }
	f.svc.newToken = func() (string, error) { return "tok-123", nil }
	return f
}

func (f *splitBillingFixture) verify(t *testing.T) {
	t.Helper()
	assert.NoError(t, f.sql.ExpectationsWereMet())
	f.users.AssertExpectations(t)
	f.servers.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
	f.limiter.AssertExpectations(t)
}

func invitationRow(status string, expiresAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(invitationCols).
		AddRow(31, "inv-uuid", "tok-123", 5, 10, "b@example.com", nil,
			"50.00", status, nil, expiresAt, nil, fixedNow.Add(-24*time.Hour))
}

func TestSplitBillingService_SendInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending invitation and queues the email", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)
		f.limiter.On("Allow", mock.Anything, "billing:invite:10", 10, time.Hour).Return(true, nil)
		f.users.On("UserByEmail", mock.Anything, "b@example.com").Return(nil, notFoundError("User not found"))
		f.notifier.On("NotifyInvitation", mock.Anything, mock.MatchedBy(func(n InvitationNotice) bool {
			return n.Token == "tok-123" &&
				n.InviteeEmail == "b@example.com" &&
				n.AcceptURL == "https://panel.test/billing/invitations/tok-123"
		})).Return(errors.New("mail queue down"))

		f.sql.ExpectBegin()
		f.sql.ExpectExec(advisoryLockSQL).WithArgs(shareLockClass, 5).WillReturnResult(sqlmock.NewResult(0, 0))
		f.sql.ExpectQuery("SELECT 1 FROM billing_invitations").
			WithArgs(5, "b@example.com", "pending", timeArg(fixedNow)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		f.sql.ExpectQuery(loadSharesSQL).
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(shareCols).AddRow(1, 5, 10, "100.00", "active", true, fixedNow, fixedNow))
		f.sql.ExpectQuery("INSERT INTO billing_invitations").
			WithArgs("inv-uuid", "tok-123", 5, 10, "b@example.com", dec("50"), "pending", "Split it?",
				timeArg(fixedNow.Add(7*24*time.Hour)), timeArg(fixedNow)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(31))
		f.sql.ExpectCommit()

		inv, err := f.svc.SendInvitation(ctx, 5, testOwner, InviteRequest{Email: " B@Example.com ", Message: "Split it?"})
		require.NoError(t, err)

		assert.Equal(t, models.InvitationPending, inv.Status)
		assert.Equal(t, "50.00", inv.SharePercentage.StringFixed(2))
		assert.Equal(t, fixedNow.Add(7*24*time.Hour), inv.ExpiresAt)
		assert.Empty(t, inv.Token)
		assert.Equal(t, "survival", inv.Server.Name)
		f.verify(t)
	})

	t.Run("only the owner may invite", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)

		_, err := f.svc.SendInvitation(ctx, 5, testInvitee, InviteRequest{Email: "c@example.com"})
		assert.Equal(t, CodeUnauthorized, CodeOf(err))
		f.verify(t)
	})

	t.Run("owner cannot invite themselves", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)

		_, err := f.svc.SendInvitation(ctx, 5, testOwner, InviteRequest{Email: "ALICE@panel.test"})
		assert.Equal(t, CodeValidation, CodeOf(err))
		f.verify(t)
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newSplitBillingFixture(t)

		_, err := f.svc.SendInvitation(ctx, 5, testOwner, InviteRequest{Email: "nope"})
		assert.Equal(t, CodeValidation, CodeOf(err))
		f.verify(t)
	})

	t.Run("rate limited", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)
		f.limiter.On("Allow", mock.Anything, "billing:invite:10", 10, time.Hour).Return(false, nil)

		_, err := f.svc.SendInvitation(ctx, 5, testOwner, InviteRequest{Email: "b@example.com"})
		assert.Equal(t, CodeConflict, CodeOf(err))
		f.verify(t)
	})

	t.Run("invitee already shares the server", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)
		f.limiter.On("Allow", mock.Anything, "billing:invite:10", 10, time.Hour).Return(true, nil)
		f.users.On("UserByEmail", mock.Anything, "b@example.com").Return(testInvitee, nil)

		f.sql.ExpectBegin()
		f.sql.ExpectExec(advisoryLockSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		f.sql.ExpectQuery("SELECT 1 FROM server_billing_shares").
			WithArgs(5, 22, "active").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		f.sql.ExpectRollback()

		_, err := f.svc.SendInvitation(ctx, 5, testOwner, InviteRequest{Email: "b@example.com"})
		assert.Equal(t, CodeConflict, CodeOf(err))
		assert.Contains(t, PublicMessage(err), "already sharing")
		f.verify(t)
	})

	t.Run("pending invitation already exists", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)
		f.limiter.On("Allow", mock.Anything, "billing:invite:10", 10, time.Hour).Return(true, nil)
		f.users.On("UserByEmail", mock.Anything, "b@example.com").Return(nil, notFoundError("User not found"))

		f.sql.ExpectBegin()
		f.sql.ExpectExec(advisoryLockSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		f.sql.ExpectQuery("SELECT 1 FROM billing_invitations").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		f.sql.ExpectRollback()

		_, err := f.svc.SendInvitation(ctx, 5, testOwner, InviteRequest{Email: "b@example.com"})
		assert.Equal(t, CodeConflict, CodeOf(err))
		assert.Contains(t, PublicMessage(err), "already pending")
		f.verify(t)
	})

	t.Run("server already has a partner", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)
		f.limiter.On("Allow", mock.Anything, "billing:invite:10", 10, time.Hour).Return(true, nil)
		f.users.On("UserByEmail", mock.Anything, "b@example.com").Return(nil, notFoundError("User not found"))

		f.sql.ExpectBegin()
		f.sql.ExpectExec(advisoryLockSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		f.sql.ExpectQuery("SELECT 1 FROM billing_invitations").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		f.sql.ExpectQuery(loadSharesSQL).
			WillReturnRows(sqlmock.NewRows(shareCols).
				AddRow(1, 5, 10, "50.00", "active", true, fixedNow, fixedNow).
				AddRow(2, 5, 30, "50.00", "active", true, fixedNow, fixedNow))
		f.sql.ExpectRollback()

		_, err := f.svc.SendInvitation(ctx, 5, testOwner, InviteRequest{Email: "b@example.com"})
		assert.Equal(t, CodeConflict, CodeOf(err))
		f.verify(t)
	})
}

func TestSplitBillingService_Accept(t *testing.T) {
	ctx := context.Background()
	unexpired := fixedNow.Add(6 * 24 * time.Hour)

	t.Run("joins billing at fifty fifty", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)
		f.servers.On("GrantAccess", mock.Anything, mock.Anything, int64(5), int64(22), FullAccess).Return(nil)

		f.sql.ExpectBegin()
		f.sql.ExpectQuery(lockByTokenSQL).WithArgs("tok-123").WillReturnRows(invitationRow("pending", unexpired))
		f.sql.ExpectExec(advisoryLockSQL).WithArgs(shareLockClass, 5).WillReturnResult(sqlmock.NewResult(0, 0))
		f.sql.ExpectQuery(loadSharesSQL).
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(shareCols).AddRow(1, 5, 10, "100.00", "active", true, fixedNow, fixedNow))
		f.sql.ExpectExec("UPDATE billing_invitations").
			WithArgs("accepted", 22, timeArg(fixedNow), 31).
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.sql.ExpectExec(upsertShareSQL).
			WithArgs(5, 22, dec("50"), "active", true, timeArg(fixedNow)).
			WillReturnResult(sqlmock.NewResult(2, 1))
		f.sql.ExpectExec(upsertShareSQL).
			WithArgs(5, 10, dec("50"), "active", true, timeArg(fixedNow)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.sql.ExpectCommit()

		result, err := f.svc.Accept(ctx, "tok-123", testInvitee)
		require.NoError(t, err)
		assert.Equal(t, "50.00", result.SharePercentage.StringFixed(2))
		assert.Equal(t, "survival", result.Server.Name)
		f.verify(t)
	})

	t.Run("expired invitation is rejected while still stored as pending", func(t *testing.T) {
		f := newSplitBillingFixture(t)

		f.sql.ExpectBegin()
		f.sql.ExpectQuery(lockByTokenSQL).WithArgs("tok-123").WillReturnRows(invitationRow("pending", fixedNow.Add(-time.Second)))
		f.sql.ExpectRollback()

		_, err := f.svc.Accept(ctx, "tok-123", testInvitee)
		assert.Equal(t, CodeInvalidState, CodeOf(err))
		f.verify(t)
	})

	t.Run("token cannot be reused after a terminal transition", func(t *testing.T) {
		for _, status := range []string{"accepted", "declined", "cancelled"} {
			f := newSplitBillingFixture(t)

			f.sql.ExpectBegin()
			f.sql.ExpectQuery(lockByTokenSQL).WithArgs("tok-123").WillReturnRows(invitationRow(status, unexpired))
			f.sql.ExpectRollback()
			f.sql.ExpectBegin()
			f.sql.ExpectQuery(lockByTokenSQL).WithArgs("tok-123").WillReturnRows(invitationRow(status, unexpired))
			f.sql.ExpectRollback()

			_, err := f.svc.Accept(ctx, "tok-123", testInvitee)
			assert.Equal(t, CodeInvalidState, CodeOf(err), status)
			err = f.svc.Decline(ctx, "tok-123", testInvitee)
			assert.Equal(t, CodeInvalidState, CodeOf(err), status)
			f.verify(t)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newSplitBillingFixture(t)

		f.sql.ExpectBegin()
		f.sql.ExpectQuery(lockByTokenSQL).WithArgs("missing").WillReturnRows(sqlmock.NewRows(invitationCols))
		f.sql.ExpectRollback()

		_, err := f.svc.Accept(ctx, "missing", testInvitee)
		assert.Equal(t, CodeNotFound, CodeOf(err))
		f.verify(t)
	})

	t.Run("wrong account", func(t *testing.T) {
		f := newSplitBillingFixture(t)

		f.sql.ExpectBegin()
		f.sql.ExpectQuery(lockByTokenSQL).WithArgs("tok-123").WillReturnRows(invitationRow("pending", unexpired))
		f.sql.ExpectRollback()

		_, err := f.svc.Accept(ctx, "tok-123", &models.User{ID: 40, Email: "mallory@example.com"})
		assert.Equal(t, CodeUnauthorized, CodeOf(err))
		f.verify(t)
	})

	t.Run("another partner joined first", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)

		f.sql.ExpectBegin()
		f.sql.ExpectQuery(lockByTokenSQL).WillReturnRows(invitationRow("pending", unexpired))
		f.sql.ExpectExec(advisoryLockSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		f.sql.ExpectQuery(loadSharesSQL).
			WillReturnRows(sqlmock.NewRows(shareCols).
				AddRow(1, 5, 10, "50.00", "active", true, fixedNow, fixedNow).
				AddRow(2, 5, 30, "50.00", "active", true, fixedNow, fixedNow))
		f.sql.ExpectRollback()

		_, err := f.svc.Accept(ctx, "tok-123", testInvitee)
		assert.Equal(t, CodeConflict, CodeOf(err))
		f.verify(t)
	})

	t.Run("access grant failure rolls everything back", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)
		f.servers.On("GrantAccess", mock.Anything, mock.Anything, int64(5), int64(22), FullAccess).
			Return(errors.New("subusers: constraint violation"))

		f.sql.ExpectBegin()
		f.sql.ExpectQuery(lockByTokenSQL).WillReturnRows(invitationRow("pending", unexpired))
		f.sql.ExpectExec(advisoryLockSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		f.sql.ExpectQuery(loadSharesSQL).WillReturnRows(sqlmock.NewRows(shareCols))
		f.sql.ExpectExec("UPDATE billing_invitations").WillReturnResult(sqlmock.NewResult(0, 1))
		f.sql.ExpectExec(upsertShareSQL).WillReturnResult(sqlmock.NewResult(2, 1))
		f.sql.ExpectExec(upsertShareSQL).WillReturnResult(sqlmock.NewResult(3, 1))
		f.sql.ExpectRollback()

		_, err := f.svc.Accept(ctx, "tok-123", testInvitee)
		assert.Equal(t, CodeInternal, CodeOf(err))
		f.verify(t)
	})
}

func TestSplitBillingService_Decline(t *testing.T) {
	f := newSplitBillingFixture(t)

	f.sql.ExpectBegin()
	f.sql.ExpectQuery(lockByTokenSQL).WithArgs("tok-123").WillReturnRows(invitationRow("pending", fixedNow.Add(time.Hour)))
	f.sql.ExpectExec(invitationStateSQL).
		WithArgs("declined", timeArg(fixedNow), 31).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.sql.ExpectCommit()

	require.NoError(t, f.svc.Decline(context.Background(), "tok-123", testInvitee))
	f.verify(t)
}

func TestSplitBillingService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("inviter cancels a pending invitation", func(t *testing.T) {
		f := newSplitBillingFixture(t)

		f.sql.ExpectBegin()
		f.sql.ExpectQuery(lockByUUIDSQL).WithArgs("inv-uuid").WillReturnRows(invitationRow("pending", fixedNow.Add(time.Hour)))
		f.sql.ExpectExec(invitationStateSQL).
			WithArgs("cancelled", timeArg(fixedNow), 31).
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.sql.ExpectCommit()

		require.NoError(t, f.svc.Cancel(ctx, "inv-uuid", testOwner))
		f.verify(t)
	})

	t.Run("someone else cannot cancel", func(t *testing.T) {
		f := newSplitBillingFixture(t)

		f.sql.ExpectBegin()
		f.sql.ExpectQuery(lockByUUIDSQL).WillReturnRows(invitationRow("pending", fixedNow.Add(time.Hour)))
		f.sql.ExpectRollback()

		err := f.svc.Cancel(ctx, "inv-uuid", testInvitee)
		assert.Equal(t, CodeUnauthorized, CodeOf(err))
		f.verify(t)
	})

	t.Run("expired invitation cannot be cancelled", func(t *testing.T) {
		f := newSplitBillingFixture(t)

		f.sql.ExpectBegin()
		f.sql.ExpectQuery(lockByUUIDSQL).WillReturnRows(invitationRow("pending", fixedNow.Add(-time.Hour)))
		f.sql.ExpectRollback()

		err := f.svc.Cancel(ctx, "inv-uuid", testOwner)
		assert.Equal(t, CodeInvalidState, CodeOf(err))
		f.verify(t)
	})
}

func TestSplitBillingService_RemoveShare(t *testing.T) {
	ctx := context.Background()

	t.Run("owner share returns to one hundred percent", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)
		f.servers.On("RevokeAccess", mock.Anything, mock.Anything, int64(5), int64(22)).Return(nil)

		f.sql.ExpectBegin()
		f.sql.ExpectExec(advisoryLockSQL).WithArgs(shareLockClass, 5).WillReturnResult(sqlmock.NewResult(0, 0))
		f.sql.ExpectExec("DELETE FROM server_billing_shares WHERE server_id = \\$1 AND user_id = \\$2").
			WithArgs(5, 22).
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.sql.ExpectExec("UPDATE server_billing_shares").
			WithArgs(dec("100"), "active", timeArg(fixedNow), 5, 10).
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.sql.ExpectCommit()

		require.NoError(t, f.svc.RemoveShare(ctx, 5, 22, testOwner))
		f.verify(t)
	})

	t.Run("missing owner row is tolerated", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)
		f.servers.On("RevokeAccess", mock.Anything, mock.Anything, int64(5), int64(22)).Return(nil)

		f.sql.ExpectBegin()
		f.sql.ExpectExec(advisoryLockSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		f.sql.ExpectExec("DELETE FROM server_billing_shares").WillReturnResult(sqlmock.NewResult(0, 1))
		f.sql.ExpectExec("UPDATE server_billing_shares").WillReturnResult(sqlmock.NewResult(0, 0))
		f.sql.ExpectCommit()

		require.NoError(t, f.svc.RemoveShare(ctx, 5, 22, testOwner))
		f.verify(t)
	})

	t.Run("no share row", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)

		f.sql.ExpectBegin()
		f.sql.ExpectExec(advisoryLockSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		f.sql.ExpectExec("DELETE FROM server_billing_shares").WillReturnResult(sqlmock.NewResult(0, 0))
		f.sql.ExpectRollback()

		err := f.svc.RemoveShare(ctx, 5, 22, testOwner)
		assert.Equal(t, CodeNotFound, CodeOf(err))
		f.verify(t)
	})

	t.Run("only the owner may remove", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)

		err := f.svc.RemoveShare(ctx, 5, 22, testInvitee)
		assert.Equal(t, CodeUnauthorized, CodeOf(err))
		f.verify(t)
	})

	t.Run("owner share cannot be removed", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)

		err := f.svc.RemoveShare(ctx, 5, 10, testOwner)
		assert.Equal(t, CodeValidation, CodeOf(err))
		f.verify(t)
	})
}

func TestSplitBillingService_GetServerShares(t *testing.T) {
	ctx := context.Background()
	cols := append(append([]string{}, shareCols...), "username", "email", "name_first", "name_last")

	t.Run("collaborator sees both shares", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)
		f.servers.On("IsCollaborator", mock.Anything, int64(5), int64(22)).Return(true, nil)

		f.sql.ExpectQuery("JOIN users u ON u.id = s.user_id").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(1, 5, 10, "50.00", "active", true, fixedNow, fixedNow, "alice", "alice@panel.test", "Alice", "A").
				AddRow(2, 5, 22, "50.00", "active", true, fixedNow, fixedNow, "bob", "b@example.com", "Bob", "B"))

		shares, err := f.svc.GetServerShares(ctx, 5, testInvitee)
		require.NoError(t, err)
		require.Len(t, shares, 2)

		total := shares[0].SharePercentage.Add(shares[1].SharePercentage)
		assert.Equal(t, "100.00", total.StringFixed(2))
		assert.Equal(t, "bob", shares[1].User.Username)
		assert.Equal(t, int64(22), shares[1].User.ID)
		f.verify(t)
	})

	t.Run("strangers are rejected", func(t *testing.T) {
		f := newSplitBillingFixture(t)
		f.servers.On("ServerByID", mock.Anything, int64(5)).Return(testServer, nil)
		f.servers.On("IsCollaborator", mock.Anything, int64(5), int64(40)).Return(false, nil)

		_, err := f.svc.GetServerShares(ctx, 5, &models.User{ID: 40})
		assert.Equal(t, CodeUnauthorized, CodeOf(err))
		f.verify(t)
	})
}

func TestSplitBillingService_ListPendingInvitations(t *testing.T) {
	f := newSplitBillingFixture(t)
	cols := append(append([]string{}, invitationCols...), "server_uuid", "server_name", "inviter_username", "inviter_email")

	f.sql.ExpectQuery("FROM billing_invitations i").
		WithArgs("B@Example.com", "pending", timeArg(fixedNow)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(31, "inv-uuid", "tok-123", 5, 10, "b@example.com", nil, "50.00", "pending", "Split it?",
				fixedNow.Add(time.Hour), nil, fixedNow, "srv-5", "survival", "alice", "alice@panel.test"))

	invitations, err := f.svc.ListPendingInvitations(context.Background(), testInvitee)
	require.NoError(t, err)
	require.Len(t, invitations, 1)

	inv := invitations[0]
	assert.Equal(t, "tok-123", inv.Token)
	assert.Equal(t, "survival", inv.Server.Name)
	assert.Equal(t, "alice", inv.Inviter.Username)
	assert.Equal(t, "Split it?", *inv.Message)
	f.verify(t)
}

func TestSplitBillingService_InvitationQRCode(t *testing.T) {
	f := newSplitBillingFixture(t)

	f.sql.ExpectQuery("FROM billing_invitations WHERE token = \\$1").
		WithArgs("tok-123").
		WillReturnRows(invitationRow("pending", fixedNow.Add(time.Hour)))

	png, err := f.svc.InvitationQRCode(context.Background(), "tok-123", testInvitee)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
	f.verify(t)
}

func TestPlanSplit(t *testing.T) {
	current := []models.ServerBillingShare{
		{UserID: 10, SharePercentage: dec("100"), Status: models.ShareActive},
		{UserID: 30, SharePercentage: dec("50"), Status: models.ShareCancelled},
	}

	plan, err := planSplit(current, 10, 22, dec("50.00"))
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, int64(22), plan[0].userID)
	assert.Equal(t, "50.00", plan[1].percentage.StringFixed(2))
	assert.NoError(t, validateShareSet(plan))

	current = append(current, models.ServerBillingShare{UserID: 40, SharePercentage: dec("50"), Status: models.ShareActive})
	_, err = planSplit(current, 10, 22, dec("50.00"))
	assert.Equal(t, CodeConflict, CodeOf(err))
}

func TestValidateShareSet(t *testing.T) {
	assert.NoError(t, validateShareSet(planOwnerDefault(10)))
	assert.Error(t, validateShareSet([]plannedShare{{userID: 1, percentage: dec("60")}, {userID: 2, percentage: dec("50")}}))
	assert.Error(t, validateShareSet([]plannedShare{{userID: 1, percentage: dec("120")}, {userID: 2, percentage: dec("-20")}}))
}

func TestComputeChargeShare(t *testing.T) {
	share := &models.ServerBillingShare{SharePercentage: dec("50.00")}
	assert.Equal(t, "10.00", ComputeChargeShare(share, dec("20.00")).StringFixed(2))

	third := &models.ServerBillingShare{SharePercentage: dec("33.33")}
	assert.True(t, ComputeChargeShare(third, dec("10")).Equal(dec("3.333")))
}

func TestGenerateInvitationToken(t *testing.T) {
	a, err := generateInvitationToken()
	require.NoError(t, err)
	b, err := generateInvitationToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
