package handlers

import (
	"context"

	"github.com/hostmarket/backend/internal/models"
	"github.com/hostmarket/backend/internal/services"
	"github.com/stretchr/testify/mock"
)

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) UserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Grant(ctx context.Context, admin *models.User, req services.GrantRequest) (*services.LedgerResult, error) {
	args := m.Called(ctx, admin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LedgerResult), args.Error(1)
}

func (m *MockLedger) Deduct(ctx context.Context, admin *models.User, req services.DeductRequest) (*services.LedgerResult, error) {
	args := m.Called(ctx, admin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LedgerResult), args.Error(1)
}

func (m *MockLedger) Refund(ctx context.Context, admin *models.User, req services.RefundRequest) (*services.LedgerResult, error) {
	args := m.Called(ctx, admin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LedgerResult), args.Error(1)
}

func (m *MockLedger) GetHistory(ctx context.Context, userID int64, p services.Pagination) (*models.Page[models.CreditTransaction], error) {
	args := m.Called(ctx, userID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.CreditTransaction]), args.Error(1)
}

func (m *MockLedger) ListUsers(ctx context.Context, search string, p services.Pagination) (*models.Page[models.User], error) {
	args := m.Called(ctx, search, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.User]), args.Error(1)
}

func (m *MockLedger) Statistics(ctx context.Context) (*models.CreditStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreditStatistics), args.Error(1)
}

func (m *MockLedger) ApplyCreditsToOrder(ctx context.Context, user *models.User, orderID int64) (*services.CreditApplication, error) {
	args := m.Called(ctx, user, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CreditApplication), args.Error(1)
}

type MockBilling struct {
	mock.Mock
}

func (m *MockBilling) SendInvitation(ctx context.Context, serverID int64, inviter *models.User, req services.InviteRequest) (*models.BillingInvitation, error) {
	args := m.Called(ctx, serverID, inviter, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillingInvitation), args.Error(1)
}

func (m *MockBilling) Accept(ctx context.Context, token string, user *models.User) (*services.AcceptResult, error) {
	args := m.Called(ctx, token, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AcceptResult), args.Error(1)
}

func (m *MockBilling) Decline(ctx context.Context, token string, user *models.User) error {
	return m.Called(ctx, token, user).Error(0)
}

func (m *MockBilling) Cancel(ctx context.Context, invitationUUID string, inviter *models.User) error {
	return m.Called(ctx, invitationUUID, inviter).Error(0)
}

func (m *MockBilling) RemoveShare(ctx context.Context, serverID, targetUserID int64, requester *models.User) error {
	return m.Called(ctx, serverID, targetUserID, requester).Error(0)
}

func (m *MockBilling) GetServerShares(ctx context.Context, serverID int64, requester *models.User) ([]models.ServerBillingShare, error) {
	args := m.Called(ctx, serverID, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServerBillingShare), args.Error(1)
}

func (m *MockBilling) ListPendingInvitations(ctx context.Context, user *models.User) ([]models.BillingInvitation, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BillingInvitation), args.Error(1)
}

func (m *MockBilling) InvitationQRCode(ctx context.Context, token string, user *models.User) ([]byte, error) {
	args := m.Called(ctx, token, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
