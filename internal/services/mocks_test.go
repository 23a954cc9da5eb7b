package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/hostmarket/backend/internal/config"
	"github.com/hostmarket/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testBillingConfig() *config.BillingConfig {
	return &config.BillingConfig{
		InvitationTTL:          7 * 24 * time.Hour,
		DefaultSharePercentage: decimal.NewFromInt(50),
		MaxInvitesPerInviter:   10,
		InviteRateLimitWindow:  time.Hour,
		MinGrantAmount:         decimal.RequireFromString("0.01"),
		MaxGrantAmount:         decimal.NewFromInt(10000),
		PageSize:               50,
		MaxPageSize:            100,
		StatisticsWindow:       30 * 24 * time.Hour,
		RecentTransactionLimit: 10,
		AcceptURLBase:          "https://panel.test/billing/invitations",
		MailQueue:              "mail_queue",
	}
}

// timeArg matches a query argument equal to a fixed instant.
type timeArg time.Time

func (a timeArg) Match(v driver.Value) bool {
	t, ok := v.(time.Time)
	return ok && t.Equal(time.Time(a))
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) UserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserDirectory) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockServerDirectory struct {
	mock.Mock
}

func (m *MockServerDirectory) ServerByID(ctx context.Context, id int64) (*models.Server, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Server), args.Error(1)
}

func (m *MockServerDirectory) IsCollaborator(ctx context.Context, serverID, userID int64) (bool, error) {
	args := m.Called(ctx, serverID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockServerDirectory) GrantAccess(ctx context.Context, tx *sql.Tx, serverID, userID int64, permissions []string) error {
	args := m.Called(ctx, tx, serverID, userID, permissions)
	return args.Error(0)
}

func (m *MockServerDirectory) RevokeAccess(ctx context.Context, tx *sql.Tx, serverID, userID int64) error {
	args := m.Called(ctx, tx, serverID, userID)
	return args.Error(0)
}

type MockOrderDirectory struct {
	mock.Mock
}

func (m *MockOrderDirectory) OrderByID(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyInvitation(ctx context.Context, notice InvitationNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}
