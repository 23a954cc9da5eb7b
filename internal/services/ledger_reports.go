package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hostmarket/backend/internal/models"
	"github.com/shopspring/decimal"
)

const transactionSelect = `
	SELECT t.id, t.uuid, t.user_id, t.admin_id, t.amount, t.balance_after, t.type, t.reason,
	       t.description, t.order_id, t.metadata, t.created_at,
	       u.username, u.email, a.username, a.email
	FROM credit_transactions t
	JOIN users u ON u.id = t.user_id
	LEFT JOIN users a ON a.id = t.admin_id`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GetHistory returns a user's ledger, newest first, with the acting admin
// joined onto each entry.
func (s *CreditLedgerService) GetHistory(ctx context.Context, userID int64, p Pagination) (*models.Page[models.CreditTransaction], error) {
	p = p.normalize(s.config)

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return nil, internalError(err, "Failed to load user")
	}
	if !exists {
		return nil, notFoundError("User not found")
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM credit_transactions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, internalError(err, "Failed to count transactions")
	}

	rows, err := s.db.QueryContext(ctx, transactionSelect+`
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3`, userID, p.PerPage, p.offset())
	if err != nil {
		return nil, internalError(err, "Failed to load transactions")
	}
	defer rows.Close()

	txns, err := scanTransactions(rows)
	if err != nil {
		return nil, internalError(err, "Failed to load transactions")
	}

	return models.NewPage(txns, p.Page, p.PerPage, total), nil
}

// ListUsers pages through users ordered by balance, optionally filtered by a
// case-insensitive match on email or username.
func (s *CreditLedgerService) ListUsers(ctx context.Context, search string, p Pagination) (*models.Page[models.User], error) {
	p = p.normalize(s.config)
	search = strings.TrimSpace(search)
	pattern := "%" + likeEscaper.Replace(search) + "%"

	const filter = `WHERE ($1 = '' OR email ILIKE $2 OR username ILIKE $2)`

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users `+filter, search, pattern).Scan(&total); err != nil {
		return nil, internalError(err, "Failed to count users")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users `+filter+`
		ORDER BY credits DESC, id ASC
		LIMIT $3 OFFSET $4`, search, pattern, p.PerPage, p.offset())
	if err != nil {
		return nil, internalError(err, "Failed to load users")
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.UUID, &u.Username, &u.Email, &u.NameFirst, &u.NameLast,
			&u.Credits, &u.RootAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, internalError(err, "Failed to load users")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError(err, "Failed to load users")
	}

	return models.NewPage(users, p.Page, p.PerPage, total), nil
}

// Statistics aggregates balances and the last window of grants and payments.
func (s *CreditLedgerService) Statistics(ctx context.Context) (*models.CreditStatistics, error) {
	stats := &models.CreditStatistics{}
	since := s.now().Add(-s.config.StatisticsWindow)

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(credits), 0), COUNT(*) FILTER (WHERE credits > 0), COUNT(*)
		FROM users`).Scan(&stats.TotalCreditsInCirculation, &stats.UsersWithCredits, &stats.TotalUsers)
	if err != nil {
		return nil, internalError(err, "Failed to load credit totals")
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM credit_transactions
		WHERE type = $1 AND amount > 0 AND created_at >= $2`,
		models.TransactionTypeAdminGrant, since).Scan(&stats.CreditsGranted30Days)
	if err != nil {
		return nil, internalError(err, "Failed to load granted credits")
	}

	var used decimal.Decimal
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM credit_transactions
		WHERE type = $1 AND created_at >= $2`,
		models.TransactionTypePayment, since).Scan(&used)
	if err != nil {
		return nil, internalError(err, "Failed to load used credits")
	}
	stats.CreditsUsed30Days = used.Abs()

	rows, err := s.db.QueryContext(ctx, transactionSelect+`
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $1`, s.config.RecentTransactionLimit)
	if err != nil {
		return nil, internalError(err, "Failed to load recent transactions")
	}
	defer rows.Close()

	if stats.RecentTransactions, err = scanTransactions(rows); err != nil {
		return nil, internalError(err, "Failed to load recent transactions")
	}
	if stats.RecentTransactions == nil {
		stats.RecentTransactions = []models.CreditTransaction{}
	}

	return stats, nil
}

func scanTransactions(rows *sql.Rows) ([]models.CreditTransaction, error) {
	var txns []models.CreditTransaction
	for rows.Next() {
		var (
			t                     models.CreditTransaction
			userName, userEmail   string
			adminName, adminEmail *string
		)
		err := rows.Scan(&t.ID, &t.UUID, &t.UserID, &t.AdminID, &t.Amount, &t.BalanceAfter, &t.Type, &t.Reason,
			&t.Description, &t.OrderID, &t.Metadata, &t.CreatedAt,
			&userName, &userEmail, &adminName, &adminEmail)
		if err != nil {
			return nil, err
		}

		t.User = &models.UserSummary{ID: t.UserID, Username: userName, Email: userEmail}
		if t.AdminID != nil && adminName != nil {
			t.Admin = &models.UserSummary{ID: *t.AdminID, Username: *adminName}
			if adminEmail != nil {
				t.Admin.Email = *adminEmail
			}
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
