package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hostmarket/backend/internal/models"
)

// UserDirectory resolves panel accounts.
type UserDirectory interface {
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// ServerDirectory resolves servers and manages subuser access. Access changes
// run on the caller's transaction so they commit or roll back with it.
type ServerDirectory interface {
	ServerByID(ctx context.Context, id int64) (*models.Server, error)
	IsCollaborator(ctx context.Context, serverID, userID int64) (bool, error)
	GrantAccess(ctx context.Context, tx *sql.Tx, serverID, userID int64, permissions []string) error
	RevokeAccess(ctx context.Context, tx *sql.Tx, serverID, userID int64) error
}

// OrderDirectory resolves marketplace orders.
type OrderDirectory interface {
	OrderByID(ctx context.Context, id int64) (*models.Order, error)
}

// FullAccess is the subuser permission scope granted to billing co-owners.
var FullAccess = []string{"*"}

// PanelDirectory reads the panel's users, servers, subusers and orders tables.
type PanelDirectory struct {
	db *sql.DB
}

func NewPanelDirectory(db *sql.DB) *PanelDirectory {
	return &PanelDirectory{db: db}
}

const userColumns = `id, uuid, username, email, name_first, name_last, credits, root_admin, created_at, updated_at`

func (d *PanelDirectory) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return d.scanUser(d.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (d *PanelDirectory) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.scanUser(d.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, strings.TrimSpace(email)))
}

func (d *PanelDirectory) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.UUID, &u.Username, &u.Email, &u.NameFirst, &u.NameLast,
		&u.Credits, &u.RootAdmin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundError("User not found")
	}
	if err != nil {
		return nil, internalError(err, "Failed to load user")
	}
	return &u, nil
}

func (d *PanelDirectory) ServerByID(ctx context.Context, id int64) (*models.Server, error) {
	var s models.Server
	err := d.db.QueryRowContext(ctx, `SELECT id, uuid, name, owner_id FROM servers WHERE id = $1`, id).
		Scan(&s.ID, &s.UUID, &s.Name, &s.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundError("Server not found")
	}
	if err != nil {
		return nil, internalError(err, "Failed to load server")
	}
	return &s, nil
}

func (d *PanelDirectory) IsCollaborator(ctx context.Context, serverID, userID int64) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM subusers WHERE server_id = $1 AND user_id = $2)`,
		serverID, userID).Scan(&exists)
	if err != nil {
		return false, internalError(err, "Failed to check server access")
	}
	return exists, nil
}

func (d *PanelDirectory) GrantAccess(ctx context.Context, tx *sql.Tx, serverID, userID int64, permissions []string) error {
	perms, err := json.Marshal(permissions)
	if err != nil {
		return fmt.Errorf("encoding permissions: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO subusers (user_id, server_id, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, server_id) DO UPDATE SET permissions = EXCLUDED.permissions, updated_at = NOW()`,
		userID, serverID, string(perms))
	return err
}

func (d *PanelDirectory) RevokeAccess(ctx context.Context, tx *sql.Tx, serverID, userID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM subusers WHERE server_id = $1 AND user_id = $2`, serverID, userID)
	return err
}

func (d *PanelDirectory) OrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := d.db.QueryRowContext(ctx,
		`SELECT id, uuid, order_number, user_id, total, status FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.UUID, &o.OrderNumber, &o.UserID, &o.Total, &o.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundError("Order not found")
	}
	if err != nil {
		return nil, internalError(err, "Failed to load order")
	}
	return &o, nil
}
