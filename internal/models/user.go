package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the panel account as seen by the billing core.
type User struct {
	ID        int64           `json:"id" example:"1"`
	UUID      string          `json:"uuid"`
	Username  string          `json:"username" example:"johndoe"`
	Email     string          `json:"email" example:"user@example.com"`
	NameFirst string          `json:"name_first" example:"John"`
	NameLast  string          `json:"name_last" example:"Doe"`
	Credits   decimal.Decimal `json:"credits"`
	RootAdmin bool            `json:"root_admin"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Summary returns the minimal identity joined onto ledger and share rows.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		NameFirst: u.NameFirst,
		NameLast:  u.NameLast,
	}
}

// UserSummary is a minimal user identity.
type UserSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	NameFirst string `json:"name_first,omitempty"`
	NameLast  string `json:"name_last,omitempty"`
}

// Server is the hosting panel server; ownership and subusers belong to the panel.
type Server struct {
	ID      int64  `json:"id"`
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

// ServerSummary is the server identity returned with invitations.
type ServerSummary struct {
	ID   int64  `json:"id"`
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// Order is the marketplace order a payment entry may cite.
type Order struct {
	ID          int64           `json:"id"`
	UUID        string          `json:"uuid"`
	OrderNumber string          `json:"order_number"`
	UserID      int64           `json:"user_id"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// NewPage builds a page envelope, computing the last page from total.
func NewPage[T any](data []T, page, perPage int, total int64) *Page[T] {
	if data == nil {
		data = []T{}
	}
	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return &Page[T]{
		Data:        data,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
}
