package domain

import (
	"context"
	"errors"
	"time"
)

// Client is a party the user keeps accounts with. Owned by exactly one user;
// cross-user access must be rejected, not merely hidden.
type Client struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClient creates a Client with validated required fields.
func NewClient(userID int64, name, phone, address string) (*Client, error) {
	if userID <= 0 {
		return nil, errors.New("client: user ID is required")
	}
	if name == "" || phone == "" || address == "" {
		return nil, errors.New("client: name, phone and address are required")
	}
	return &Client{
		UserID:    userID,
		Name:      name,
		Phone:     phone,
		Address:   address,
		CreatedAt: time.Now(),
	}, nil
}

// ClientFilter narrows a client listing. Zero value lists all clients of
// the user ordered by name.
type ClientFilter struct {
	ID     *int64
	Search string // free-text match against name or phone
}

type ClientRepository interface {
	List(ctx context.Context, userID int64, filter ClientFilter) ([]*Client, error)
	GetByID(ctx context.Context, userID, id int64) (*Client, error)
	Create(ctx context.Context, c *Client) error
	Update(ctx context.Context, c *Client) error
	// Delete removes the client and every payment, installment plan and
	// installment referencing it, atomically or not at all.
	Delete(ctx context.Context, userID, id int64) error
}
