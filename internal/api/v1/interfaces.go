package v1

import (
	"context"

	"github.com/cashbookhq/cashbook/internal/domain"
	"github.com/cashbookhq/cashbook/internal/ledger"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Users() domain.UserRepository
	Clients() domain.ClientRepository
	Payments() domain.PaymentRepository
	Installments() domain.InstallmentRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Signup(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	Refresh(ctx context.Context, userID int64) (*domain.User, string, error)
	ResetPassword(ctx context.Context, userID int64, newPassword string) error
	Logout(ctx context.Context, rawToken string) error
}

// LedgerService abstracts ledger derivation for handler testing.
// *ledger.Service satisfies this interface.
type LedgerService interface {
	ClientLedger(ctx context.Context, userID, clientID int64, rng domain.DateRange) ([]ledger.Entry, error)
	ClientSummary(ctx context.Context, userID, clientID int64) (ledger.Summary, error)
	AllClientsSummary(ctx context.Context, userID int64) ([]ledger.ClientSummary, error)
}
