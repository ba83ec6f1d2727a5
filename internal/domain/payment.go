package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the direction of a payment from the user's point of view.
type PaymentStatus string

const (
	PaymentSent     PaymentStatus = "sent"     // outflow, stored negative
	PaymentReceived PaymentStatus = "received" // inflow, stored positive
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentSent || s == PaymentReceived
}

// Payment is a single signed ledger movement against a client. Immutable
// once recorded. The stored amount sign always matches Status regardless of
// the sign supplied by the caller.
type Payment struct {
	ID            int64
	UserID        int64
	ClientID      int64
	Amount        decimal.Decimal
	Timestamp     time.Time
	Tag           string
	Note          string
	Status        PaymentStatus
	InstallmentID *int64 // set when this payment discharges an installment
}

// PaymentWithClient is a payment joined with its client's display fields.
type PaymentWithClient struct {
	Payment
	ClientName  string
	ClientPhone string
}

// NormalizeAmount forces the sign of amount to match status: sent payments
// are stored negative, received payments positive.
func NormalizeAmount(status PaymentStatus, amount decimal.Decimal) decimal.Decimal {
	switch status {
	case PaymentSent:
		return amount.Abs().Neg()
	case PaymentReceived:
		return amount.Abs()
	}
	return amount
}

// DateRange is an optional inclusive calendar-date filter. Nil bounds are
// open ends.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

type PaymentRepository interface {
	// Create records the payment. When InstallmentID is set, the referenced
	// installment is marked paid and its plan completed once no pending
	// installments remain, all within a single transaction.
	Create(ctx context.Context, p *Payment) error
	// ListWithClient returns all of the user's payments joined with client
	// display fields, newest first.
	ListWithClient(ctx context.Context, userID int64) ([]*PaymentWithClient, error)
	// ListByClient returns one client's payments within the optional date
	// range, ordered by timestamp ascending (id ascending breaks ties).
	ListByClient(ctx context.Context, userID, clientID int64, rng DateRange) ([]*Payment, error)
	// ListByUser returns every payment of the user, ordered by timestamp
	// ascending.
	ListByUser(ctx context.Context, userID int64) ([]*Payment, error)
}
