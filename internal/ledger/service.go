package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/cashbookhq/cashbook/internal/domain"
)

// Service orchestrates ledger reads: it verifies client ownership, fetches
// the relevant payments, and hands them to the pure computations above. All
// operations are read-only and side-effect free.
type Service struct {
	clients  domain.ClientRepository
	payments domain.PaymentRepository
}

func NewService(clients domain.ClientRepository, payments domain.PaymentRepository) *Service {
	return &Service{clients: clients, payments: payments}
}

// ClientLedger returns one client's entries within the optional inclusive
// date range. The running balance is relative to the start of the queried
// window, not the client's all-time balance. A client not owned by userID
// yields ErrAccessDenied.
func (s *Service) ClientLedger(ctx context.Context, userID, clientID int64, rng domain.DateRange) ([]Entry, error) {
	if err := s.checkOwnership(ctx, userID, clientID); err != nil {
		return nil, fmt.Errorf("ledger.ClientLedger: %w", err)
	}

	payments, err := s.payments.ListByClient(ctx, userID, clientID, rng)
	if err != nil {
		return nil, fmt.Errorf("ledger.ClientLedger: %w", err)
	}

	return BuildEntries(payments), nil
}

// ClientSummary aggregates all of a client's payments, never date-filtered.
func (s *Service) ClientSummary(ctx context.Context, userID, clientID int64) (Summary, error) {
	if err := s.checkOwnership(ctx, userID, clientID); err != nil {
		return Summary{}, fmt.Errorf("ledger.ClientSummary: %w", err)
	}

	payments, err := s.payments.ListByClient(ctx, userID, clientID, domain.DateRange{})
	if err != nil {
		return Summary{}, fmt.Errorf("ledger.ClientSummary: %w", err)
	}

	return Summarize(payments), nil
}

// AllClientsSummary aggregates every client of the user, largest
// outstanding balance first.
func (s *Service) AllClientsSummary(ctx context.Context, userID int64) ([]ClientSummary, error) {
	clients, err := s.clients.List(ctx, userID, domain.ClientFilter{})
	if err != nil {
		return nil, fmt.Errorf("ledger.AllClientsSummary: %w", err)
	}

	payments, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ledger.AllClientsSummary: %w", err)
	}

	return SummarizeClients(clients, payments), nil
}

func (s *Service) checkOwnership(ctx context.Context, userID, clientID int64) error {
	_, err := s.clients.GetByID(ctx, userID, clientID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrAccessDenied
	}
	return err
}
