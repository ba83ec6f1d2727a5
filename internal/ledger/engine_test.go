package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashbookhq/cashbook/internal/domain"
	"github.com/cashbookhq/cashbook/internal/ledger"
)

func pay(id, clientID int64, amount float64, ts time.Time, tag, note string) *domain.Payment {
	status := domain.PaymentReceived
	if amount < 0 {
		status = domain.PaymentSent
	}
	return &domain.Payment{
		ID:        id,
		UserID:    1,
		ClientID:  clientID,
		Amount:    decimal.NewFromFloat(amount),
		Timestamp: ts,
		Tag:       tag,
		Note:      note,
		Status:    status,
	}
}

func TestBuildEntriesRunningBalance(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	payments := []*domain.Payment{
		pay(1, 5, 100, base, "invoice", "march order"),
		pay(2, 5, -30, base.Add(24*time.Hour), "refund", "damaged goods"),
		pay(3, 5, 50, base.Add(48*time.Hour), "invoice", "restock"),
	}

	entries := ledger.BuildEntries(payments)
	require.Len(t, entries, 3)

	assert.Equal(t, "100", entries[0].Balance.String())
	assert.Equal(t, "70", entries[1].Balance.String())
	assert.Equal(t, "120", entries[2].Balance.String())
}

func TestBuildEntriesColumns(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := ledger.BuildEntries([]*domain.Payment{
		pay(1, 5, -40, base, "supply", "cash out"),
		pay(2, 5, 25, base.Add(time.Hour), "sale", "cash in"),
	})
	require.Len(t, entries, 2)

	assert.Equal(t, "supply - cash out", entries[0].Description)
	assert.Equal(t, "40", entries[0].Debit.String())
	assert.True(t, entries[0].Credit.IsZero())
	assert.Equal(t, "-40", entries[0].Balance.String())

	assert.Equal(t, "sale - cash in", entries[1].Description)
	assert.True(t, entries[1].Debit.IsZero())
	assert.Equal(t, "25", entries[1].Credit.String())
	assert.Equal(t, "-15", entries[1].Balance.String())
}

func TestBuildEntriesEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ledger.BuildEntries(nil))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("mixed_payments", func(t *testing.T) {
		t.Parallel()

		base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		s := ledger.Summarize([]*domain.Payment{
			pay(1, 5, -40, base, "supply", ""),
			pay(2, 5, 25, base.Add(time.Hour), "sale", ""),
		})

		assert.Equal(t, "40", s.TotalDebit.String())
		assert.Equal(t, "25", s.TotalCredit.String())
		assert.Equal(t, "-15", s.OutstandingBalance.String())
		require.NotNil(t, s.LastTransaction)
		assert.Equal(t, base.Add(time.Hour), *s.LastTransaction)
	})

	t.Run("no_payments_normalizes_to_zero", func(t *testing.T) {
		t.Parallel()

		s := ledger.Summarize(nil)
		assert.True(t, s.TotalDebit.IsZero())
		assert.True(t, s.TotalCredit.IsZero())
		assert.True(t, s.OutstandingBalance.IsZero())
		assert.Nil(t, s.LastTransaction)
	})
}

func TestSummarizeClients(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	clients := []*domain.Client{
		{ID: 1, UserID: 1, Name: "Asha", Phone: "111"},
		{ID: 2, UserID: 1, Name: "Bilal", Phone: "222"},
		{ID: 3, UserID: 1, Name: "Chand", Phone: "333"},
	}
	payments := []*domain.Payment{
		pay(1, 1, 50, base, "sale", ""),
		pay(2, 2, 200, base, "sale", ""),
		pay(3, 2, -20, base.Add(time.Hour), "refund", ""),
	}

	summaries := ledger.SummarizeClients(clients, payments)
	require.Len(t, summaries, 3)

	// Ordered by outstanding balance descending; client without payments
	// reports zeros.
	assert.Equal(t, int64(2), summaries[0].ClientID)
	assert.Equal(t, "180", summaries[0].OutstandingBalance.String())
	assert.Equal(t, int64(1), summaries[1].ClientID)
	assert.Equal(t, "50", summaries[1].OutstandingBalance.String())
	assert.Equal(t, int64(3), summaries[2].ClientID)
	assert.True(t, summaries[2].OutstandingBalance.IsZero())
	assert.Nil(t, summaries[2].LastTransaction)
	assert.Equal(t, "Chand", summaries[2].ClientName)
}

func TestSummarizeClientsIdempotent(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	clients := []*domain.Client{
		{ID: 1, UserID: 1, Name: "Asha"},
		{ID: 2, UserID: 1, Name: "Bilal"},
	}
	payments := []*domain.Payment{
		pay(1, 1, 10, base, "sale", ""),
		pay(2, 2, 10, base, "sale", ""),
	}

	first := ledger.SummarizeClients(clients, payments)
	second := ledger.SummarizeClients(clients, payments)
	assert.Equal(t, first, second)

	// Equal balances keep the input client order.
	assert.Equal(t, int64(1), first[0].ClientID)
	assert.Equal(t, int64(2), first[1].ClientID)
}
