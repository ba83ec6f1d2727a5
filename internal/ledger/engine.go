// Package ledger derives balance views from stored payment records: running
// ledgers, per-client summaries, and installment schedules. Everything here
// is a pure computation over repository results; nothing is cached and each
// call re-derives from source records.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashbookhq/cashbook/internal/domain"
)

// Entry is one row of a client's transaction history. Balance is the
// cumulative signed sum of amounts up to and including this row, seeded at
// zero at the start of the queried window.
type Entry struct {
	PaymentID   int64
	ClientID    int64
	Date        time.Time
	Description string // "<tag> - <note>"
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
	Reference   string
	Notes       string
}

// BuildEntries turns payments, already ordered by timestamp ascending, into
// ledger entries with a left-to-right running balance.
func BuildEntries(payments []*domain.Payment) []Entry {
	entries := make([]Entry, 0, len(payments))
	balance := decimal.Zero

	for _, p := range payments {
		balance = balance.Add(p.Amount)

		e := Entry{
			PaymentID:   p.ID,
			ClientID:    p.ClientID,
			Date:        p.Timestamp,
			Description: p.Tag + " - " + p.Note,
			Balance:     balance,
			Reference:   p.Tag,
			Notes:       p.Note,
		}
		if p.Amount.IsNegative() {
			e.Debit = p.Amount.Abs()
			e.Credit = decimal.Zero
		} else {
			e.Debit = decimal.Zero
			e.Credit = p.Amount
		}
		entries = append(entries, e)
	}

	return entries
}

// Summary aggregates a client's payments. OutstandingBalance is the signed
// sum: positive means net owed to the business.
type Summary struct {
	TotalDebit         decimal.Decimal
	TotalCredit        decimal.Decimal
	OutstandingBalance decimal.Decimal
	LastTransaction    *time.Time
}

// Summarize aggregates payments into totals. No payments normalizes to
// zeros and an absent last-transaction date.
func Summarize(payments []*domain.Payment) Summary {
	s := Summary{
		TotalDebit:         decimal.Zero,
		TotalCredit:        decimal.Zero,
		OutstandingBalance: decimal.Zero,
	}

	for _, p := range payments {
		if p.Amount.IsNegative() {
			s.TotalDebit = s.TotalDebit.Add(p.Amount.Abs())
		} else {
			s.TotalCredit = s.TotalCredit.Add(p.Amount)
		}
		s.OutstandingBalance = s.OutstandingBalance.Add(p.Amount)

		if s.LastTransaction == nil || p.Timestamp.After(*s.LastTransaction) {
			ts := p.Timestamp
			s.LastTransaction = &ts
		}
	}

	return s
}

// ClientSummary is a per-client aggregate with display fields.
type ClientSummary struct {
	ClientID    int64
	ClientName  string
	ClientPhone string
	Summary
}

// SummarizeClients aggregates every client's payments, including clients
// with none, ordered by outstanding balance descending. Ties keep the input
// client order.
func SummarizeClients(clients []*domain.Client, payments []*domain.Payment) []ClientSummary {
	byClient := make(map[int64][]*domain.Payment, len(clients))
	for _, p := range payments {
		byClient[p.ClientID] = append(byClient[p.ClientID], p)
	}

	summaries := make([]ClientSummary, 0, len(clients))
	for _, c := range clients {
		summaries = append(summaries, ClientSummary{
			ClientID:    c.ID,
			ClientName:  c.Name,
			ClientPhone: c.Phone,
			Summary:     Summarize(byClient[c.ID]),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].OutstandingBalance.GreaterThan(summaries[j].OutstandingBalance)
	})

	return summaries
}
