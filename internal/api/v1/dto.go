package v1

import (
	"time"

	"github.com/cashbookhq/cashbook/internal/domain"
	"github.com/cashbookhq/cashbook/internal/ledger"
)

// API representations. Monetary amounts are serialized as JSON numbers with
// two-decimal precision; domain code keeps them as decimals.

type ClientDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func clientDTO(c *domain.Client) *ClientDTO {
	return &ClientDTO{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

func clientDTOs(clients []*domain.Client) []*ClientDTO {
	out := make([]*ClientDTO, 0, len(clients))
	for _, c := range clients {
		out = append(out, clientDTO(c))
	}
	return out
}

type PaymentDTO struct {
	ID            int64     `json:"id"`
	ClientID      int64     `json:"client_id"`
	Amount        float64   `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
	Tag           string    `json:"tag,omitempty"`
	Note          string    `json:"note,omitempty"`
	Status        string    `json:"status"`
	InstallmentID *int64    `json:"installment_id,omitempty"`
	ClientName    string    `json:"client_name,omitempty"`
	ClientPhone   string    `json:"client_phone,omitempty"`
}

func paymentDTO(p *domain.Payment) *PaymentDTO {
	return &PaymentDTO{
		ID:            p.ID,
		ClientID:      p.ClientID,
		Amount:        p.Amount.InexactFloat64(),
		Timestamp:     p.Timestamp,
		Tag:           p.Tag,
		Note:          p.Note,
		Status:        string(p.Status),
		InstallmentID: p.InstallmentID,
	}
}

func paymentWithClientDTOs(payments []*domain.PaymentWithClient) []*PaymentDTO {
	out := make([]*PaymentDTO, 0, len(payments))
	for _, p := range payments {
		dto := paymentDTO(&p.Payment)
		dto.ClientName = p.ClientName
		dto.ClientPhone = p.ClientPhone
		out = append(out, dto)
	}
	return out
}

type PlanDTO struct {
	ID                int64     `json:"id"`
	ClientID          int64     `json:"client_id"`
	TotalAmount       float64   `json:"total_amount"`
	Months            int       `json:"months"`
	StartDate         string    `json:"start_date"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	TotalInstallments int       `json:"total_installments"`
	PaidInstallments  int       `json:"paid_installments"`
	IsCompleted       bool      `json:"is_completed"`
}

func planDTO(p *domain.PlanWithProgress) *PlanDTO {
	return &PlanDTO{
		ID:                p.ID,
		ClientID:          p.ClientID,
		TotalAmount:       p.TotalAmount.InexactFloat64(),
		Months:            p.Months,
		StartDate:         p.StartDate.Format("2006-01-02"),
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt,
		TotalInstallments: p.TotalInstallments,
		PaidInstallments:  p.PaidInstallments,
		IsCompleted:       p.IsCompleted(),
	}
}

type InstallmentDTO struct {
	ID        int64   `json:"id"`
	PlanID    int64   `json:"plan_id"`
	MonthYear string  `json:"month_year"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
}

func installmentDTO(i *domain.Installment) *InstallmentDTO {
	return &InstallmentDTO{
		ID:        i.ID,
		PlanID:    i.PlanID,
		MonthYear: i.MonthYear,
		Amount:    i.Amount.InexactFloat64(),
		Status:    string(i.Status),
	}
}

func installmentDTOs(installments []*domain.Installment) []*InstallmentDTO {
	out := make([]*InstallmentDTO, 0, len(installments))
	for _, i := range installments {
		out = append(out, installmentDTO(i))
	}
	return out
}

type LedgerEntryDTO struct {
	PaymentID   int64     `json:"payment_id"`
	ClientID    int64     `json:"client_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Debit       float64   `json:"debit"`
	Credit      float64   `json:"credit"`
	Balance     float64   `json:"balance"`
	Reference   string    `json:"reference,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

func ledgerEntryDTOs(entries []ledger.Entry) []*LedgerEntryDTO {
	out := make([]*LedgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, &LedgerEntryDTO{
			PaymentID:   e.PaymentID,
			ClientID:    e.ClientID,
			Date:        e.Date,
			Description: e.Description,
			Debit:       e.Debit.InexactFloat64(),
			Credit:      e.Credit.InexactFloat64(),
			Balance:     e.Balance.InexactFloat64(),
			Reference:   e.Reference,
			Notes:       e.Notes,
		})
	}
	return out
}

type SummaryDTO struct {
	TotalDebit         float64    `json:"total_debit"`
	TotalCredit        float64    `json:"total_credit"`
	OutstandingBalance float64    `json:"outstanding_balance"`
	LastTransaction    *time.Time `json:"last_transaction"`
}

func summaryDTO(s ledger.Summary) *SummaryDTO {
	return &SummaryDTO{
		TotalDebit:         s.TotalDebit.InexactFloat64(),
		TotalCredit:        s.TotalCredit.InexactFloat64(),
		OutstandingBalance: s.OutstandingBalance.InexactFloat64(),
		LastTransaction:    s.LastTransaction,
	}
}

type ClientSummaryDTO struct {
	ClientID    int64  `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone,omitempty"`
	SummaryDTO
}

func clientSummaryDTOs(summaries []ledger.ClientSummary) []*ClientSummaryDTO {
	out := make([]*ClientSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, &ClientSummaryDTO{
			ClientID:    s.ClientID,
			ClientName:  s.ClientName,
			ClientPhone: s.ClientPhone,
			SummaryDTO:  *summaryDTO(s.Summary),
		})
	}
	return out
}
