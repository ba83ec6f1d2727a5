package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cashbookhq/cashbook/internal/domain"
	"github.com/cashbookhq/cashbook/internal/server/middleware"
)

type GetLedgerInput struct {
	ClientID int64  `query:"client_id" doc:"Client ID"`
	From     string `query:"from" doc:"Inclusive start date, YYYY-MM-DD"`
	To       string `query:"to" doc:"Inclusive end date, YYYY-MM-DD"`
}

type GetLedgerOutput struct {
	Body Envelope[[]*LedgerEntryDTO]
}

type GetSummaryInput struct {
	ClientID int64 `query:"client_id" doc:"Client ID"`
}

type GetSummaryOutput struct {
	Body Envelope[*SummaryDTO]
}

type ClientsSummaryInput struct{}

type ClientsSummaryOutput struct {
	Body Envelope[[]*ClientSummaryDTO]
}

func RegisterLedgerRoutes(api huma.API, ledgerSvc LedgerService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-ledger",
		Method:      http.MethodGet,
		Path:        "/ledger",
		Summary:     "Running-balance transaction history for one client",
		Tags:        []string{"Ledger"},
	}, func(ctx context.Context, input *GetLedgerInput) (*GetLedgerOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		if input.ClientID <= 0 {
			return nil, huma.Error400BadRequest("Valid client ID is required")
		}

		var rng domain.DateRange
		if input.From != "" {
			from, err := parseDate("from", input.From)
			if err != nil {
				return nil, huma.Error400BadRequest(err.Error())
			}
			rng.From = &from
		}
		if input.To != "" {
			to, err := parseDate("to", input.To)
			if err != nil {
				return nil, huma.Error400BadRequest(err.Error())
			}
			rng.To = &to
		}

		entries, err := ledgerSvc.ClientLedger(ctx, userID, input.ClientID, rng)
		if err != nil {
			if errors.Is(err, domain.ErrAccessDenied) {
				return nil, huma.Error403Forbidden("Client not found or access denied")
			}
			return nil, huma.Error500InternalServerError("Failed to build ledger")
		}

		return &GetLedgerOutput{Body: dataEnvelope("", ledgerEntryDTOs(entries))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-ledger-summary",
		Method:      http.MethodGet,
		Path:        "/ledger/summary",
		Summary:     "Aggregate totals for one client",
		Tags:        []string{"Ledger"},
	}, func(ctx context.Context, input *GetSummaryInput) (*GetSummaryOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		if input.ClientID <= 0 {
			return nil, huma.Error400BadRequest("Valid client ID is required")
		}

		summary, err := ledgerSvc.ClientSummary(ctx, userID, input.ClientID)
		if err != nil {
			if errors.Is(err, domain.ErrAccessDenied) {
				return nil, huma.Error403Forbidden("Client not found or access denied")
			}
			return nil, huma.Error500InternalServerError("Failed to build summary")
		}

		return &GetSummaryOutput{Body: dataEnvelope("", summaryDTO(summary))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-clients-summary",
		Method:      http.MethodGet,
		Path:        "/ledger/clients-summary",
		Summary:     "Aggregate totals for every client, most owed first",
		Tags:        []string{"Ledger"},
	}, func(ctx context.Context, _ *ClientsSummaryInput) (*ClientsSummaryOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		summaries, err := ledgerSvc.AllClientsSummary(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to build summaries")
		}

		return &ClientsSummaryOutput{Body: dataEnvelope("", clientSummaryDTOs(summaries))}, nil
	})
}
