package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cashbookhq/cashbook/internal/domain"
	"github.com/cashbookhq/cashbook/internal/server/middleware"
)

type ListClientsInput struct {
	ID     int64  `query:"id" doc:"Restrict to a single client ID"`
	Search string `query:"search" doc:"Free-text match against name or phone"`
}

type ListClientsOutput struct {
	Body Envelope[[]*ClientDTO]
}

type CreateClientInput struct {
	Body struct {
		Name    string `json:"name,omitempty" maxLength:"255" doc:"Client name"`
		Phone   string `json:"phone,omitempty" maxLength:"64" doc:"Phone number"`
		Address string `json:"address,omitempty" maxLength:"512" doc:"Postal address"`
	}
}

type CreateClientOutput struct {
	Body Envelope[*ClientDTO]
}

type UpdateClientInput struct {
	ID   int64 `path:"id" doc:"Client ID"`
	Body struct {
		Name    string `json:"name,omitempty" maxLength:"255" doc:"Client name"`
		Phone   string `json:"phone,omitempty" maxLength:"64" doc:"Phone number"`
		Address string `json:"address,omitempty" maxLength:"512" doc:"Postal address"`
	}
}

type UpdateClientOutput struct {
	Body Envelope[*ClientDTO]
}

type DeleteClientInput struct {
	ID int64 `path:"id" doc:"Client ID"`
}

func RegisterClientRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-clients",
		Method:      http.MethodGet,
		Path:        "/clients",
		Summary:     "List the current user's clients",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *ListClientsInput) (*ListClientsOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		filter := domain.ClientFilter{Search: input.Search}
		if input.ID > 0 {
			filter.ID = &input.ID
		}

		clients, err := store.Clients().List(ctx, userID, filter)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to list clients")
		}

		return &ListClientsOutput{Body: dataEnvelope("", clientDTOs(clients))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-client",
		Method:      http.MethodPost,
		Path:        "/clients",
		Summary:     "Add a client",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *CreateClientInput) (*CreateClientOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		client, err := domain.NewClient(userID, input.Body.Name, input.Body.Phone, input.Body.Address)
		if err != nil {
			return nil, huma.Error400BadRequest("Name, phone and address are required")
		}

		if err := store.Clients().Create(ctx, client); err != nil {
			return nil, huma.Error500InternalServerError("Failed to add client")
		}

		return &CreateClientOutput{
			Body: dataEnvelope("Client added successfully", clientDTO(client)),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-client",
		Method:      http.MethodPut,
		Path:        "/clients/{id}",
		Summary:     "Update a client",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *UpdateClientInput) (*UpdateClientOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		if input.Body.Name == "" || input.Body.Phone == "" || input.Body.Address == "" {
			return nil, huma.Error400BadRequest("Name, phone and address are required")
		}

		client, err := store.Clients().GetByID(ctx, userID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error403Forbidden("Client not found or access denied")
			}
			return nil, huma.Error500InternalServerError("Failed to update client")
		}

		client.Name = input.Body.Name
		client.Phone = input.Body.Phone
		client.Address = input.Body.Address

		if err := store.Clients().Update(ctx, client); err != nil {
			return nil, huma.Error500InternalServerError("Failed to update client")
		}

		return &UpdateClientOutput{
			Body: dataEnvelope("Client updated successfully", clientDTO(client)),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-client",
		Method:      http.MethodDelete,
		Path:        "/clients/{id}",
		Summary:     "Delete a client and all related records",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *DeleteClientInput) (*MessageOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		if _, err := store.Clients().GetByID(ctx, userID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("Client not found or access denied")
			}
			return nil, huma.Error500InternalServerError("Failed to delete client")
		}

		if err := store.Clients().Delete(ctx, userID, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("Failed to delete client")
		}

		return &MessageOutput{
			Body: MessageEnvelope{Success: true, Message: "Client and all related records deleted successfully"},
		}, nil
	})
}
