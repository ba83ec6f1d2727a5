package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cashbookhq/cashbook/internal/domain"
)

type ClientRepo struct {
	pool *pgxpool.Pool
}

func NewClientRepo(pool *pgxpool.Pool) *ClientRepo {
	return &ClientRepo{pool: pool}
}

func (r *ClientRepo) List(ctx context.Context, userID int64, filter domain.ClientFilter) ([]*domain.Client, error) {
	query := `SELECT id, user_id, name, phone, address, created_at
		 FROM clients WHERE user_id = $1`
	args := []any{userID}

	switch {
	case filter.ID != nil:
		query += ` AND id = $2`
		args = append(args, *filter.ID)
	case filter.Search != "":
		query += ` AND (name ILIKE $2 OR phone ILIKE $2)`
		args = append(args, "%"+filter.Search+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("clientRepo.List: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		var c domain.Client

		err = rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Address, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("clientRepo.List: scan: %w", err)
		}

		clients = append(clients, &c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("clientRepo.List: rows: %w", err)
	}

	return clients, nil
}

func (r *ClientRepo) GetByID(ctx context.Context, userID, id int64) (*domain.Client, error) {
	var c domain.Client

	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, name, phone, address, created_at
		 FROM clients WHERE user_id = $1 AND id = $2`,
		userID, id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Address, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *ClientRepo) Create(ctx context.Context, c *domain.Client) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO clients (user_id, name, phone, address, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		c.UserID, c.Name, c.Phone, c.Address, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("clientRepo.Create: %w", err)
	}

	return nil
}

func (r *ClientRepo) Update(ctx context.Context, c *domain.Client) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE clients SET name = $1, phone = $2, address = $3
		 WHERE user_id = $4 AND id = $5`,
		c.Name, c.Phone, c.Address, c.UserID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("clientRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("clientRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the client and all dependent records through the
// delete_client_with_relations procedure, which deletes installments,
// plans and payments before the client row in a single transaction.
func (r *ClientRepo) Delete(ctx context.Context, userID, id int64) error {
	_, err := r.pool.Exec(ctx,
		`CALL delete_client_with_relations($1, $2)`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("clientRepo.Delete: %w", err)
	}

	return nil
}
