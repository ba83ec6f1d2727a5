package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cashbookhq/cashbook/internal/domain"
)

type Store struct {
	pool         *pgxpool.Pool
	users        *UserRepo
	clients      *ClientRepo
	payments     *PaymentRepo
	installments *InstallmentRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:         pool,
		users:        NewUserRepo(pool),
		clients:      NewClientRepo(pool),
		payments:     NewPaymentRepo(pool),
		installments: NewInstallmentRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Users() domain.UserRepository               { return s.users }
func (s *Store) Clients() domain.ClientRepository           { return s.clients }
func (s *Store) Payments() domain.PaymentRepository         { return s.payments }
func (s *Store) Installments() domain.InstallmentRepository { return s.installments }
