package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/pkowalke/algohost/models"
)

var log = logrus.WithField("component", "storage")

const schema = `
CREATE TABLE IF NOT EXISTS signals (
	id        BIGSERIAL PRIMARY KEY,
	symbol    TEXT NOT NULL,
	type      TEXT NOT NULL,
	percent   DOUBLE PRECISION NOT NULL,
	price     DOUBLE PRECISION NOT NULL,
	reason    TEXT NOT NULL DEFAULT '',
	emitted_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS fills (
	id        BIGSERIAL PRIMARY KEY,
	order_id  TEXT NOT NULL,
	symbol    TEXT NOT NULL,
	side      TEXT NOT NULL,
	quantity  DOUBLE PRECISION NOT NULL,
	price     DOUBLE PRECISION NOT NULL,
	notional  DOUBLE PRECISION NOT NULL,
	filled_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS equity_samples (
	id         BIGSERIAL PRIMARY KEY,
	equity     DOUBLE PRECISION NOT NULL,
	sampled_at TIMESTAMPTZ NOT NULL
);
`

// Store persists session history to Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens the pool and bootstraps the schema.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage schema: %w", err)
	}
	log.Info("connected")
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) RecordSignal(ctx context.Context, sig models.Signal) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO signals (symbol, type, percent, price, reason, emitted_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		sig.Symbol, sig.Type.String(), sig.Percent, sig.Price, sig.Reason, sig.Time)
	return err
}

func (s *Store) RecordFill(ctx context.Context, fill models.Fill) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO fills (order_id, symbol, side, quantity, price, notional, filled_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		fill.OrderID, fill.Symbol, fill.Side.String(), fill.Quantity, fill.Price, fill.NotionalUSD, fill.Time)
	return err
}

func (s *Store) RecordEquity(ctx context.Context, t time.Time, equity float64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO equity_samples (equity, sampled_at) VALUES ($1, $2)`,
		equity, t)
	return err
}
