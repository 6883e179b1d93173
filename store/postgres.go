package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	prefix       TEXT PRIMARY KEY,
	email        TEXT NOT NULL,
	token        TEXT NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL,
	expired_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluations (
	id                UUID PRIMARY KEY,
	product           TEXT NOT NULL,
	structure_type    TEXT NOT NULL,
	autocalled        BOOLEAN NOT NULL,
	knock_in_breached BOOLEAN NOT NULL,
	total_value       NUMERIC NOT NULL,
	result            JSONB NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS evaluations_created_at_idx ON evaluations (created_at DESC);
`

// PostgresStore implements Store using PostgreSQL as the source of truth.
// Monetary values are stored as NUMERIC for exact decimal precision.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Connect opens a pool, verifies the connection and bootstraps the schema.
func Connect(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := NewPostgresStore(pool)
	if err := s.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// InitSchema creates the tables when they do not exist yet.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) InsertUser(ctx context.Context, user User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (prefix, email, token, generated_at, expired_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.Prefix, user.Email, user.Token, user.GeneratedAt, user.ExpiredAt,
	)
	return err
}

func (s *PostgresStore) GetUser(ctx context.Context, prefix string) (User, error) {
	var user User
	err := s.pool.QueryRow(ctx,
		`SELECT prefix, email, token, generated_at, expired_at
		 FROM users WHERE prefix = $1`, prefix).
		Scan(&user.Prefix, &user.Email, &user.Token, &user.GeneratedAt, &user.ExpiredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("user %s: %w", prefix, ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user %s: %w", prefix, err)
	}
	return user, nil
}

func (s *PostgresStore) InsertEvaluation(ctx context.Context, eval Evaluation) (Evaluation, error) {
	if eval.ID == uuid.Nil {
		eval.ID = uuid.New()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO evaluations (id, product, structure_type, autocalled, knock_in_breached, total_value, result)
		 VALUES ($1::UUID, $2, $3, $4, $5, $6::NUMERIC, $7::JSONB)
		 RETURNING created_at`,
		eval.ID.String(), eval.Product, eval.StructureType,
		eval.Autocalled, eval.KnockInBreached,
		eval.TotalValue.String(), string(eval.Result),
	).Scan(&eval.CreatedAt)
	if err != nil {
		return Evaluation{}, fmt.Errorf("insert evaluation: %w", err)
	}
	return eval, nil
}

func (s *PostgresStore) ListEvaluations(ctx context.Context, limit int32) ([]Evaluation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id::TEXT, product, structure_type, autocalled, knock_in_breached,
		        total_value::TEXT, result::TEXT, created_at
		 FROM evaluations ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evals []Evaluation
	for rows.Next() {
		var e Evaluation
		var id, total, result string
		if err := rows.Scan(&id, &e.Product, &e.StructureType,
			&e.Autocalled, &e.KnockInBreached,
			&total, &result, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse evaluation id %s: %w", id, err)
		}
		e.TotalValue, _ = decimal.NewFromString(total)
		e.Result = json.RawMessage(result)
		evals = append(evals, e)
	}
	return evals, rows.Err()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
