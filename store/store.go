// Package store persists issued API keys and evaluation records.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound reports a missing row regardless of backend.
var ErrNotFound = errors.New("not found")

// User is an issued API key. Token holds the bcrypt hash of the full key;
// Prefix is the plaintext lookup handle embedded in the key.
type User struct {
	Email       string    `json:"email"`
	Prefix      string    `json:"prefix"`
	Token       string    `json:"-"`
	GeneratedAt time.Time `json:"generated_at"`
	ExpiredAt   time.Time `json:"expired_at"`
}

// Evaluation is one persisted engine run. Result carries the full payoff
// result JSON; the scalar columns exist for listing and filtering.
type Evaluation struct {
	ID              uuid.UUID       `json:"id"`
	Product         string          `json:"product"`
	StructureType   string          `json:"structure_type"`
	Autocalled      bool            `json:"autocalled"`
	KnockInBreached bool            `json:"knock_in_breached"`
	TotalValue      decimal.Decimal `json:"total_value"`
	Result          json.RawMessage `json:"result"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Store is the persistence contract the API server depends on.
type Store interface {
	InsertUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, prefix string) (User, error)
	InsertEvaluation(ctx context.Context, eval Evaluation) (Evaluation, error)
	ListEvaluations(ctx context.Context, limit int32) ([]Evaluation, error)
	Ping(ctx context.Context) error
}
