package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	UpdateBalance(ctx context.Context, id string, req UpdateBalanceRequest) (*Response, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, acct *BillingAccount) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*BillingAccount, error)
	CompareAndSwapBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, expectedVersion int64, newBalanceCents int64, updatedAt time.Time) error
}

type CreateRequest struct {
	Name           string  `json:"name"`
	InitialBalance float64 `json:"initial_balance"`
}

type UpdateBalanceRequest struct {
	Amount    float64 `json:"amount"`
	Operation string  `json:"operation"`
}

type Response struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	BalanceCents   int64     `json:"balance_cents"`
	BalanceDisplay string    `json:"balance_display"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var (
	ErrInvalidOperation     = errors.New("invalid_operation")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
	ErrInsufficientFunds    = errors.New("insufficient_funds")
	ErrBalanceLimitExceeded = errors.New("balance_limit_exceeded")
	ErrWriteConflict        = errors.New("write_conflict")
	ErrRetriesExhausted     = errors.New("retries_exhausted")
)
