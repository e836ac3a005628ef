package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Deactivate(ctx context.Context, id string) error
}

type CreateRequest struct {
	ClientID     string        `json:"client_id"`
	ClientName   string        `json:"client_name"`
	Format       string        `json:"format"`
	UTBMSMapping *UTBMSMapping `json:"utbms_mapping"`
}

type ListRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

type ListResponse struct {
	Items []Response `json:"items"`
	Total int64      `json:"total"`
}

type Response struct {
	ID           string       `json:"id"`
	ClientID     string       `json:"client_id"`
	ClientName   string       `json:"client_name"`
	Format       Format       `json:"format"`
	UTBMSMapping UTBMSMapping `json:"utbms_mapping"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

const (
	CodeMissingClientID     = "MISSING_CLIENT_ID"
	CodeMissingClientName   = "MISSING_CLIENT_NAME"
	CodeInvalidFormat       = "INVALID_FORMAT"
	CodeMissingUTBMSMapping = "MISSING_UTBMS_MAPPING"
	CodeInvalidActivityCode = "INVALID_ACTIVITY_CODE"
	CodeInvalidExpenseCode  = "INVALID_EXPENSE_CODE"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors aggregates every violation found in a request. Validation
// never stops at the first problem; callers get the full list.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Code))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrClientConfigExists = errors.New("client_configuration_exists")
)
