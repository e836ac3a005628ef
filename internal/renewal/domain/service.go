package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)
	Get(ctx context.Context, id string) (*QuoteResponse, error)
}

type QuoteRequest struct {
	ProcessingSpeed     string     `json:"processing_speed"`
	Section15           bool       `json:"section15"`
	Section15Continuous string     `json:"section15_continuous"`
	Section15Challenged string     `json:"section15_challenged"`
	Section9            bool       `json:"section9"`
	RegistrationDate    *time.Time `json:"registration_date"`
}

type QuoteResponse struct {
	ID              string     `json:"id"`
	ProcessingSpeed string     `json:"processing_speed"`
	LineItems       []LineItem `json:"line_items"`
	TotalCents      int64      `json:"total_cents"`
	TotalDisplay    string     `json:"total_display"`
	CreatedAt       time.Time  `json:"created_at"`
}

var (
	ErrInvalidProcessingSpeed = errors.New("invalid_processing_speed")
	ErrInvalidAnswer          = errors.New("invalid_answer")
	ErrInvalidID              = errors.New("invalid_id")
	ErrNotFound               = errors.New("not_found")
)
