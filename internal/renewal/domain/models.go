// Package domain contains models for trademark renewal fee quoting.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ProcessingSpeed selects standard or expedited preparation.
type ProcessingSpeed string

const (
	ProcessingSpeedStandard ProcessingSpeed = "standard"
	ProcessingSpeedRush     ProcessingSpeed = "rush"
)

// Answer is a three-state questionnaire response. Empty and "unknown" are
// treated identically by the fee rules.
type Answer string

const (
	AnswerYes     Answer = "yes"
	AnswerNo      Answer = "no"
	AnswerUnknown Answer = "unknown"
)

// LineItem is one priced component of a renewal quote. Amounts are integer
// cents; there is no floating-point currency math anywhere in the quote path.
type LineItem struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	UnitAmountCents int64  `json:"unit_amount_cents"`
	Quantity        int64  `json:"quantity"`
}

// ExtendedAmountCents is the line total.
func (li LineItem) ExtendedAmountCents() int64 {
	return li.UnitAmountCents * li.Quantity
}

// FeeRequest is the validated input to the line-item calculator. It is
// constructed fresh per renewal transaction and consumed once.
type FeeRequest struct {
	ProcessingSpeed     ProcessingSpeed
	Section15           bool
	Section15Continuous Answer
	Section15Challenged Answer
	Section9            bool
	RegistrationDate    *time.Time
}

// RenewalQuote persists a computed quote so the checkout flow can re-fetch
// it when creating the payment session.
type RenewalQuote struct {
	ID              snowflake.ID   `gorm:"primaryKey"`
	ProcessingSpeed string         `gorm:"type:text;not null"`
	LineItems       datatypes.JSON `gorm:"not null"`
	TotalCents      int64          `gorm:"not null"`
	TotalDisplay    string         `gorm:"type:text;not null"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (RenewalQuote) TableName() string { return "renewal_quotes" }
