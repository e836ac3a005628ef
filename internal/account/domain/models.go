package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// MaxBalanceCents caps any account at $10,000,000.00.
const MaxBalanceCents int64 = 1_000_000_000

type Operation string

const (
	OperationAdd      Operation = "add"
	OperationSubtract Operation = "subtract"
)

// BillingAccount carries a version column for optimistic locking. Every
// successful balance write bumps the version; a stale version on write means
// another writer got there first.
type BillingAccount struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"column:name" json:"name"`
	BalanceCents int64        `gorm:"column:balance_cents" json:"balance_cents"`
	Version      int64        `gorm:"column:version" json:"version"`
	CreatedAt    time.Time    `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"column:updated_at" json:"updated_at"`
}

func (BillingAccount) TableName() string {
	return "billing_accounts"
}
