package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/casekit/lexbill/internal/account/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, acct *domain.BillingAccount) error {
	return db.WithContext(ctx).Create(acct).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.BillingAccount, error) {
	var item domain.BillingAccount
	err := db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CompareAndSwapBalance writes the new balance only if the row still carries
// the version the caller read. Zero rows affected means a concurrent writer
// bumped the version first.
func (r *repo) CompareAndSwapBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, expectedVersion int64, newBalanceCents int64, updatedAt time.Time) error {
	res := db.WithContext(ctx).Exec(
		`UPDATE billing_accounts
		 SET balance_cents = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		newBalanceCents,
		updatedAt,
		id,
		expectedVersion,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrWriteConflict
	}
	return nil
}
