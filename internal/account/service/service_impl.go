package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/casekit/lexbill/internal/account/domain"
	"github.com/casekit/lexbill/internal/clock"
	"github.com/casekit/lexbill/internal/money"
	obsmetrics "github.com/casekit/lexbill/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxAttempts = 3
	backoffBase = 50 * time.Millisecond
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	obsMetrics *obsmetrics.Metrics
	sleep      func(ctx context.Context, d time.Duration) error
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("account.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		obsMetrics: p.ObsMetrics,
		sleep:      sleepCtx,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	initialCents, err := money.Sanitize(req.InitialBalance)
	if err != nil {
		return nil, err
	}
	if initialCents > domain.MaxBalanceCents {
		return nil, domain.ErrBalanceLimitExceeded
	}

	now := s.clock.Now()
	acct := &domain.BillingAccount{
		ID:           s.genID.Generate(),
		Name:         strings.TrimSpace(req.Name),
		BalanceCents: initialCents,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, acct); err != nil {
		return nil, err
	}

	s.log.Info("billing account created",
		zap.String("account_id", acct.ID.String()),
		zap.Int64("balance_cents", acct.BalanceCents),
	)
	return toResponse(acct), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	acct, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(acct), nil
}

// UpdateBalance applies an add or subtract under optimistic locking. Each
// attempt re-reads the row so the arithmetic always starts from the freshest
// balance; a write conflict backs off and retries up to maxAttempts total.
// Business-rule failures abort immediately without consuming retries.
func (s *Service) UpdateBalance(ctx context.Context, id string, req domain.UpdateBalanceRequest) (*domain.Response, error) {
	op, err := parseOperation(req.Operation)
	if err != nil {
		return nil, err
	}
	amountCents, err := money.Sanitize(req.Amount)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		acct, err := s.find(ctx, id)
		if err != nil {
			return nil, err
		}

		newBalance := acct.BalanceCents
		switch op {
		case domain.OperationAdd:
			newBalance += amountCents
		case domain.OperationSubtract:
			newBalance -= amountCents
		}
		if newBalance < 0 {
			s.obsMetrics.RecordBalanceUpdate(ctx, string(op), "insufficient_funds")
			return nil, domain.ErrInsufficientFunds
		}
		if newBalance > domain.MaxBalanceCents {
			s.obsMetrics.RecordBalanceUpdate(ctx, string(op), "limit_exceeded")
			return nil, domain.ErrBalanceLimitExceeded
		}

		now := s.clock.Now()
		err = s.repo.CompareAndSwapBalance(ctx, s.db, acct.ID, acct.Version, newBalance, now)
		if err == nil {
			s.obsMetrics.RecordBalanceUpdate(ctx, string(op), "ok")
			s.log.Info("balance updated",
				zap.String("account_id", acct.ID.String()),
				zap.String("operation", string(op)),
				zap.Int64("balance_cents", newBalance),
				zap.Int("attempt", attempt),
			)

			acct.BalanceCents = newBalance
			acct.Version++
			acct.UpdatedAt = now
			return toResponse(acct), nil
		}
		if !errors.Is(err, domain.ErrWriteConflict) {
			return nil, err
		}

		s.obsMetrics.RecordBalanceConflict(ctx, string(op))
		if attempt == maxAttempts {
			break
		}

		delay := backoffBase << (attempt - 1)
		s.log.Warn("balance write conflict, retrying",
			zap.String("account_id", acct.ID.String()),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
		)
		if err := s.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	s.obsMetrics.RecordBalanceUpdate(ctx, string(op), "retries_exhausted")
	return nil, domain.ErrRetriesExhausted
}

func (s *Service) find(ctx context.Context, id string) (*domain.BillingAccount, error) {
	parsedID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	acct, err := s.repo.FindByID(ctx, s.db, parsedID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, domain.ErrNotFound
	}
	return acct, nil
}

func parseOperation(raw string) (domain.Operation, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(domain.OperationAdd):
		return domain.OperationAdd, nil
	case string(domain.OperationSubtract):
		return domain.OperationSubtract, nil
	default:
		return "", domain.ErrInvalidOperation
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func toResponse(acct *domain.BillingAccount) *domain.Response {
	return &domain.Response{
		ID:             acct.ID.String(),
		Name:           acct.Name,
		BalanceCents:   acct.BalanceCents,
		BalanceDisplay: money.FormatUSD(acct.BalanceCents),
		Version:        acct.Version,
		CreatedAt:      acct.CreatedAt,
		UpdatedAt:      acct.UpdatedAt,
	}
}
