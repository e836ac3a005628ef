package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/casekit/lexbill/internal/clock"
	ledesdomain "github.com/casekit/lexbill/internal/ledesconfig/domain"
	obsmetrics "github.com/casekit/lexbill/internal/observability/metrics"
	"github.com/casekit/lexbill/pkg/db"
	"github.com/casekit/lexbill/pkg/db/option"
	"github.com/casekit/lexbill/pkg/repository"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	configRepo repository.Repository[ledesdomain.Configuration]
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) ledesdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("ledesconfig.service"),
		clock:      p.Clock,
		configRepo: repository.ProvideStore[ledesdomain.Configuration](p.DB),
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Create(ctx context.Context, req ledesdomain.CreateRequest) (*ledesdomain.Response, error) {
	if violations := Validate(req); len(violations) > 0 {
		s.obsMetrics.RecordConfigCreate(ctx, req.Format, "rejected")
		return nil, violations
	}

	encoded, err := json.Marshal(req.UTBMSMapping)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	cfg := &ledesdomain.Configuration{
		ID:           ulid.Make().String(),
		ClientID:     strings.TrimSpace(req.ClientID),
		ClientName:   strings.TrimSpace(req.ClientName),
		Format:       req.Format,
		UTBMSMapping: datatypes.JSON(encoded),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.configRepo.Create(ctx, cfg); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, ledesdomain.ErrClientConfigExists
		}
		return nil, err
	}

	s.obsMetrics.RecordConfigCreate(ctx, cfg.Format, "created")
	s.log.Info("ledes configuration created",
		zap.String("configuration_id", cfg.ID),
		zap.String("client_id", cfg.ClientID),
		zap.String("format", cfg.Format),
	)

	return toResponse(cfg)
}

func (s *Service) Get(ctx context.Context, id string) (*ledesdomain.Response, error) {
	id = strings.TrimSpace(id)
	if _, err := ulid.Parse(id); err != nil {
		return nil, ledesdomain.ErrInvalidID
	}

	cfg, err := s.configRepo.FindOne(ctx, &ledesdomain.Configuration{ID: id})
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ledesdomain.ErrNotFound
	}
	return toResponse(cfg)
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func (s *Service) List(ctx context.Context, req ledesdomain.ListRequest) (*ledesdomain.ListResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	total, err := s.configRepo.Count(ctx, &ledesdomain.Configuration{})
	if err != nil {
		return nil, err
	}

	configs, err := s.configRepo.Find(ctx, &ledesdomain.Configuration{},
		option.WithOrder("created_at DESC"),
		option.WithLimit(limit),
		option.WithOffset(offset),
	)
	if err != nil {
		return nil, err
	}

	items := make([]ledesdomain.Response, 0, len(configs))
	for _, cfg := range configs {
		resp, err := toResponse(cfg)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &ledesdomain.ListResponse{Items: items, Total: total}, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if _, err := ulid.Parse(id); err != nil {
		return ledesdomain.ErrInvalidID
	}

	cfg, err := s.configRepo.FindOne(ctx, &ledesdomain.Configuration{ID: id})
	if err != nil {
		return err
	}
	if cfg == nil {
		return ledesdomain.ErrNotFound
	}

	if err := s.configRepo.Update(ctx, id, map[string]any{
		"is_active":  false,
		"updated_at": s.clock.Now(),
	}); err != nil {
		return err
	}

	s.log.Info("ledes configuration deactivated",
		zap.String("configuration_id", id),
		zap.String("client_id", cfg.ClientID),
	)
	return nil
}

func toResponse(cfg *ledesdomain.Configuration) (*ledesdomain.Response, error) {
	var mapping ledesdomain.UTBMSMapping
	if err := json.Unmarshal(cfg.UTBMSMapping, &mapping); err != nil {
		return nil, err
	}

	return &ledesdomain.Response{
		ID:           cfg.ID,
		ClientID:     cfg.ClientID,
		ClientName:   cfg.ClientName,
		Format:       ledesdomain.Format(cfg.Format),
		UTBMSMapping: mapping,
		IsActive:     cfg.IsActive,
		CreatedAt:    cfg.CreatedAt,
		UpdatedAt:    cfg.UpdatedAt,
	}, nil
}
