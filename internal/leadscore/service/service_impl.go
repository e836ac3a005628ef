package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/casekit/lexbill/internal/clock"
	leaddomain "github.com/casekit/lexbill/internal/leadscore/domain"
	obsmetrics "github.com/casekit/lexbill/internal/observability/metrics"
	"github.com/casekit/lexbill/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	leadRepo   repository.Repository[leaddomain.Lead]
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) leaddomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("leadscore.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		leadRepo:   repository.ProvideStore[leaddomain.Lead](p.DB),
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Score(ctx context.Context, req leaddomain.ScoreRequest) (*leaddomain.ScoreResponse, error) {
	score := Compute(req.Factors)

	factors := make(datatypes.JSONMap, len(req.Factors))
	for name, value := range req.Factors {
		factors[name] = value
	}

	lead := &leaddomain.Lead{
		ID:        s.genID.Generate(),
		Name:      req.Name,
		Email:     req.Email,
		Factors:   factors,
		Score:     score,
		CreatedAt: s.clock.Now(),
	}
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}

	s.obsMetrics.RecordLeadScored(ctx)
	s.log.Info("lead scored",
		zap.String("lead_id", lead.ID.String()),
		zap.Int("score", score),
		zap.Int("factors", len(req.Factors)),
	)

	return &leaddomain.ScoreResponse{
		ID:        lead.ID.String(),
		Name:      lead.Name,
		Email:     lead.Email,
		Factors:   req.Factors,
		Score:     score,
		CreatedAt: lead.CreatedAt,
	}, nil
}
