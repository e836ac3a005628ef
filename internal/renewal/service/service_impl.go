package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casekit/lexbill/internal/clock"
	"github.com/casekit/lexbill/internal/config"
	"github.com/casekit/lexbill/internal/money"
	obsmetrics "github.com/casekit/lexbill/internal/observability/metrics"
	renewaldomain "github.com/casekit/lexbill/internal/renewal/domain"
	"github.com/casekit/lexbill/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Fees       *config.FeeScheduleHolder
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	fees       *config.FeeScheduleHolder
	quoteRepo  repository.Repository[renewaldomain.RenewalQuote]
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) renewaldomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("renewal.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		fees:       p.Fees,
		quoteRepo:  repository.ProvideStore[renewaldomain.RenewalQuote](p.DB),
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Quote(ctx context.Context, req renewaldomain.QuoteRequest) (*renewaldomain.QuoteResponse, error) {
	feeReq, err := parseFeeRequest(req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	items := ComputeLineItems(feeReq, s.fees.Get(), now)
	total := Total(items)

	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	quote := &renewaldomain.RenewalQuote{
		ID:              s.genID.Generate(),
		ProcessingSpeed: string(feeReq.ProcessingSpeed),
		LineItems:       encoded,
		TotalCents:      total,
		TotalDisplay:    money.FormatUSD(total),
		CreatedAt:       now,
	}
	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}

	s.obsMetrics.RecordQuote(ctx, quote.ProcessingSpeed)
	s.log.Info("renewal quote computed",
		zap.String("quote_id", quote.ID.String()),
		zap.Int64("total_cents", total),
		zap.Int("line_items", len(items)),
	)

	return toResponse(quote, items), nil
}

func (s *Service) Get(ctx context.Context, id string) (*renewaldomain.QuoteResponse, error) {
	parsedID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, renewaldomain.ErrInvalidID
	}

	quote, err := s.quoteRepo.FindOne(ctx, &renewaldomain.RenewalQuote{ID: parsedID})
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, renewaldomain.ErrNotFound
	}

	var items []renewaldomain.LineItem
	if err := json.Unmarshal(quote.LineItems, &items); err != nil {
		return nil, err
	}

	return toResponse(quote, items), nil
}

func parseFeeRequest(req renewaldomain.QuoteRequest) (renewaldomain.FeeRequest, error) {
	speed, err := parseProcessingSpeed(req.ProcessingSpeed)
	if err != nil {
		return renewaldomain.FeeRequest{}, err
	}

	continuous, err := parseAnswer(req.Section15Continuous)
	if err != nil {
		return renewaldomain.FeeRequest{}, err
	}
	challenged, err := parseAnswer(req.Section15Challenged)
	if err != nil {
		return renewaldomain.FeeRequest{}, err
	}

	return renewaldomain.FeeRequest{
		ProcessingSpeed:     speed,
		Section15:           req.Section15,
		Section15Continuous: continuous,
		Section15Challenged: challenged,
		Section9:            req.Section9,
		RegistrationDate:    req.RegistrationDate,
	}, nil
}

func parseProcessingSpeed(raw string) (renewaldomain.ProcessingSpeed, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(renewaldomain.ProcessingSpeedStandard):
		return renewaldomain.ProcessingSpeedStandard, nil
	case string(renewaldomain.ProcessingSpeedRush):
		return renewaldomain.ProcessingSpeedRush, nil
	default:
		return "", renewaldomain.ErrInvalidProcessingSpeed
	}
}

func parseAnswer(raw string) (renewaldomain.Answer, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(renewaldomain.AnswerUnknown):
		return renewaldomain.AnswerUnknown, nil
	case string(renewaldomain.AnswerYes):
		return renewaldomain.AnswerYes, nil
	case string(renewaldomain.AnswerNo):
		return renewaldomain.AnswerNo, nil
	default:
		return "", renewaldomain.ErrInvalidAnswer
	}
}

func toResponse(quote *renewaldomain.RenewalQuote, items []renewaldomain.LineItem) *renewaldomain.QuoteResponse {
	return &renewaldomain.QuoteResponse{
		ID:              quote.ID.String(),
		ProcessingSpeed: quote.ProcessingSpeed,
		LineItems:       items,
		TotalCents:      quote.TotalCents,
		TotalDisplay:    quote.TotalDisplay,
		CreatedAt:       quote.CreatedAt,
	}
}
