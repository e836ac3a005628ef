package server

import (
	"context"
	"net/http"
	"time"

	"github.com/casekit/lexbill/internal/account"
	accountdomain "github.com/casekit/lexbill/internal/account/domain"
	"github.com/casekit/lexbill/internal/config"
	"github.com/casekit/lexbill/internal/leadscore"
	leaddomain "github.com/casekit/lexbill/internal/leadscore/domain"
	"github.com/casekit/lexbill/internal/ledesconfig"
	ledesdomain "github.com/casekit/lexbill/internal/ledesconfig/domain"
	"github.com/casekit/lexbill/internal/observability"
	obsmiddleware "github.com/casekit/lexbill/internal/observability/logger"
	obsmetrics "github.com/casekit/lexbill/internal/observability/metrics"
	obstracing "github.com/casekit/lexbill/internal/observability/tracing"
	"github.com/casekit/lexbill/internal/providers"
	"github.com/casekit/lexbill/internal/providers/pdf"
	"github.com/casekit/lexbill/internal/renewal"
	renewaldomain "github.com/casekit/lexbill/internal/renewal/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	renewal.Module,
	leadscore.Module,
	ledesconfig.Module,
	account.Module,
	providers.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	renewalSvc     renewaldomain.Service
	leadScoreSvc   leaddomain.Service
	ledesConfigSvc ledesdomain.Service
	accountSvc     accountdomain.Service
	pdfProvider    pdf.Provider
	obsMetrics     *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	RenewalSvc     renewaldomain.Service
	LeadScoreSvc   leaddomain.Service
	LedesConfigSvc ledesdomain.Service
	AccountSvc     accountdomain.Service
	PDFProvider    pdf.Provider
	ObsMetrics     *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		renewalSvc:     p.RenewalSvc,
		leadScoreSvc:   p.LeadScoreSvc,
		ledesConfigSvc: p.LedesConfigSvc,
		accountSvc:     p.AccountSvc,
		pdfProvider:    p.PDFProvider,
		obsMetrics:     p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	renewals := api.Group("/renewals")
	renewals.POST("/quote", s.CreateRenewalQuote)
	renewals.GET("/quotes/:id", s.GetRenewalQuote)
	renewals.GET("/quotes/:id/receipt", s.GetRenewalReceipt)

	ledesGroup := api.Group("/ledes")
	ledesGroup.POST("/configurations", s.CreateLedesConfiguration)
	ledesGroup.GET("/configurations", s.ListLedesConfigurations)
	ledesGroup.GET("/configurations/:id", s.GetLedesConfiguration)
	ledesGroup.DELETE("/configurations/:id", s.DeactivateLedesConfiguration)
	ledesGroup.POST("/configurations/:id/export", s.ExportLedesInvoice)

	leads := api.Group("/leads")
	leads.POST("/score", s.ScoreLead)

	accounts := api.Group("/accounts")
	accounts.POST("", s.CreateAccount)
	accounts.GET("/:id", s.GetAccount)
	accounts.POST("/:id/balance", s.UpdateAccountBalance)
}
