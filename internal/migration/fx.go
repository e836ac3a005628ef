package migration

import (
	"github.com/casekit/lexbill/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if cfg.DBType != "postgres" {
			// Local sqlite and mysql deployments rely on AutoMigrate instead.
			log.Named("migration").Info("skipping sql migrations", zap.String("db_type", cfg.DBType))
			return autoMigrate(conn)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
