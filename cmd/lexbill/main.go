package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/casekit/lexbill/internal/clock"
	"github.com/casekit/lexbill/internal/config"
	"github.com/casekit/lexbill/internal/migration"
	"github.com/casekit/lexbill/internal/observability"
	"github.com/casekit/lexbill/internal/server"
	"github.com/casekit/lexbill/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
