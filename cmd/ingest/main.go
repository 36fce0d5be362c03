package main

import (
	"github.com/perhitsiksha/events-ingest/internal/app"
	"github.com/perhitsiksha/events-ingest/pkg/logger"
	"go.uber.org/fx"
)

func main() {
	log := logger.New(logger.Opts{})

	fx.New(
		fx.Logger(log),
		app.Module,
	).Run()
}
