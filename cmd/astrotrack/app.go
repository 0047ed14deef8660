package main

import (
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/astrotrack/astrotrack/internal/bootstrap"
	"github.com/astrotrack/astrotrack/internal/config"
)

// app is the wired container shared by every subcommand.
type app struct {
	cfg *config.Config
	inj *do.Injector
	log *zap.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	inj := bootstrap.BuildContainer(cfg)
	log, err := do.Invoke[*zap.Logger](inj)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, inj: inj, log: log}, nil
}

func (a *app) close() {
	if err := a.inj.Shutdown(); err != nil {
		a.log.Sugar().Warnw("container shutdown", "err", err)
	}
	_ = a.log.Sync()
}
