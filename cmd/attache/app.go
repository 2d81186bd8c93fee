package main

import (
	"fmt"

	"github.com/kingcader/attache/internal/config"
	"github.com/kingcader/attache/internal/db"
	"github.com/kingcader/attache/internal/decision"
	"github.com/kingcader/attache/internal/followup"
	"github.com/kingcader/attache/internal/llm"
	"github.com/kingcader/attache/internal/push"
	"github.com/kingcader/attache/internal/server"
	"github.com/kingcader/attache/internal/store"
	"github.com/kingcader/attache/internal/sweep"
	"github.com/kingcader/attache/internal/task"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app wires the full service stack behind the CLI commands.
type app struct {
	cfg        *config.Config
	gdb        *gorm.DB
	store      *store.DB
	dispatcher *push.Dispatcher
	sweeper    *sweep.Sweeper
	server     *server.Server
	log        *zap.Logger
}

// buildApp connects to the database and constructs every service.
func buildApp(cfg *config.Config) (*app, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("attache: build logger: %w", err)
	}

	gdb, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	st := store.New(gdb)

	backend, err := llm.ForConfig(cfg.AI)
	if err != nil {
		return nil, err
	}
	followups, err := followup.NewService(followup.Opts{
		Threads:     st,
		Suggestions: st,
		Backend:     backend,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}
	decisions, err := decision.NewService(st, log)
	if err != nil {
		return nil, err
	}
	tasks, err := task.NewService(task.Opts{
		Tasks:       st,
		Suggestions: st,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}

	var sender push.Sender = push.NopSender{}
	if cfg.PushEnabled() {
		sender = push.NewWebPushSender(cfg.Push)
	} else {
		log.Warn("web push not configured, notifications are in-app only")
	}
	registry, err := push.NewRegistry(st, log)
	if err != nil {
		return nil, err
	}
	dispatcher, err := push.NewDispatcher(push.DispatcherOpts{
		Subscriptions: st,
		Notifications: st,
		Sender:        sender,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}

	sweeper, err := sweep.New(sweep.Opts{
		Threads:    st,
		Dispatcher: dispatcher,
		Config:     cfg.Sweep,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}

	srv, err := server.New(server.Opts{
		Store:      st,
		FollowUps:  followups,
		Decisions:  decisions,
		Tasks:      tasks,
		Registry:   registry,
		Dispatcher: dispatcher,
		Config:     cfg.Server,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		gdb:        gdb,
		store:      st,
		dispatcher: dispatcher,
		sweeper:    sweeper,
		server:     srv,
		log:        log,
	}, nil
}
