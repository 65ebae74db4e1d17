package cmd

import (
	"context"
	"fmt"

	"media-manager/core/config"
	"media-manager/core/database"
	"media-manager/core/dispatch"
	"media-manager/core/mediastore"
	"media-manager/core/notify"
	"media-manager/core/reconcile"
	"media-manager/core/worker"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// engine bundles the owner loop, the worker pool and the media sets served
// by the start and list commands.
type engine struct {
	logger *zap.Logger
	db     *gorm.DB
	loop   *dispatch.Loop
	pool   *worker.Pool
	hub    *notify.Hub
	sets   []*reconcile.Set

	cancel context.CancelFunc
}

// newEngine connects to the index, starts the owner loop and creates the
// "all" and "camera" sets on it.
func newEngine(cfg *config.Config, logg *zap.Logger) (*engine, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver == "sqlite" {
		if err := mediastore.Migrate(db, cfg.Database.Table); err != nil {
			return nil, err
		}
	}
	if missing, err := mediastore.VerifySchema(db, cfg.Database.Table); err != nil {
		return nil, err
	} else if len(missing) > 0 {
		return nil, fmt.Errorf("media index %s is missing columns %v", cfg.Database.Table, missing)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &engine{
		logger: logg,
		db:     db,
		loop:   dispatch.New(logg),
		pool:   worker.New(cfg.Media.Workers, logg),
		hub:    notify.NewHub(),
		cancel: cancel,
	}
	go func() {
		if err := e.loop.Run(ctx); err != nil && ctx.Err() == nil {
			logg.Error("Owner loop stopped", zap.Error(err))
		}
	}()

	opts := reconcile.Options{
		Loop:      e.loop,
		Pool:      e.pool,
		Gateway:   mediastore.NewDBGateway(db),
		Source:    e.hub,
		Locator:   cfg.Database.Table,
		Debounce:  cfg.Media.Debounce,
		BatchSize: cfg.Media.BatchSize,
		Logger:    logg,
	}
	var setErr error
	err = e.loop.Call(ctx, func() {
		all, err := reconcile.AllMedia(opts)
		if err != nil {
			setErr = err
			return
		}
		camera, err := reconcile.CameraRoll(opts, cfg.Media.CameraPrefix)
		if err != nil {
			all.Release()
			setErr = err
			return
		}
		e.sets = []*reconcile.Set{all, camera}
	})
	if err == nil {
		err = setErr
	}
	if err != nil {
		e.close()
		return nil, err
	}
	return e, nil
}

// close releases the sets, then stops the pool and the loop.
func (e *engine) close() {
	_ = e.loop.Call(context.Background(), func() {
		for _, s := range e.sets {
			s.Release()
		}
	})
	e.pool.Close()
	e.cancel()
	<-e.loop.Done()

	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
