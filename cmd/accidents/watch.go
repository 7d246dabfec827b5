package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/aggregate"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/datasource/file"
)

// watchDebounce folds the burst of events a single save produces.
const watchDebounce = 2 * time.Second

// watch refreshes the processed snapshot and the statistics at start, after
// every write to the raw export and, with -every, on a schedule. Refreshes
// never overlap. It returns nil once ctx is done.
func (a *app) watch(ctx context.Context) error {
	w, err := file.NewWatcher(a.cfg.RawPath, watchDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	var mu sync.Mutex
	refresh := func(trigger string) {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		log := a.log.With(zap.String("trigger", trigger))
		start := time.Now()
		if err := a.refresh(ctx); err != nil {
			log.Error("refresh failed", zap.Error(err))
			return
		}
		log.Info("refresh done", zap.Duration("duration", time.Since(start)))
	}

	refresh("start")

	if a.cfg.Every > 0 {
		c := cron.New()
		if err := c.AddFunc("@every "+a.cfg.Every.String(), func() { refresh("schedule") }); err != nil {
			return fmt.Errorf("schedule every %s: %w", a.cfg.Every, err)
		}
		c.Start()
		defer c.Stop()
		a.log.Info("refresh scheduled", zap.Duration("every", a.cfg.Every))
	}

	a.log.Info("watching raw export", zap.String("path", a.cfg.RawPath))
	err = w.Run(ctx, func(string) { refresh("file") })
	if ctx.Err() != nil {
		a.log.Info("watch stopped")
		return nil
	}
	return err
}

// refresh is one preprocess plus aggregate run in save mode.
func (a *app) refresh(ctx context.Context) error {
	f, err := a.runPreprocess(ctx)
	if err != nil {
		return err
	}
	if err := a.saveFrame(ctx, a.cfg.ProcessedPath, f); err != nil {
		return err
	}
	tables, err := aggregate.Statistics(f, a.cfg.Start, a.cfg.End)
	if err != nil {
		return err
	}
	return a.saveTables(ctx, tables, resultsWorkbook, false)
}
