package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/kattitatu/riot-account-manager/internal/logger"
	"github.com/kattitatu/riot-account-manager/internal/stats"
)

// DefaultStatusSchedule refreshes platform status every ten minutes.
const DefaultStatusSchedule = "@every 10m"

// StatusWatcher polls platform status on a cron schedule and hands every
// result to the loop.
type StatusWatcher struct {
	cron     *cron.Cron
	parser   cron.Parser
	loop     *Loop
	fetch    func(ctx context.Context) stats.PlatformStatus
	onUpdate func(stats.PlatformStatus)
	log      *slog.Logger
}

func NewStatusWatcher(loop *Loop, fetch func(ctx context.Context) stats.PlatformStatus, onUpdate func(stats.PlatformStatus)) *StatusWatcher {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &StatusWatcher{
		cron:     cron.New(cron.WithParser(parser)),
		parser:   parser,
		loop:     loop,
		fetch:    fetch,
		onUpdate: onUpdate,
		log:      logger.Component("status-watcher"),
	}
}

// Start checks once immediately and then on every tick of schedule.
func (w *StatusWatcher) Start(ctx context.Context, schedule string) error {
	if schedule == "" {
		schedule = DefaultStatusSchedule
	}
	if _, err := w.parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid status schedule: %w", err)
	}
	check := func() {
		st := w.fetch(ctx)
		w.log.Debug("platform status", slog.String("region", st.Region), slog.String("level", string(st.Level)))
		w.loop.Post(func() { w.onUpdate(st) })
	}
	if _, err := w.cron.AddFunc(schedule, check); err != nil {
		return err
	}
	go check()
	w.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (w *StatusWatcher) Stop() {
	<-w.cron.Stop().Done()
}

// WatchStatus is the app's status watcher for the configured region.
func (a *App) WatchStatus(loop *Loop, onUpdate func(stats.PlatformStatus)) *StatusWatcher {
	return NewStatusWatcher(loop, func(ctx context.Context) stats.PlatformStatus {
		return a.stats.Status(ctx, a.cfg.Region)
	}, onUpdate)
}
