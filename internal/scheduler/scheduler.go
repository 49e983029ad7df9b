package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Options configure the background jobs.
type Options struct {
	Interval time.Duration // dispatch tick, shorter than a minute
	Clock    clockwork.Clock
	Location *time.Location
	// Pruner раз в сутки чистит старые update_id (nil = не чистить).
	Pruner      UpdatePruner
	KeepUpdates time.Duration
}

// UpdatePruner trims the inbound dedup log.
type UpdatePruner interface {
	PruneProcessedUpdates(ctx context.Context, before time.Time) (int64, error)
}

// Start registers the dispatch tick (and the daily prune job) and starts the
// scheduler. ctx is handed to every job run; stop with Shutdown.
func Start(ctx context.Context, d *Dispatcher, opt Options) (gocron.Scheduler, error) {
	clock := opt.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	loc := opt.Location
	if loc == nil {
		loc = time.UTC
	}
	log := d.log

	// Создаём планировщик на общих часах
	s, err := gocron.NewScheduler(gocron.WithClock(clock), gocron.WithLocation(loc))
	if err != nil {
		return nil, err
	}

	// Тики не перекрываются: проверка и отметка в notification_log
	// не гоняются со следующим тиком.
	_, err = s.NewJob(
		gocron.DurationJob(opt.Interval),
		gocron.NewTask(func() {
			if _, err := d.Tick(ctx); err != nil {
				log.Error("dispatch tick failed", zap.Error(err))
			}
		}),
		gocron.WithName("dispatch"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	if opt.Pruner != nil {
		keep := opt.KeepUpdates
		if keep <= 0 {
			keep = 7 * 24 * time.Hour
		}
		_, err = s.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(4, 30, 0))),
			gocron.NewTask(func() {
				n, err := opt.Pruner.PruneProcessedUpdates(ctx, clock.Now().Add(-keep))
				if err != nil {
					log.Error("prune processed updates", zap.Error(err))
					return
				}
				log.Info("processed updates pruned", zap.Int64("rows", n))
			}),
			gocron.WithName("prune-updates"),
		)
		if err != nil {
			return nil, err
		}
	}

	// Запускаем планировщик
	s.Start()
	return s, nil
}
