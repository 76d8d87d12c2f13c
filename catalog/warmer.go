package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Warmer refreshes the first listing pages of the cache on a cron schedule.
type Warmer struct {
	cache   *CachedRepository
	cron    *cron.Cron
	pages   int
	timeout time.Duration
	logger  *zap.Logger
}

// NewWarmer schedules cache warm-ups. schedule uses standard five-field cron
// syntax or descriptors such as "@every 10m".
func NewWarmer(cache *CachedRepository, schedule string, pages int, logger *zap.Logger) (*Warmer, error) {
	if pages <= 0 {
		pages = 1
	}
	w := &Warmer{
		cache:   cache,
		cron:    cron.New(),
		pages:   pages,
		timeout: 30 * time.Second,
		logger:  logger,
	}
	if _, err := w.cron.AddFunc(schedule, w.run); err != nil {
		return nil, fmt.Errorf("invalid warm schedule %q: %w", schedule, err)
	}
	return w, nil
}

func (w *Warmer) Start() {
	w.cron.Start()
}

// Stop halts the schedule and waits for a running warm-up to finish.
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
}

// Warm drops cached listings and reloads the first pages.
func (w *Warmer) Warm(ctx context.Context) error {
	if err := w.cache.Invalidate(ctx); err != nil {
		return err
	}
	for page := 1; page <= w.pages; page++ {
		res, err := w.cache.List(ctx, ListQuery{Page: page})
		if err != nil {
			return fmt.Errorf("failed to warm page %d: %w", page, err)
		}
		if page*res.PageSize >= res.Total {
			break
		}
	}
	return nil
}

func (w *Warmer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	start := time.Now()
	if err := w.Warm(ctx); err != nil {
		w.logger.Error("catalog warm-up failed", zap.Error(err))
		return
	}
	w.logger.Info("catalog cache warmed", zap.Duration("duration", time.Since(start)))
}
