package fetcher

import (
	"context"
	"fmt"

	"newsboard/internal/logger"

	"github.com/robfig/cron/v3"
)

// HandlerFunc обрабатывает одну ленту.
type HandlerFunc func(ctx context.Context, url string) error

// StartPolling вызывает handle для каждой ленты по расписанию schedule (формат cron или "@every 5m")
// и блокируется до отмены ctx. Цикл, начавшийся, пока предыдущий ещё идёт, пропускается.
func StartPolling(ctx context.Context, handle HandlerFunc, urls []string, schedule string) error {
	log := logger.Log.WithFields(map[string]interface{}{
		"service":  "poller",
		"schedule": schedule,
		"feeds":    len(urls),
	})

	cronLog := cron.PrintfLogger(log)
	c := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.SkipIfStillRunning(cronLog)),
	)
	_, err := c.AddFunc(schedule, func() {
		log.Info("Starting new polling cycle")
		for _, url := range urls {
			if err := handle(ctx, url); err != nil {
				log.WithField("url", url).Warnf("Feed import failed: %v", err)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	<-ctx.Done()
	log.Info("Stopping poller by context")
	<-c.Stop().Done()
	return nil
}
