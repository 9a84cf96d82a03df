package worker

import (
	"context"

	"newsboard/internal/fetcher"
	"newsboard/internal/logger"
	"newsboard/internal/metrics"
	"newsboard/internal/models"
)

// Importer сохраняет элементы ленты.
type Importer interface {
	ImportFeed(ctx context.Context, feedURL string, items []models.FeedItem) (int64, error)
}

// FetchFunc загружает элементы ленты по URL.
type FetchFunc func(ctx context.Context, url string) ([]models.FeedItem, error)

type Worker struct {
	importer Importer
	fetch    FetchFunc
}

func NewWorker(importer Importer) *Worker {
	return &Worker{importer: importer, fetch: fetcher.FetchFeed}
}

// WithFetcher заменяет загрузчик лент.
func (w *Worker) WithFetcher(fetch FetchFunc) *Worker {
	w.fetch = fetch
	return w
}

// HandleFeed загружает ленту url и сохраняет новые элементы. Возвращает число добавленных новостей.
func (w *Worker) HandleFeed(ctx context.Context, url string) (int64, error) {
	log := logger.Log.WithField("url", url)
	log.Info("Processing RSS feed")

	items, err := w.fetch(ctx, url)
	if err != nil {
		metrics.FeedErrors.Inc()
		log.Errorf("Fetch failed: %v", err)
		return 0, err
	}

	inserted, err := w.importer.ImportFeed(ctx, url, items)
	if err != nil {
		metrics.FeedErrors.Inc()
		log.Errorf("Import failed: %v", err)
		return 0, err
	}

	metrics.FeedItemsImported.Add(float64(inserted))
	log.WithField("items_count", len(items)).Infof("Imported %d new items", inserted)
	return inserted, nil
}

// Handle подходит для fetcher.StartPolling.
func (w *Worker) Handle(ctx context.Context, url string) error {
	_, err := w.HandleFeed(ctx, url)
	return err
}
