package service

import (
	"context"
	"time"

	"newsboard/internal/db"
	"newsboard/internal/models"
)

const (
	selectNews  = "SELECT id, title, body, created_at FROM news ORDER BY id"
	insertNews  = "INSERT INTO news (title, body, created_at) VALUES ($1, $2, $3)"
	selectLinks = "SELECT source_link FROM news WHERE source_link = ANY($1)"
)

// NewsService — операции над новостями.
type NewsService struct {
	store Store
	now   func() time.Time
}

func NewNewsService(store Store) *NewsService {
	return &NewsService{store: store, now: time.Now}
}

// ListNews возвращает все новости в порядке, в котором их отдаёт база.
func (s *NewsService) ListNews(ctx context.Context) ([]models.News, error) {
	rows, err := s.store.Select(ctx, selectNews)
	if err != nil {
		return nil, err
	}

	news := make([]models.News, 0, len(rows))
	for _, row := range rows {
		n, err := newsFromRow(row)
		if err != nil {
			return nil, err
		}
		news = append(news, n)
	}
	return news, nil
}

// AddNews сохраняет новость с сегодняшней датой и возвращает её идентификатор.
func (s *NewsService) AddNews(ctx context.Context, title, body string) (models.ID, error) {
	var id int64
	err := s.store.InTx(ctx, func(tx db.TxExecutor) error {
		if _, err := tx.Exec(ctx, insertNews, title, body, today(s.now())); err != nil {
			return err
		}
		var err error
		id, err = tx.LastInsertID(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return models.ID(id), nil
}

// DeleteNews удаляет новость по id и возвращает число удалённых строк (0, если такой нет).
// Комментарии к новости не удаляются.
func (s *NewsService) DeleteNews(ctx context.Context, id models.ID) (int64, error) {
	return s.store.Delete(ctx, "news", db.Where(db.Eq("id", int64(id))))
}

// ImportFeed в одной транзакции отмечает опрос ленты feedURL и сохраняет элементы, которых ещё нет
// в news. Элемент узнаётся по ссылке (source_link), а без ссылки по паре лента + заголовок.
// Возвращает число добавленных новостей.
func (s *NewsService) ImportFeed(ctx context.Context, feedURL string, items []models.FeedItem) (int64, error) {
	now := s.now()

	var inserted int64
	err := s.store.InTx(ctx, func(tx db.TxExecutor) error {
		if _, err := tx.Upsert(ctx, "rss_feeds", db.Row{"url": feedURL, "last_polled": now}, []string{"url"}); err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		links := make([]string, 0, len(items))
		for _, item := range items {
			links = append(links, sourceLink(feedURL, item))
		}
		rows, err := tx.Select(ctx, selectLinks, links)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(rows)+len(items))
		for _, row := range rows {
			link, err := rowString(row, "source_link")
			if err != nil {
				return err
			}
			seen[link] = true
		}

		fresh := make([]db.Row, 0, len(items))
		for i, item := range items {
			if seen[links[i]] {
				continue
			}
			seen[links[i]] = true
			fresh = append(fresh, feedItemRow(item, links[i], now))
		}
		if len(fresh) == 0 {
			return nil
		}

		inserted, err = tx.BulkInsert(ctx, "news", fresh)
		return err
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// sourceLink возвращает ключ, по которому элемент ленты узнаётся при повторных опросах.
func sourceLink(feedURL string, item models.FeedItem) string {
	if item.Link != "" {
		return item.Link
	}
	return feedURL + "#" + item.Title
}

func feedItemRow(item models.FeedItem, link string, now time.Time) db.Row {
	published := item.PublishedAt
	if published.IsZero() {
		published = now
	}
	body := item.Description
	if body == "" {
		body = item.Link
	}
	return db.Row{
		"title":       item.Title,
		"body":        body,
		"created_at":  today(published),
		"source_link": link,
	}
}

func newsFromRow(row db.Row) (models.News, error) {
	var (
		n   models.News
		err error
	)
	if n.ID, err = rowID(row, "id"); err != nil {
		return n, err
	}
	if n.Title, err = rowString(row, "title"); err != nil {
		return n, err
	}
	if n.Body, err = rowString(row, "body"); err != nil {
		return n, err
	}
	if n.CreatedAt, err = rowDate(row, "created_at"); err != nil {
		return n, err
	}
	return n, nil
}
