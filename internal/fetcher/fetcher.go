package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"newsboard/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const fetchTimeout = 10 * time.Second

// FetchFeed загружает RSS/Atom-ленту по url и возвращает её элементы с описанием, очищенным от HTML.
func FetchFeed(ctx context.Context, url string) ([]models.FeedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: fetchTimeout}
	feed, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]models.FeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, toFeedItem(item))
	}
	return items, nil
}

func toFeedItem(item *gofeed.Item) models.FeedItem {
	var published time.Time
	switch {
	case item.PublishedParsed != nil:
		published = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		published = *item.UpdatedParsed
	}

	description := item.Description
	if description == "" {
		description = item.Content
	}

	return models.FeedItem{
		Title:       strings.TrimSpace(item.Title),
		Description: plainText(description),
		Link:        item.Link,
		PublishedAt: published,
	}
}

// plainText убирает HTML-разметку; если разобрать не удалось, строка возвращается как есть.
func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
