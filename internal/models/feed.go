package models

import "time"

// FeedItem представляет одну публикацию из RSS/Atom-ленты.
type FeedItem struct {
	Title       string
	Description string
	Link        string
	PublishedAt time.Time
}
