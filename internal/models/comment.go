package models

import "time"

// Comment — комментарий к новости. NewsID не проверяется на существование.
type Comment struct {
	ID        ID        `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	NewsID    ID        `json:"news_id"`
}
