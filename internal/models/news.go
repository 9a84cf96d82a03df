package models

import "time"

// News — новость. CreatedAt хранится с точностью до дня.
type News struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
