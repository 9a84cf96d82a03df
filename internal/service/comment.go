package service

import (
	"context"
	"time"

	"newsboard/internal/db"
	"newsboard/internal/models"
)

const (
	selectComments       = "SELECT id, body, created_at, news_id FROM comment ORDER BY id"
	selectCommentsByNews = "SELECT id, body, created_at, news_id FROM comment WHERE news_id = $1 ORDER BY id"
	insertComment        = "INSERT INTO comment (body, created_at, news_id) VALUES ($1, $2, $3)"
)

type CommentService struct {
	store Store
	now   func() time.Time
}

func NewCommentService(store Store) *CommentService {
	return &CommentService{store: store, now: time.Now}
}

// ListComments возвращает все комментарии без фильтрации по новости.
func (s *CommentService) ListComments(ctx context.Context) ([]models.Comment, error) {
	return s.list(ctx, selectComments)
}

func (s *CommentService) ListCommentsForNews(ctx context.Context, newsID models.ID) ([]models.Comment, error) {
	return s.list(ctx, selectCommentsByNews, int64(newsID))
}

// AddCommentForNews сохраняет комментарий к новости newsID. Существование новости не проверяется.
func (s *CommentService) AddCommentForNews(ctx context.Context, body string, newsID models.ID) (models.ID, error) {
	var id int64
	err := s.store.InTx(ctx, func(tx db.TxExecutor) error {
		if _, err := tx.Exec(ctx, insertComment, body, today(s.now()), int64(newsID)); err != nil {
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

func (s *CommentService) DeleteComment(ctx context.Context, id models.ID) (int64, error) {
	return s.store.Delete(ctx, "comment", db.Where(db.Eq("id", int64(id))))
}

func (s *CommentService) list(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	rows, err := s.store.Select(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	comments := make([]models.Comment, 0, len(rows))
	for _, row := range rows {
		c, err := commentFromRow(row)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}

func commentFromRow(row db.Row) (models.Comment, error) {
	var (
		c   models.Comment
		err error
	)
	if c.ID, err = rowID(row, "id"); err != nil {
		return c, err
	}
	if c.Body, err = rowString(row, "body"); err != nil {
		return c, err
	}
	if c.CreatedAt, err = rowDate(row, "created_at"); err != nil {
		return c, err
	}
	if c.NewsID, err = rowID(row, "news_id"); err != nil {
		return c, err
	}
	return c, nil
}
