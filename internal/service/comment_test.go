package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsboard/internal/db"
	"newsboard/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCommentService(store *mockStore) *CommentService {
	svc := NewCommentService(store)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestListComments(t *testing.T) {
	store := newMockStore()
	store.On("Select", mock.Anything, selectComments, []any(nil)).Return([]db.Row{
		{"id": int64(1), "body": "Comment 1", "created_at": "2024-05-25", "news_id": int64(1)},
		{"id": int64(2), "body": "Comment 2", "created_at": "2024-05-26", "news_id": int64(2)},
	}, nil)

	comments, err := newTestCommentService(store).ListComments(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, models.Comment{
		ID:        1,
		Body:      "Comment 1",
		CreatedAt: time.Date(2024, 5, 25, 0, 0, 0, 0, time.UTC),
		NewsID:    1,
	}, comments[0])
	require.Equal(t, models.ID(2), comments[1].ID)
	require.Equal(t, models.ID(2), comments[1].NewsID)

	store.AssertExpectations(t)
}

func TestListCommentsForNews(t *testing.T) {
	store := newMockStore()
	store.On("Select", mock.Anything, selectCommentsByNews, []any{int64(7)}).Return([]db.Row{
		{"id": int64(4), "body": "on seven", "created_at": "2024-05-25", "news_id": int64(7)},
	}, nil)

	comments, err := newTestCommentService(store).ListCommentsForNews(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, models.ID(7), comments[0].NewsID)
}

func TestListComments_MissingColumn(t *testing.T) {
	store := newMockStore()
	store.On("Select", mock.Anything, selectComments, []any(nil)).Return([]db.Row{
		{"id": int64(1), "body": "Comment 1", "created_at": "2024-05-25"},
	}, nil)

	_, err := newTestCommentService(store).ListComments(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "column news_id")
}

func TestAddCommentForNews(t *testing.T) {
	store := newMockStore()
	day := time.Date(2024, 5, 25, 0, 0, 0, 0, time.UTC)
	store.On("InTx", mock.Anything).Return(nil)
	store.tx.On("Exec", mock.Anything, insertComment, []any{"Nice article", day, int64(1)}).Return(int64(1), nil)
	store.tx.On("LastInsertID", mock.Anything).Return(int64(5), nil)

	id, err := newTestCommentService(store).AddCommentForNews(context.Background(), "Nice article", 1)
	require.NoError(t, err)
	require.Equal(t, models.ID(5), id)

	store.tx.AssertExpectations(t)
}

func TestAddCommentForNews_LastInsertIDFails(t *testing.T) {
	store := newMockStore()
	idErr := errors.New("lastval is not yet defined")
	store.On("InTx", mock.Anything).Return(nil)
	store.tx.On("Exec", mock.Anything, insertComment, mock.Anything).Return(int64(1), nil)
	store.tx.On("LastInsertID", mock.Anything).Return(int64(0), idErr)

	id, err := newTestCommentService(store).AddCommentForNews(context.Background(), "text", 1)
	require.ErrorIs(t, err, idErr)
	require.Zero(t, id)
}

func TestDeleteComment(t *testing.T) {
	t.Run("existing comment", func(t *testing.T) {
		store := newMockStore()
		store.On("Delete", mock.Anything, "comment", db.Where(db.Eq("id", int64(1)))).Return(int64(1), nil)

		n, err := newTestCommentService(store).DeleteComment(context.Background(), 1)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
	})

	t.Run("missing comment is not an error", func(t *testing.T) {
		store := newMockStore()
		store.On("Delete", mock.Anything, "comment", db.Where(db.Eq("id", int64(1)))).Return(int64(0), nil)

		n, err := newTestCommentService(store).DeleteComment(context.Background(), 1)
		require.NoError(t, err)
		require.Zero(t, n)
	})
}
