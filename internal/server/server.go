package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsboard/internal/logger"
	"newsboard/internal/middleware"
	"newsboard/internal/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type NewsLister interface {
	ListNews(ctx context.Context) ([]models.News, error)
}

type CommentLister interface {
	ListComments(ctx context.Context) ([]models.Comment, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Server хранит зависимости HTTP-обработчиков: проверку БД и сервисы новостей и комментариев.
type Server struct {
	db       Pinger
	news     NewsLister
	comments CommentLister
}

// NewServer создаёт новый экземпляр Server.
func NewServer(db Pinger, news NewsLister, comments CommentLister) *Server {
	return &Server{db: db, news: news, comments: comments}
}

// Routes собирает маршрутизатор со всеми обработчиками и middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(30 * time.Second))
		r.Get("/news", s.ListNews)
		r.Get("/comments", s.ListComments)
	})
	return r
}

// HealthCheck отвечает 200 OK, если база доступна, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		http.Error(w, "DB unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

// ListNews отдаёт все новости текстом, по блоку на новость.
func (s *Server) ListNews(w http.ResponseWriter, r *http.Request) {
	news, err := s.news.ListNews(r.Context())
	if err != nil {
		s.fail(w, r, "list news", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := WriteNews(w, news); err != nil {
		logWriteError(r, "news", err)
	}
}

// ListComments отдаёт все комментарии текстом, по строке на комментарий.
func (s *Server) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.comments.ListComments(r.Context())
	if err != nil {
		s.fail(w, r, "list comments", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := WriteComments(w, comments); err != nil {
		logWriteError(r, "comments", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.Log.WithField("request_id", middleware.RequestID(r.Context())).
		Errorf("Failed to %s: %v", op, err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// logWriteError фиксирует обрыв ответа: статус уже отправлен, поэтому остаётся только лог.
func logWriteError(r *http.Request, what string, err error) {
	logger.Log.WithField("request_id", middleware.RequestID(r.Context())).
		Errorf("Failed to write %s: %v", what, err)
}

// WriteNews печатает новости в формате "############ NEWS <title> ############" + тело.
func WriteNews(w io.Writer, news []models.News) error {
	var b strings.Builder
	for _, n := range news {
		fmt.Fprintf(&b, "############ NEWS %s ############\n%s\n", n.Title, n.Body)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteComments печатает комментарии в формате "Comment <id> : <body>".
func WriteComments(w io.Writer, comments []models.Comment) error {
	var b strings.Builder
	for _, c := range comments {
		fmt.Fprintf(&b, "Comment %d : %s\n", c.ID, c.Body)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
