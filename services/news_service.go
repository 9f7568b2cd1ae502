//go:generate go run go.uber.org/mock/mockgen -source=news_service.go -destination=../mocks/mock_news_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"parent-portal/bus"
	"parent-portal/domain"
	"parent-portal/domain/event"
	"parent-portal/errors"
	"parent-portal/remote"
	"parent-portal/repositories"
)

type INewsService interface {
	Publish(ctx context.Context, news domain.News) (domain.News, error)
	GetByID(ctx context.Context, id string) (NewsView, error)
	GetAll(ctx context.Context) ([]NewsView, error)
	GetByCategory(ctx context.Context, category string) ([]NewsView, error)
	Search(ctx context.Context, query string, limit int) ([]NewsView, error)
	Delete(id string) error
}

// NewsView is a news item with its author name merged in.
type NewsView struct {
	domain.News
	AuthorUsername string `json:"authorUsername"`
}

// NewsService owns announcements. Each published item is stored in
// Badger, indexed for full-text search and announced on the news topic.
type NewsService struct {
	news      repositories.INewsRepository
	index     repositories.INewsIndex
	refs      remote.ReferenceValidator
	publisher bus.Publisher
	log       *slog.Logger
}

func NewNewsService(
	news repositories.INewsRepository,
	index repositories.INewsIndex,
	refs remote.ReferenceValidator,
	publisher bus.Publisher,
	log *slog.Logger,
) *NewsService {
	return &NewsService{news: news, index: index, refs: refs, publisher: publisher, log: log}
}

// Publish validates the author reference, stores the item, indexes it and
// announces it. Indexing failure rolls nothing back; the stored row stays
// authoritative and the item is simply not findable through search.
func (s *NewsService) Publish(ctx context.Context, news domain.News) (domain.News, error) {
	if news.Title == "" || news.Content == "" {
		return domain.News{}, fmt.Errorf("%w: title and content are required", errors.ErrValidation)
	}
	author, err := s.refs.FetchUser(ctx, news.AuthorID)
	if err != nil {
		return domain.News{}, err
	}

	news.ID = uuid.New().String()
	news.PublishedDate = time.Now().UTC()
	if err := s.news.Create(news); err != nil {
		return domain.News{}, err
	}
	if err := s.index.Index(news); err != nil {
		s.log.Error("news indexing failed", "id", news.ID, "error", err)
	}

	s.publisher.Publish(event.NewsPublished{
		NewsID:         news.ID,
		Title:          news.Title,
		Category:       news.Category,
		AuthorID:       news.AuthorID,
		AuthorUsername: author.Username,
		At:             news.PublishedDate,
	})
	s.log.Info("news published", "id", news.ID, "category", news.Category)
	return news, nil
}

func (s *NewsService) GetByID(ctx context.Context, id string) (NewsView, error) {
	news, err := s.news.GetByID(id)
	if err != nil {
		return NewsView{}, err
	}
	return s.enrich(ctx, news), nil
}

func (s *NewsService) GetAll(ctx context.Context) ([]NewsView, error) {
	items, err := s.news.GetAll()
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, items), nil
}

func (s *NewsService) GetByCategory(ctx context.Context, category string) ([]NewsView, error) {
	items, err := s.news.GetByCategory(category)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, items), nil
}

// Search resolves index hits back through the store. A hit whose row has
// since been deleted is skipped rather than failing the search.
func (s *NewsService) Search(ctx context.Context, query string, limit int) ([]NewsView, error) {
	ids, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	views := make([]NewsView, 0, len(ids))
	for _, id := range ids {
		news, err := s.news.GetByID(id)
		if err != nil {
			s.log.Debug("stale search hit skipped", "id", id)
			continue
		}
		views = append(views, s.enrich(ctx, news))
	}
	return views, nil
}

func (s *NewsService) Delete(id string) error {
	if err := s.news.Delete(id); err != nil {
		return err
	}
	if err := s.index.Delete(id); err != nil {
		s.log.Error("news index removal failed", "id", id, "error", err)
	}
	return nil
}

func (s *NewsService) enrich(ctx context.Context, news domain.News) NewsView {
	return NewsView{
		News:           news,
		AuthorUsername: s.refs.Username(ctx, &news.AuthorID),
	}
}

func (s *NewsService) enrichAll(ctx context.Context, items []domain.News) []NewsView {
	views := make([]NewsView, len(items))
	for i, item := range items {
		views[i] = s.enrich(ctx, item)
	}
	return views
}
