//go:generate go run go.uber.org/mock/mockgen -source=news.go -destination=../mocks/mock_news_repository.go -package=mocks
package repositories

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"parent-portal/domain"
)

type INewsRepository interface {
	Create(news domain.News) error
	GetByID(id string) (domain.News, error)
	GetAll() ([]domain.News, error)
	GetByCategory(category string) ([]domain.News, error)
	Delete(id string) error
}

type NewsRepository struct {
	db *badger.DB
}

func NewNewsRepository(db *badger.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

func newsKey(id string) []byte { return []byte("news:" + id) }

func (n *NewsRepository) Create(news domain.News) error {
	return n.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, newsKey(news.ID), news)
	})
}

func (n *NewsRepository) GetByID(id string) (domain.News, error) {
	var news domain.News
	err := n.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, newsKey(id), &news)
	})
	return news, err
}

func (n *NewsRepository) GetAll() ([]domain.News, error) {
	return scanJSON[domain.News](n.db, "news:")
}

func (n *NewsRepository) GetByCategory(category string) ([]domain.News, error) {
	items, err := n.GetAll()
	if err != nil {
		return nil, err
	}
	return lo.Filter(items, func(item domain.News, _ int) bool {
		return item.Category == category
	}), nil
}

func (n *NewsRepository) Delete(id string) error {
	return n.db.Update(func(txn *badger.Txn) error {
		var existing domain.News
		if err := getJSON(txn, newsKey(id), &existing); err != nil {
			return err
		}
		return txn.Delete(newsKey(id))
	})
}
