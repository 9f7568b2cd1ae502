//go:generate go run go.uber.org/mock/mockgen -source=news_index.go -destination=../mocks/mock_news_index.go -package=mocks
package repositories

import (
	"context"

	"github.com/blugelabs/bluge"

	"parent-portal/domain"
)

type INewsIndex interface {
	Index(news domain.News) error
	Delete(id string) error
	Search(ctx context.Context, query string, limit int) ([]string, error)
	Close() error
}

// NewsIndex maintains the full-text index over news title and content.
// It is a search sidecar, not the source of truth: the Badger row remains
// authoritative and search results are resolved back through it.
type NewsIndex struct {
	writer *bluge.Writer
}

func NewNewsIndex(path string) (*NewsIndex, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	return &NewsIndex{writer: writer}, nil
}

// NewInMemoryNewsIndex backs the index with memory only, for tests.
func NewInMemoryNewsIndex() (*NewsIndex, error) {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return nil, err
	}
	return &NewsIndex{writer: writer}, nil
}

func (n *NewsIndex) Close() error { return n.writer.Close() }

func (n *NewsIndex) Index(news domain.News) error {
	doc := bluge.NewDocument(news.ID).
		AddField(bluge.NewTextField("title", news.Title)).
		AddField(bluge.NewTextField("content", news.Content)).
		AddField(bluge.NewKeywordField("category", news.Category))
	return n.writer.Update(doc.ID(), doc)
}

func (n *NewsIndex) Delete(id string) error {
	return n.writer.Delete(bluge.NewDocument(id).ID())
}

// Search returns the ids of the best-matching news items, title and
// content both searched.
func (n *NewsIndex) Search(ctx context.Context, query string, limit int) ([]string, error) {
	reader, err := n.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	q := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(query).SetField("title")).
		AddShould(bluge.NewMatchQuery(query).SetField("content"))

	iter, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, err
	}

	var ids []string
	for {
		match, err := iter.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}
