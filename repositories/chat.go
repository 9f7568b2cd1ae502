//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"parent-portal/domain"
	"parent-portal/errors"
)

type IChatRepository interface {
	Create(chat domain.Chat) error
	GetByID(id string) (domain.Chat, error)
	GetByParticipant(userID int64) ([]domain.Chat, error)
	Update(chat domain.Chat) error
}

type ChatRepository struct {
	db *badger.DB
}

func NewChatRepository(db *badger.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func chatKey(id string) []byte { return []byte("chat:" + id) }

// pairKey canonicalizes the unordered participant pair: the smaller id
// always comes first, so (a,b) and (b,a) map to the same key.
func pairKey(a, b int64) []byte {
	if b < a {
		a, b = b, a
	}
	return []byte(fmt.Sprintf("chatpair:%020d:%020d", a, b))
}

// Create writes the chat row and its pair key in one transaction. The
// pair key is the uniqueness constraint: a concurrent creation for the
// same pair loses at commit, not at a racy pre-check.
func (c *ChatRepository) Create(chat domain.Chat) error {
	return c.db.Update(func(txn *badger.Txn) error {
		key := pairKey(chat.Participant1ID, chat.Participant2ID)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("%w: chat between %d and %d",
				errors.ErrAlreadyExists, chat.Participant1ID, chat.Participant2ID)
		}
		if err := setJSON(txn, chatKey(chat.ID), chat); err != nil {
			return err
		}
		return txn.Set(key, []byte(chat.ID))
	})
}

func (c *ChatRepository) GetByID(id string) (domain.Chat, error) {
	var chat domain.Chat
	err := c.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, chatKey(id), &chat)
	})
	return chat, err
}

func (c *ChatRepository) GetByParticipant(userID int64) ([]domain.Chat, error) {
	chats, err := scanJSON[domain.Chat](c.db, "chat:")
	if err != nil {
		return nil, err
	}
	return lo.Filter(chats, func(ch domain.Chat, _ int) bool {
		return ch.Participant1ID == userID || ch.Participant2ID == userID
	}), nil
}

// Update rewrites the chat row. Participant ids never change after
// creation, so the pair key is left alone.
func (c *ChatRepository) Update(chat domain.Chat) error {
	return c.db.Update(func(txn *badger.Txn) error {
		var existing domain.Chat
		if err := getJSON(txn, chatKey(chat.ID), &existing); err != nil {
			return err
		}
		return setJSON(txn, chatKey(chat.ID), chat)
	})
}
