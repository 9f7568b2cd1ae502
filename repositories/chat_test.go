package repositories

import (
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"parent-portal/domain"
	"parent-portal/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newChat(a, b int64) domain.Chat {
	now := time.Now().UTC()
	return domain.Chat{
		ID:             uuid.New().String(),
		Participant1ID: a,
		Participant2ID: b,
		CreatedAt:      now,
		LastUpdatedAt:  now,
	}
}

func Test_Create_Chat_Once(t *testing.T) {
	req := require.New(t)
	repo := NewChatRepository(openTestDB(t))

	chat := newChat(1, 2)
	req.NoError(repo.Create(chat))

	fetched, err := repo.GetByID(chat.ID)
	req.NoError(err)
	req.Equal(chat.Participant1ID, fetched.Participant1ID)
	req.Equal(chat.Participant2ID, fetched.Participant2ID)
}

func Test_Create_Chat_Duplicate_Pair_Fails(t *testing.T) {
	req := require.New(t)
	repo := NewChatRepository(openTestDB(t))

	req.NoError(repo.Create(newChat(1, 2)))
	req.ErrorIs(repo.Create(newChat(1, 2)), errors.ErrAlreadyExists)
}

func Test_Create_Chat_Reversed_Pair_Fails(t *testing.T) {
	req := require.New(t)
	repo := NewChatRepository(openTestDB(t))

	req.NoError(repo.Create(newChat(1, 2)))
	req.ErrorIs(repo.Create(newChat(2, 1)), errors.ErrAlreadyExists)
}

func Test_Different_Pairs_Coexist(t *testing.T) {
	req := require.New(t)
	repo := NewChatRepository(openTestDB(t))

	req.NoError(repo.Create(newChat(1, 2)))
	req.NoError(repo.Create(newChat(1, 3)))
	req.NoError(repo.Create(newChat(2, 3)))

	chats, err := repo.GetByParticipant(1)
	req.NoError(err)
	req.Len(chats, 2)
}

func Test_Update_Appends_Messages(t *testing.T) {
	req := require.New(t)
	repo := NewChatRepository(openTestDB(t))

	chat := newChat(1, 2)
	req.NoError(repo.Create(chat))

	chat.Messages = append(chat.Messages, domain.Message{
		ID:        uuid.New().String(),
		SenderID:  1,
		Content:   "hello",
		Timestamp: time.Now().UTC(),
	})
	req.NoError(repo.Update(chat))

	fetched, err := repo.GetByID(chat.ID)
	req.NoError(err)
	req.Len(fetched.Messages, 1)
	req.Equal("hello", fetched.Messages[0].Content)
}

func Test_Get_Missing_Chat(t *testing.T) {
	req := require.New(t)
	repo := NewChatRepository(openTestDB(t))

	_, err := repo.GetByID(uuid.New().String())
	req.ErrorIs(err, errors.ErrNotFound)
}
