//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"parent-portal/bus"
	"parent-portal/domain"
	"parent-portal/domain/event"
	"parent-portal/errors"
	"parent-portal/moderation"
	"parent-portal/remote"
	"parent-portal/repositories"
)

type IChatService interface {
	CreateChat(ctx context.Context, participant1, participant2 int64) (domain.Chat, error)
	GetChat(ctx context.Context, id string) (ChatView, error)
	GetChatsByUser(ctx context.Context, userID int64) ([]ChatView, error)
	AddMessage(ctx context.Context, chatID string, senderID int64, content string) (MessageView, error)
	MarkMessagesRead(ctx context.Context, chatID string, readerID int64) error
}

// MessageView is a message with its sender name merged in for display.
type MessageView struct {
	domain.Message
	SenderUsername string `json:"senderUsername"`
}

// ChatView is a chat with participant names merged in. Enrichment is
// best-effort: a name that does not resolve degrades to a placeholder and
// never fails the read.
type ChatView struct {
	domain.Chat
	Participant1Username string        `json:"participant1Username"`
	Participant2Username string        `json:"participant2Username"`
	Messages             []MessageView `json:"messages"`
}

// ChatService owns chats and their messages. Participants are foreign
// user ids confirmed on the user service before a chat is created.
type ChatService struct {
	chats     repositories.IChatRepository
	refs      remote.ReferenceValidator
	moderator *moderation.Moderator
	publisher bus.Publisher
	log       *slog.Logger
}

func NewChatService(
	chats repositories.IChatRepository,
	refs remote.ReferenceValidator,
	moderator *moderation.Moderator,
	publisher bus.Publisher,
	log *slog.Logger,
) *ChatService {
	return &ChatService{
		chats:     chats,
		refs:      refs,
		moderator: moderator,
		publisher: publisher,
		log:       log,
	}
}

// CreateChat validates both participants on the user service, in
// parallel, then writes the chat. Pair uniqueness is enforced by the
// store at commit, so two racing creations for the same pair cannot both
// succeed, whichever order the ids arrive in.
func (s *ChatService) CreateChat(ctx context.Context, participant1, participant2 int64) (domain.Chat, error) {
	if participant1 == participant2 {
		return domain.Chat{}, fmt.Errorf("%w: a chat needs two distinct participants", errors.ErrValidation)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range []int64{participant1, participant2} {
		g.Go(func() error {
			_, err := s.refs.FetchUser(gctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Chat{}, err
	}

	now := time.Now().UTC()
	chat := domain.Chat{
		ID:             uuid.New().String(),
		Participant1ID: participant1,
		Participant2ID: participant2,
		CreatedAt:      now,
		LastUpdatedAt:  now,
	}
	if err := s.chats.Create(chat); err != nil {
		return domain.Chat{}, err
	}
	s.log.Info("chat created", "id", chat.ID, "participant1", participant1, "participant2", participant2)
	return chat, nil
}

func (s *ChatService) GetChat(ctx context.Context, id string) (ChatView, error) {
	chat, err := s.chats.GetByID(id)
	if err != nil {
		return ChatView{}, err
	}
	return s.enrich(ctx, chat), nil
}

func (s *ChatService) GetChatsByUser(ctx context.Context, userID int64) ([]ChatView, error) {
	chats, err := s.chats.GetByParticipant(userID)
	if err != nil {
		return nil, err
	}
	views := make([]ChatView, len(chats))
	for i, chat := range chats {
		views[i] = s.enrich(ctx, chat)
	}
	return views, nil
}

// AddMessage appends a moderated message to the chat. Only a participant
// may post, and the message event carries the sender's resolved name.
func (s *ChatService) AddMessage(ctx context.Context, chatID string, senderID int64, content string) (MessageView, error) {
	if content == "" {
		return MessageView{}, fmt.Errorf("%w: message content is empty", errors.ErrValidation)
	}

	chat, err := s.chats.GetByID(chatID)
	if err != nil {
		return MessageView{}, err
	}
	if senderID != chat.Participant1ID && senderID != chat.Participant2ID {
		return MessageView{}, fmt.Errorf("%w: user %d is not in chat %s", errors.ErrUnauthorized, senderID, chatID)
	}

	message := domain.Message{
		ID:        uuid.New().String(),
		SenderID:  senderID,
		Content:   s.moderator.Clean(content),
		Timestamp: time.Now().UTC(),
	}
	chat.Messages = append(chat.Messages, message)
	chat.LastUpdatedAt = message.Timestamp
	if err := s.chats.Update(chat); err != nil {
		return MessageView{}, err
	}

	senderUsername := s.refs.Username(ctx, &senderID)
	s.publisher.Publish(event.MessageCreated{
		ChatID:         chat.ID,
		MessageID:      message.ID,
		SenderID:       senderID,
		SenderUsername: senderUsername,
		Content:        message.Content,
		At:             message.Timestamp,
	})
	return MessageView{Message: message, SenderUsername: senderUsername}, nil
}

// MarkMessagesRead marks every message the reader did not send as read.
// The reader's own messages stay untouched.
func (s *ChatService) MarkMessagesRead(ctx context.Context, chatID string, readerID int64) error {
	chat, err := s.chats.GetByID(chatID)
	if err != nil {
		return err
	}
	if readerID != chat.Participant1ID && readerID != chat.Participant2ID {
		return fmt.Errorf("%w: user %d is not in chat %s", errors.ErrUnauthorized, readerID, chatID)
	}

	changed := false
	for i := range chat.Messages {
		if chat.Messages[i].SenderID != readerID && !chat.Messages[i].Read {
			chat.Messages[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.chats.Update(chat)
}

func (s *ChatService) enrich(ctx context.Context, chat domain.Chat) ChatView {
	view := ChatView{
		Chat:                 chat,
		Participant1Username: s.refs.Username(ctx, &chat.Participant1ID),
		Participant2Username: s.refs.Username(ctx, &chat.Participant2ID),
		Messages:             make([]MessageView, len(chat.Messages)),
	}
	for i, message := range chat.Messages {
		view.Messages[i] = MessageView{
			Message:        message,
			SenderUsername: s.refs.Username(ctx, &message.SenderID),
		}
	}
	return view
}
