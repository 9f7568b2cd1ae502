package event

import (
	"time"

	"parent-portal/domain"
)

// Topic names the events travel on. Producers and consumers agree on
// these strings only; neither knows the other exists.
type Topic string

const (
	TopicNewMessages Topic = "new-message-events"
	TopicNews        Topic = "news-events"
	TopicPayments    Topic = "payment-events"
)

// DomainEvent is an immutable, fire-and-forget description of a completed
// local mutation. Produced once after a successful commit, consumed zero
// or more times, never persisted or replayed.
type DomainEvent interface {
	Topic() Topic
}

type MessageCreated struct {
	ChatID         string    `json:"chatId"`
	MessageID      string    `json:"messageId"`
	SenderID       int64     `json:"senderId"`
	SenderUsername string    `json:"senderUsername"`
	Content        string    `json:"content"`
	At             time.Time `json:"at"`
}

func (MessageCreated) Topic() Topic { return TopicNewMessages }

type NewsPublished struct {
	NewsID         string    `json:"newsId"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	AuthorID       int64     `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	At             time.Time `json:"at"`
}

func (NewsPublished) Topic() Topic { return TopicNews }

type PaymentStatusChanged struct {
	ParentUserID  int64                `json:"parentUserId"`
	StudentID     int64                `json:"studentId"`
	TransactionID string               `json:"transactionId"`
	Status        domain.PaymentStatus `json:"status"`
}

func (PaymentStatusChanged) Topic() Topic { return TopicPayments }
