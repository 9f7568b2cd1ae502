package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parent-portal/domain"
	"parent-portal/domain/event"
)

func Test_Publish_Reaches_Subscribed_Group(t *testing.T) {
	req := require.New(t)
	b := New(slog.Default(), 8)

	received := make(chan event.DomainEvent, 1)
	b.Subscribe(event.TopicPayments, "communication-service", func(ctx context.Context, evt event.DomainEvent) error {
		received <- evt
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Run(ctx) }()

	b.Publish(event.PaymentStatusChanged{
		ParentUserID:  5,
		StudentID:     7,
		TransactionID: "tx-1",
		Status:        domain.PaymentSuccess,
	})

	select {
	case evt := <-received:
		payment, ok := evt.(event.PaymentStatusChanged)
		req.True(ok)
		req.Equal("tx-1", payment.TransactionID)
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
}

func Test_Events_Stay_On_Their_Topic(t *testing.T) {
	req := require.New(t)
	b := New(slog.Default(), 8)

	var mu sync.Mutex
	var topics []event.Topic
	b.Subscribe(event.TopicNews, "any", func(ctx context.Context, evt event.DomainEvent) error {
		mu.Lock()
		topics = append(topics, evt.Topic())
		mu.Unlock()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Run(ctx) }()

	b.Publish(event.NewsPublished{NewsID: "n1"})
	b.Publish(event.MessageCreated{MessageID: "m1"})

	req.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(topics) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	req.Equal([]event.Topic{event.TopicNews}, topics)
}

func Test_Handler_Error_Does_Not_Stop_Fanout(t *testing.T) {
	req := require.New(t)
	b := New(slog.Default(), 8)

	done := make(chan struct{})
	b.Subscribe(event.TopicNews, "broken", func(ctx context.Context, evt event.DomainEvent) error {
		return fmt.Errorf("consumer down")
	})
	b.Subscribe(event.TopicNews, "healthy", func(ctx context.Context, evt event.DomainEvent) error {
		close(done)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Run(ctx) }()

	b.Publish(event.NewsPublished{NewsID: "n1"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("healthy group starved by broken group")
	}
	req.True(true)
}

func Test_Resubscribe_Same_Group_Replaces_Handler(t *testing.T) {
	req := require.New(t)
	b := New(slog.Default(), 8)

	hits := make(chan string, 2)
	b.Subscribe(event.TopicNews, "g", func(ctx context.Context, evt event.DomainEvent) error {
		hits <- "old"
		return nil
	})
	b.Subscribe(event.TopicNews, "g", func(ctx context.Context, evt event.DomainEvent) error {
		hits <- "new"
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Run(ctx) }()

	b.Publish(event.NewsPublished{NewsID: "n1"})

	select {
	case got := <-hits:
		req.Equal("new", got)
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
	select {
	case <-hits:
		t.Fatal("both handlers ran for one group")
	case <-time.After(100 * time.Millisecond):
	}
}
