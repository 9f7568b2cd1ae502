package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parent-portal/bus"
	"parent-portal/domain"
	"parent-portal/domain/event"
	"parent-portal/errors"
	"parent-portal/repositories"
)

func newNotificationService(t *testing.T, f *remoteFixture) *NotificationService {
	t.Helper()
	return NewNotificationService(repositories.NewNotificationRepository(openServiceTestDB(t)), f.client, slog.Default())
}

func Test_Payment_Event_Becomes_One_Notification(t *testing.T) {
	req := require.New(t)
	f := newRemoteFixture(t)
	f.addUser(5, "parent", domain.RoleParent)
	notifications := newNotificationService(t, f)
	consumer := NewPaymentEventsConsumer(notifications, slog.Default())

	b := bus.New(slog.Default(), 16)
	consumer.Register(b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Run(ctx) }()

	b.Publish(event.PaymentStatusChanged{
		ParentUserID:  5,
		StudentID:     7,
		TransactionID: "tx-1",
		Status:        domain.PaymentSuccess,
	})

	req.Eventually(func() bool {
		items, err := notifications.GetByRecipient(5)
		return err == nil && len(items) == 1
	}, time.Second, 10*time.Millisecond)

	items, err := notifications.GetByRecipient(5)
	req.NoError(err)
	req.Len(items, 1)
	req.Equal(domain.NotificationPaymentConfirmation, items[0].Type)
	req.Equal("Payment for student 7 (Transaction ID: tx-1) is SUCCESS.", items[0].Message)
	req.Equal("tx-1", items[0].RelatedEntityID)
	req.False(items[0].Read)
}

func Test_MarkRead_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	f := newRemoteFixture(t)
	f.addUser(5, "parent", domain.RoleParent)
	notifications := newNotificationService(t, f)

	created, err := notifications.Create(context.Background(), domain.Notification{
		RecipientID: 5,
		Message:     "hello",
		Type:        domain.NotificationAnnouncement,
	})
	req.NoError(err)

	first, err := notifications.MarkRead(created.ID)
	req.NoError(err)
	req.True(first.Read)

	second, err := notifications.MarkRead(created.ID)
	req.NoError(err)
	req.True(second.Read)

	unread, err := notifications.GetUnreadByRecipient(5)
	req.NoError(err)
	req.Empty(unread)
}

func Test_Create_Notification_Validates(t *testing.T) {
	req := require.New(t)
	f := newRemoteFixture(t)
	notifications := newNotificationService(t, f)

	_, err := notifications.Create(context.Background(), domain.Notification{
		RecipientID: 5,
		Type:        "CARRIER_PIGEON",
	})
	req.ErrorIs(err, errors.ErrValidation)

	_, err = notifications.Create(context.Background(), domain.Notification{
		Type: domain.NotificationAnnouncement,
	})
	req.ErrorIs(err, errors.ErrValidation)

	_, err = notifications.Create(context.Background(), domain.Notification{
		RecipientID: 404,
		Type:        domain.NotificationAnnouncement,
	})
	req.ErrorIs(err, errors.ErrNotFound)
}
