package services

import (
	"context"
	"fmt"
	"log/slog"

	"parent-portal/bus"
	"parent-portal/domain"
	"parent-portal/domain/event"
)

// paymentConsumerGroup scopes the subscription so exactly one handler in
// this service processes each payment event.
const paymentConsumerGroup = "communication-service"

// PaymentEventsConsumer turns payment status changes into notifications
// for the paying parent. It is the only coupling between payments and
// communication, and it is one-way: the payment service never learns
// whether a notification was written.
type PaymentEventsConsumer struct {
	notifications INotificationService
	log           *slog.Logger
}

func NewPaymentEventsConsumer(notifications INotificationService, log *slog.Logger) *PaymentEventsConsumer {
	return &PaymentEventsConsumer{notifications: notifications, log: log}
}

// Register binds the consumer to the payment topic.
func (c *PaymentEventsConsumer) Register(b *bus.Bus) {
	b.Subscribe(event.TopicPayments, paymentConsumerGroup, c.Handle)
}

func (c *PaymentEventsConsumer) Handle(ctx context.Context, evt event.DomainEvent) error {
	changed, ok := evt.(event.PaymentStatusChanged)
	if !ok {
		return fmt.Errorf("unexpected event %T on %s", evt, event.TopicPayments)
	}

	_, err := c.notifications.Create(ctx, domain.Notification{
		RecipientID: changed.ParentUserID,
		Message: fmt.Sprintf("Payment for student %d (Transaction ID: %s) is %s.",
			changed.StudentID, changed.TransactionID, changed.Status),
		Type:            domain.NotificationPaymentConfirmation,
		RelatedEntityID: changed.TransactionID,
	})
	if err != nil {
		return fmt.Errorf("payment notification: %w", err)
	}
	c.log.Debug("payment notification created",
		"recipient", changed.ParentUserID,
		"transaction", changed.TransactionID,
		"status", changed.Status,
	)
	return nil
}
