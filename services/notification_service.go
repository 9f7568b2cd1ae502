//go:generate go run go.uber.org/mock/mockgen -source=notification_service.go -destination=../mocks/mock_notification_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"parent-portal/domain"
	"parent-portal/errors"
	"parent-portal/remote"
	"parent-portal/repositories"
)

type INotificationService interface {
	Create(ctx context.Context, notification domain.Notification) (domain.Notification, error)
	GetByID(id string) (domain.Notification, error)
	GetByRecipient(recipientID int64) ([]domain.Notification, error)
	GetUnreadByRecipient(recipientID int64) ([]domain.Notification, error)
	MarkRead(id string) (domain.Notification, error)
	Delete(id string) error
}

// NotificationService stores per-user notifications. Most of its traffic
// arrives through event consumers rather than the HTTP surface.
type NotificationService struct {
	notifications repositories.INotificationRepository
	refs          remote.ReferenceValidator
	log           *slog.Logger
}

func NewNotificationService(notifications repositories.INotificationRepository, refs remote.ReferenceValidator, log *slog.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, refs: refs, log: log}
}

func (s *NotificationService) Create(ctx context.Context, notification domain.Notification) (domain.Notification, error) {
	if !notification.Type.Valid() {
		return domain.Notification{}, fmt.Errorf("%w: notification type %q", errors.ErrValidation, notification.Type)
	}
	if notification.RecipientID == 0 {
		return domain.Notification{}, fmt.Errorf("%w: recipient is required", errors.ErrValidation)
	}
	if _, err := s.refs.FetchUser(ctx, notification.RecipientID); err != nil {
		return domain.Notification{}, err
	}

	notification.ID = uuid.New().String()
	notification.SentDate = time.Now().UTC()
	notification.Read = false
	if err := s.notifications.Create(notification); err != nil {
		return domain.Notification{}, err
	}
	return notification, nil
}

func (s *NotificationService) GetByID(id string) (domain.Notification, error) {
	return s.notifications.GetByID(id)
}

func (s *NotificationService) GetByRecipient(recipientID int64) ([]domain.Notification, error) {
	return s.notifications.GetByRecipient(recipientID)
}

func (s *NotificationService) GetUnreadByRecipient(recipientID int64) ([]domain.Notification, error) {
	return s.notifications.GetUnreadByRecipient(recipientID)
}

// MarkRead flips the read flag once. Marking an already read notification
// is a no-op, not an error.
func (s *NotificationService) MarkRead(id string) (domain.Notification, error) {
	notification, err := s.notifications.GetByID(id)
	if err != nil {
		return domain.Notification{}, err
	}
	if notification.Read {
		return notification, nil
	}
	notification.Read = true
	if err := s.notifications.Update(notification); err != nil {
		return domain.Notification{}, err
	}
	return notification, nil
}

func (s *NotificationService) Delete(id string) error {
	return s.notifications.Delete(id)
}
