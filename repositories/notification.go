//go:generate go run go.uber.org/mock/mockgen -source=notification.go -destination=../mocks/mock_notification_repository.go -package=mocks
package repositories

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"parent-portal/domain"
)

type INotificationRepository interface {
	Create(notification domain.Notification) error
	GetByID(id string) (domain.Notification, error)
	GetByRecipient(recipientID int64) ([]domain.Notification, error)
	GetUnreadByRecipient(recipientID int64) ([]domain.Notification, error)
	Update(notification domain.Notification) error
	Delete(id string) error
}

type NotificationRepository struct {
	db *badger.DB
}

func NewNotificationRepository(db *badger.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func notificationKey(id string) []byte { return []byte("notification:" + id) }

func (n *NotificationRepository) Create(notification domain.Notification) error {
	return n.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, notificationKey(notification.ID), notification)
	})
}

func (n *NotificationRepository) GetByID(id string) (domain.Notification, error) {
	var notification domain.Notification
	err := n.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, notificationKey(id), &notification)
	})
	return notification, err
}

func (n *NotificationRepository) GetByRecipient(recipientID int64) ([]domain.Notification, error) {
	items, err := scanJSON[domain.Notification](n.db, "notification:")
	if err != nil {
		return nil, err
	}
	return lo.Filter(items, func(item domain.Notification, _ int) bool {
		return item.RecipientID == recipientID
	}), nil
}

func (n *NotificationRepository) GetUnreadByRecipient(recipientID int64) ([]domain.Notification, error) {
	items, err := n.GetByRecipient(recipientID)
	if err != nil {
		return nil, err
	}
	return lo.Filter(items, func(item domain.Notification, _ int) bool {
		return !item.Read
	}), nil
}

func (n *NotificationRepository) Update(notification domain.Notification) error {
	return n.db.Update(func(txn *badger.Txn) error {
		var existing domain.Notification
		if err := getJSON(txn, notificationKey(notification.ID), &existing); err != nil {
			return err
		}
		return setJSON(txn, notificationKey(notification.ID), notification)
	})
}

func (n *NotificationRepository) Delete(id string) error {
	return n.db.Update(func(txn *badger.Txn) error {
		var existing domain.Notification
		if err := getJSON(txn, notificationKey(id), &existing); err != nil {
			return err
		}
		return txn.Delete(notificationKey(id))
	})
}
