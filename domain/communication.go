package domain

import "time"

// Chat is logically keyed by the unordered pair of participant ids.
// At most one chat may exist for a given pair; participant ids never
// change after creation.
type Chat struct {
	ID             string    `json:"id"`
	Participant1ID int64     `json:"participant1Id"`
	Participant2ID int64     `json:"participant2Id"`
	CreatedAt      time.Time `json:"createdAt"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
	Messages       []Message `json:"messages,omitempty"`
}

type Message struct {
	ID        string    `json:"id"`
	SenderID  int64     `json:"senderId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

type News struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	PublishedDate time.Time `json:"publishedDate"`
	AuthorID      int64     `json:"authorId"`
	Category      string    `json:"category"`
}

type NotificationType string

const (
	NotificationPaymentConfirmation NotificationType = "PAYMENT_CONFIRMATION"
	NotificationNewMessage          NotificationType = "NEW_MESSAGE"
	NotificationAnnouncement        NotificationType = "ANNOUNCEMENT"
	NotificationAttendanceAlert     NotificationType = "ATTENDANCE_ALERT"
	NotificationGradeUpdate         NotificationType = "GRADE_UPDATE"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationPaymentConfirmation, NotificationNewMessage,
		NotificationAnnouncement, NotificationAttendanceAlert, NotificationGradeUpdate:
		return true
	}
	return false
}

// Notification is owned by exactly one recipient. Read flips at most
// once, from false to true.
type Notification struct {
	ID              string           `json:"id"`
	RecipientID     int64            `json:"recipientId"`
	Message         string           `json:"message"`
	SentDate        time.Time        `json:"sentDate"`
	Read            bool             `json:"read"`
	Type            NotificationType `json:"type"`
	RelatedEntityID string           `json:"relatedEntityId,omitempty"`
}
