package domain

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentSuccess  PaymentStatus = "SUCCESS"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentSuccess, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Payment references a parent in the user service and a student in the
// student performance service. Both references are validated before the
// row is written; nothing else guarantees they exist.
type Payment struct {
	ID            int64         `json:"id"`
	StudentID     int64         `json:"studentId"`
	ParentUserID  int64         `json:"parentUserId"`
	Amount        float64       `json:"amount"`
	PaymentDate   time.Time     `json:"paymentDate"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transactionId"`
	Description   string        `json:"description,omitempty"`
}
