//go:generate go run go.uber.org/mock/mockgen -source=payment_service.go -destination=../mocks/mock_payment_service.go -package=mocks
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
	"parent-portal/remote"
	"parent-portal/repositories"
)

type IPaymentService interface {
	Create(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	GetByID(id int64) (domain.Payment, error)
	GetAll() ([]domain.Payment, error)
	GetByParent(parentUserID int64) ([]domain.Payment, error)
	GetByStudent(studentID int64) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) (domain.Payment, error)
	Delete(id int64) error
}

// PaymentService records fee payments. It never stores a payment whose
// parent or student reference did not resolve, and it announces every
// status change on the payment topic.
type PaymentService struct {
	payments  repositories.IPaymentRepository
	refs      remote.ReferenceValidator
	publisher bus.Publisher
	log       *slog.Logger
}

func NewPaymentService(payments repositories.IPaymentRepository, refs remote.ReferenceValidator, publisher bus.Publisher, log *slog.Logger) *PaymentService {
	return &PaymentService{payments: payments, refs: refs, publisher: publisher, log: log}
}

// Create validates the parent and the student on their owning services,
// in parallel, before the local row is written. New payments start out
// PENDING with a fresh transaction id.
func (s *PaymentService) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	if payment.Amount <= 0 {
		return domain.Payment{}, fmt.Errorf("%w: amount must be positive", errors.ErrValidation)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.refs.RequireRole(gctx, payment.ParentUserID, domain.RoleParent)
		return err
	})
	g.Go(func() error {
		_, err := s.refs.FetchStudent(gctx, payment.StudentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Payment{}, err
	}

	payment.Status = domain.PaymentPending
	payment.TransactionID = uuid.New().String()
	payment.PaymentDate = time.Now().UTC()

	created, err := s.payments.Create(payment)
	if err != nil {
		return domain.Payment{}, err
	}
	s.log.Info("payment created",
		"id", created.ID,
		"parent", created.ParentUserID,
		"student", created.StudentID,
		"transaction", created.TransactionID,
	)
	return created, nil
}

func (s *PaymentService) GetByID(id int64) (domain.Payment, error) {
	return s.payments.GetByID(id)
}

func (s *PaymentService) GetAll() ([]domain.Payment, error) {
	return s.payments.GetAll()
}

func (s *PaymentService) GetByParent(parentUserID int64) ([]domain.Payment, error) {
	return s.payments.GetByParent(parentUserID)
}

func (s *PaymentService) GetByStudent(studentID int64) ([]domain.Payment, error) {
	return s.payments.GetByStudent(studentID)
}

// UpdateStatus moves a payment to a new status and publishes the change.
// Publication is fire-and-forget; the update succeeds regardless of who
// is listening.
func (s *PaymentService) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) (domain.Payment, error) {
	if !status.Valid() {
		return domain.Payment{}, fmt.Errorf("%w: payment status %q", errors.ErrValidation, status)
	}

	payment, err := s.payments.GetByID(id)
	if err != nil {
		return domain.Payment{}, err
	}
	payment.Status = status
	if err := s.payments.Update(payment); err != nil {
		return domain.Payment{}, err
	}

	s.publisher.Publish(event.PaymentStatusChanged{
		ParentUserID:  payment.ParentUserID,
		StudentID:     payment.StudentID,
		TransactionID: payment.TransactionID,
		Status:        payment.Status,
	})
	return payment, nil
}

func (s *PaymentService) Delete(id int64) error {
	return s.payments.Delete(id)
}
