//go:generate go run go.uber.org/mock/mockgen -source=payment.go -destination=../mocks/mock_payment_repository.go -package=mocks
package repositories

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"parent-portal/domain"
)

type IPaymentRepository interface {
	Create(payment domain.Payment) (domain.Payment, error)
	GetByID(id int64) (domain.Payment, error)
	GetAll() ([]domain.Payment, error)
	GetByParent(parentUserID int64) ([]domain.Payment, error)
	GetByStudent(studentID int64) ([]domain.Payment, error)
	Update(payment domain.Payment) error
	Delete(id int64) error
	Close() error
}

type PaymentRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

func NewPaymentRepository(db *badger.DB) (*PaymentRepository, error) {
	seq, err := db.GetSequence([]byte("seq:payments"), 64)
	if err != nil {
		return nil, err
	}
	return &PaymentRepository{db: db, seq: seq}, nil
}

func (p *PaymentRepository) Close() error { return p.seq.Release() }

func (p *PaymentRepository) Create(payment domain.Payment) (domain.Payment, error) {
	id, err := nextID(p.seq)
	if err != nil {
		return domain.Payment{}, err
	}
	payment.ID = id

	err = p.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, numericKey("payment:", payment.ID), payment)
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

func (p *PaymentRepository) GetByID(id int64) (domain.Payment, error) {
	var payment domain.Payment
	err := p.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, numericKey("payment:", id), &payment)
	})
	return payment, err
}

func (p *PaymentRepository) GetAll() ([]domain.Payment, error) {
	return scanJSON[domain.Payment](p.db, "payment:")
}

func (p *PaymentRepository) GetByParent(parentUserID int64) ([]domain.Payment, error) {
	payments, err := p.GetAll()
	if err != nil {
		return nil, err
	}
	return lo.Filter(payments, func(pm domain.Payment, _ int) bool {
		return pm.ParentUserID == parentUserID
	}), nil
}

func (p *PaymentRepository) GetByStudent(studentID int64) ([]domain.Payment, error) {
	payments, err := p.GetAll()
	if err != nil {
		return nil, err
	}
	return lo.Filter(payments, func(pm domain.Payment, _ int) bool {
		return pm.StudentID == studentID
	}), nil
}

func (p *PaymentRepository) Update(payment domain.Payment) error {
	return p.db.Update(func(txn *badger.Txn) error {
		var existing domain.Payment
		if err := getJSON(txn, numericKey("payment:", payment.ID), &existing); err != nil {
			return err
		}
		return setJSON(txn, numericKey("payment:", payment.ID), payment)
	})
}

func (p *PaymentRepository) Delete(id int64) error {
	return p.db.Update(func(txn *badger.Txn) error {
		var existing domain.Payment
		if err := getJSON(txn, numericKey("payment:", id), &existing); err != nil {
			return err
		}
		return txn.Delete(numericKey("payment:", id))
	})
}
