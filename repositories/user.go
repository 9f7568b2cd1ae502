//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"parent-portal/domain"
	"parent-portal/errors"
)

type IUserRepository interface {
	Create(user domain.User, passwordHash string) (domain.User, error)
	GetByID(id int64) (domain.User, error)
	GetByEmail(email string) (domain.User, error)
	CredentialsByEmail(email string) (domain.User, string, error)
	GetAll() ([]domain.User, error)
	Update(user domain.User, passwordHash string) error
	Delete(id int64) error
	Close() error
}

// userRecord is the stored shape. The password hash never leaves the
// repository except through CredentialsByEmail.
type userRecord struct {
	domain.User
	PasswordHash string `json:"passwordHash,omitempty"`
}

type UserRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

func NewUserRepository(db *badger.DB) (*UserRepository, error) {
	seq, err := db.GetSequence([]byte("seq:users"), 64)
	if err != nil {
		return nil, err
	}
	return &UserRepository{db: db, seq: seq}, nil
}

func (u *UserRepository) Close() error { return u.seq.Release() }

func emailKey(email string) []byte { return []byte("useremail:" + email) }

// Create persists a user, enforcing email uniqueness through the email
// index key inside the same transaction as the row write.
func (u *UserRepository) Create(user domain.User, passwordHash string) (domain.User, error) {
	id, err := nextID(u.seq)
	if err != nil {
		return domain.User{}, err
	}
	user.ID = id

	err = u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(emailKey(user.Email)); err == nil {
			return fmt.Errorf("%w: email %s", errors.ErrAlreadyExists, user.Email)
		}
		if err := setJSON(txn, numericKey("user:", user.ID), userRecord{User: user, PasswordHash: passwordHash}); err != nil {
			return err
		}
		return txn.Set(emailKey(user.Email), numericKey("user:", user.ID))
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u *UserRepository) GetByID(id int64) (domain.User, error) {
	var rec userRecord
	err := u.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, numericKey("user:", id), &rec)
	})
	return rec.User, err
}

func (u *UserRepository) GetByEmail(email string) (domain.User, error) {
	user, _, err := u.CredentialsByEmail(email)
	return user, err
}

func (u *UserRepository) CredentialsByEmail(email string) (domain.User, string, error) {
	var rec userRecord
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(email))
		if err != nil {
			return fmt.Errorf("%w: email %s", errors.ErrNotFound, email)
		}
		return item.Value(func(userKey []byte) error {
			return getJSON(txn, userKey, &rec)
		})
	})
	if err != nil {
		return domain.User{}, "", err
	}
	return rec.User, rec.PasswordHash, nil
}

func (u *UserRepository) GetAll() ([]domain.User, error) {
	records, err := scanJSON[userRecord](u.db, "user:")
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, len(records))
	for i, rec := range records {
		users[i] = rec.User
	}
	return users, nil
}

// Update rewrites the row. An empty passwordHash keeps the stored one.
func (u *UserRepository) Update(user domain.User, passwordHash string) error {
	return u.db.Update(func(txn *badger.Txn) error {
		var existing userRecord
		if err := getJSON(txn, numericKey("user:", user.ID), &existing); err != nil {
			return err
		}
		if passwordHash == "" {
			passwordHash = existing.PasswordHash
		}
		if user.Email != existing.Email {
			if _, err := txn.Get(emailKey(user.Email)); err == nil {
				return fmt.Errorf("%w: email %s", errors.ErrAlreadyExists, user.Email)
			}
			if err := txn.Delete(emailKey(existing.Email)); err != nil {
				return err
			}
			if err := txn.Set(emailKey(user.Email), numericKey("user:", user.ID)); err != nil {
				return err
			}
		}
		return setJSON(txn, numericKey("user:", user.ID), userRecord{User: user, PasswordHash: passwordHash})
	})
}

func (u *UserRepository) Delete(id int64) error {
	return u.db.Update(func(txn *badger.Txn) error {
		var existing userRecord
		if err := getJSON(txn, numericKey("user:", id), &existing); err != nil {
			return err
		}
		if err := txn.Delete(emailKey(existing.Email)); err != nil {
			return err
		}
		return txn.Delete(numericKey("user:", id))
	})
}
