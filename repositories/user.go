//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	errs "chathub/errors"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	CreateUser(username, passwordHash string) error
	GetUserByUsername(username string) (User, error)
}

// User is the repository-level account record. The password hash is opaque
// to everything outside the auth package.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// CreateUser persists a new account. Username uniqueness is checked inside
// the same transaction that writes the record.
func (u *UserRepository) CreateUser(username, passwordHash string) error {
	user := User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + username)
		if _, err := txn.Get(key); err == nil {
			return errs.ErrDuplicateIdentity
		} else if err != badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %v", errs.ErrStorage, err)
		}
		return txn.Set(key, data)
	})
}

// GetUserByUsername loads an account record. A missing user surfaces as
// badger.ErrKeyNotFound; the service layer folds it into the generic
// invalid-credential error to avoid account enumeration.
func (u *UserRepository) GetUserByUsername(username string) (User, error) {
	var user User

	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}
