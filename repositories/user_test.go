package repositories

import (
	"testing"

	"chathub/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create_And_Get(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	req.NoError(repo.CreateUser("alice", "$argon2id$fake$hash"))

	user, err := repo.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal("alice", user.Username)
	req.Equal("$argon2id$fake$hash", user.PasswordHash)
	req.False(user.CreatedAt.IsZero())
}

func TestUserRepository_Duplicate_Username(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	req.NoError(repo.CreateUser("alice", "hash-1"))
	err := repo.CreateUser("alice", "hash-2")
	req.ErrorIs(err, errors.ErrDuplicateIdentity)

	// The original record is untouched.
	user, err := repo.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal("hash-1", user.PasswordHash)
}

func TestUserRepository_Unknown_User(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.GetUserByUsername("ghost")
	req.ErrorIs(err, badger.ErrKeyNotFound)
}
