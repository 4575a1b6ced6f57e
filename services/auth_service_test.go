package services

import (
	"testing"
	"time"

	"chathub/auth"
	"chathub/errors"
	"chathub/mocks"
	"chathub/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testSecret = "test-secret"
	testIssuer = "chathub"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, []byte(testSecret), testIssuer, 24*time.Hour)

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		username := "alice"
		password := "ComplexPass123!"

		// Expect CreateUser to be called with a hashed password (not the plain one)
		mockRepo.EXPECT().
			CreateUser(username, gomock.Not(gomock.Eq(password))).
			Return(nil).
			Times(1)

		req.NoError(svc.Register(username, password))
	})

	t.Run("should fail when validation is not met", func(t *testing.T) {
		req := require.New(t)

		// Repository should NEVER be called
		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		err := svc.Register("alice", "short")
		req.ErrorIs(err, errors.ErrInvalidPassword)
	})

	t.Run("should fail when username already exists in repository", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			CreateUser("alice", gomock.Any()).
			Return(errors.ErrDuplicateIdentity).
			Times(1)

		err := svc.Register("alice", "ComplexPass123!")
		req.ErrorIs(err, errors.ErrDuplicateIdentity)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, []byte(testSecret), testIssuer, 24*time.Hour)

	password := "ComplexPass123!"
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetUserByUsername("alice").
			Return(repositories.User{Username: "alice", PasswordHash: hash}, nil).
			Times(1)

		token, err := svc.Login("alice", password)
		req.NoError(err)
		req.NotEmpty(token)

		// The issued token authenticates the HTTP surface.
		claims, err := svc.Tokens().Parse(token)
		req.NoError(err)
		req.Equal("alice", claims.Username)
	})

	t.Run("should fail with wrong password", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetUserByUsername("alice").
			Return(repositories.User{Username: "alice", PasswordHash: hash}, nil).
			Times(1)

		_, err := svc.Login("alice", "wrong-password")
		req.ErrorIs(err, errors.ErrInvalidCredential)
	})

	t.Run("should fail identically for an unknown user", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetUserByUsername("ghost").
			Return(repositories.User{}, errors.ErrInvalidCredential).
			Times(1)

		_, err := svc.Login("ghost", password)
		req.ErrorIs(err, errors.ErrInvalidCredential)
	})
}
