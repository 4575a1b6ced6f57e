// Package services hosts the credential-check collaborator. The session
// coordinator treats it as a boolean oracle plus token issuer; account
// lifecycle beyond creation is out of scope.
package services

import (
	"fmt"
	"time"

	"chathub/auth"
	"chathub/contract"
	errs "chathub/errors"
	"chathub/repositories"
)

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         *auth.TokenManager
}

func NewAuthService(repo repositories.IUserRepository, secret []byte, issuer string, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		userRepository: repo,
		tokens:         auth.NewTokenManager(secret, issuer, tokenDuration),
	}
}

var _ contract.ICredentials = (*AuthService)(nil)

// Register creates an account. A taken username surfaces as
// ErrDuplicateIdentity; the caller reports it privately and keeps the
// connection open.
func (s *AuthService) Register(username, password string) error {
	req := auth.RegisterRequest{
		Username: username,
		Password: password,
	}
	// Validate before any expensive cryptographic operation.
	if err := auth.ValidateRegister(req); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidPassword, err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing failed: %w", err)
	}

	return s.userRepository.CreateUser(username, hashed)
}

// Login verifies a credential pair and issues a session token. Lookup and
// comparison failures collapse into one generic error to prevent account
// enumeration.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		return "", errs.ErrInvalidCredential
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errs.ErrInvalidCredential
	}

	token, err := s.tokens.Generate(username)
	if err != nil {
		return "", errs.ErrTokenGeneration
	}
	return token, nil
}

// Tokens exposes the manager so the HTTP surface shares the same secret.
func (s *AuthService) Tokens() *auth.TokenManager {
	return s.tokens
}
