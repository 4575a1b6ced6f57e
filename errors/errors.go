package errors

import "fmt"

var (
	ErrInvalidCredential = fmt.Errorf("invalid username or password")
	ErrDuplicateIdentity = fmt.Errorf("username already exists")
	ErrNotAuthenticated  = fmt.Errorf("connection is not authenticated")
	ErrUnknownRoom       = fmt.Errorf("unknown room")
	ErrStorage           = fmt.Errorf("storage failure")
	ErrInvalidPassword   = fmt.Errorf("password rejected by validation")
	ErrTokenGeneration   = fmt.Errorf("token generation failed")
	ErrEmptyField        = fmt.Errorf("identity and room must not be empty")
	ErrEmptyWords        = fmt.Errorf("no words have been found")
)
