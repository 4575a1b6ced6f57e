package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRequest bounds what we accept at account creation. Password
// policy beyond length is deliberately not enforced here.
type RegisterRequest struct {
	Username string `validate:"required,min=2,max=32,printascii,excludesall=0x20"`
	Password string `validate:"required,min=6,max=72"`
}

func ValidateRegister(req RegisterRequest) error {
	return validate.Struct(req)
}
