package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var ErrMissingCredentials = errors.New("client id or client secret not configured")

var validate = validator.New()

// Credentials identify the registered API application.
type Credentials struct {
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`
}

// Validate reports ErrMissingCredentials when either value is empty.
func (c Credentials) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingCredentials, err)
	}
	return nil
}
