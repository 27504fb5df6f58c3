package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAuthentication = errors.New("authentication failed")
	ErrUnavailable    = errors.New("api unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	// ErrDecode marks a 2xx response whose body is not the expected JSON.
	ErrDecode = errors.New("malformed api response")
)

// StatusError is returned for any non-2xx API response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("api returned %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match a 401.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}
