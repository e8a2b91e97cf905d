package status

import (
	"errors"
	"fmt"
)

// Code is the numeric error_code field.
type Code int

// Known codes.
const (
	OK                     Code = 0
	InvalidPublicKeyLength Code = -1010
	InvalidCredentials     Code = -1501
	MalformedRequest       Code = -1002
	MalformedPayload       Code = -1003
	BadCloudCredentials    Code = -20601
	CloudTokenExpired      Code = -20675
	DeviceTokenExpired     Code = 9999
)

// Categories.
var (
	ErrInvalidPublicKeyLength = errors.New("invalid public key length")
	ErrInvalidCredentials     = errors.New("invalid request or credentials")
	ErrMalformedRequest       = errors.New("incorrect request")
	ErrMalformedPayload       = errors.New("JSON format error")
	ErrBadCloudCredentials    = errors.New("incorrect email or password")
	ErrCloudTokenExpired      = errors.New("cloud token expired or invalid")
	ErrDeviceTokenExpired     = errors.New("device token expired or invalid")
	ErrUnexpected             = errors.New("unexpected error code")
)

var categories = map[Code]error{
	InvalidPublicKeyLength: ErrInvalidPublicKeyLength,
	InvalidCredentials:     ErrInvalidCredentials,
	MalformedRequest:       ErrMalformedRequest,
	MalformedPayload:       ErrMalformedPayload,
	BadCloudCredentials:    ErrBadCloudCredentials,
	CloudTokenExpired:      ErrCloudTokenExpired,
	DeviceTokenExpired:     ErrDeviceTokenExpired,
}

// Error is a non-zero status code with its category.
type Error struct {
	Code     Code
	Category error
}

func (e *Error) Error() string {
	if e.Category == ErrUnexpected {
		return fmt.Sprintf("unexpected error code: %d", e.Code)
	}
	return fmt.Sprintf("%s (error_code %d)", e.Category, e.Code)
}

// Unwrap exposes the category sentinel.
func (e *Error) Unwrap() error { return e.Category }

// Check returns nil for OK and a categorised *Error otherwise.
func Check(code Code) error {
	if code == OK {
		return nil
	}
	category, ok := categories[code]
	if !ok {
		category = ErrUnexpected
	}
	return &Error{Code: code, Category: category}
}

// CodeOf extracts the status code from err, if any.
func CodeOf(err error) (Code, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Code, true
	}
	return OK, false
}

// IsReauth reports whether err asks the caller to log in again rather than
// give up on the command.
func IsReauth(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrDeviceTokenExpired) ||
		errors.Is(err, ErrBadCloudCredentials) ||
		errors.Is(err, ErrCloudTokenExpired)
}
