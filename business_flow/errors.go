// Package businessflow contains the core business logic and use cases for pledge intake workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Pool-related errors
	ErrPoolNotFound            = errors.New("pool not found")
	ErrPoolNotAcceptingPledges = errors.New("pool is not accepting pledges")

	// Pledge intake errors
	ErrDuplicatePledge     = errors.New("a pledge for this email already exists in this pool")
	ErrPledgeNotFound      = errors.New("pledge not found")
	ErrInvalidCargoSpec    = errors.New("invalid cargo specification")
	ErrInvalidSubmission   = errors.New("invalid submission")
	ErrInvalidStatusChange = errors.New("invalid pledge status change")

	// Rate limiting errors
	ErrTooManyRequests = errors.New("too many requests")

	// Admin errors
	ErrAdminNotFound     = errors.New("admin not found")
	ErrAdminInactive     = errors.New("admin account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Settings errors
	ErrInvalidPricingSettings = errors.New("invalid pricing settings")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError carries the field path of a failed business-shape check so
// handlers can surface it to the client
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSubmission
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsPoolNotFound(err error) bool {
	return errors.Is(err, ErrPoolNotFound)
}

func IsPoolNotAcceptingPledges(err error) bool {
	return errors.Is(err, ErrPoolNotAcceptingPledges)
}

func IsDuplicatePledge(err error) bool {
	return errors.Is(err, ErrDuplicatePledge)
}

func IsPledgeNotFound(err error) bool {
	return errors.Is(err, ErrPledgeNotFound)
}

func IsInvalidCargoSpec(err error) bool {
	return errors.Is(err, ErrInvalidCargoSpec)
}

func IsInvalidSubmission(err error) bool {
	return errors.Is(err, ErrInvalidSubmission)
}

func IsInvalidStatusChange(err error) bool {
	return errors.Is(err, ErrInvalidStatusChange)
}

func IsTooManyRequests(err error) bool {
	return errors.Is(err, ErrTooManyRequests)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsAdminInactive(err error) bool {
	return errors.Is(err, ErrAdminInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsInvalidPricingSettings(err error) bool {
	return errors.Is(err, ErrInvalidPricingSettings)
}
