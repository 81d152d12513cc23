package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyProcessed is returned when a transition finds the notification
	// no longer in a state the transition accepts.
	ErrAlreadyProcessed = errors.New("notification already processed")
	// ErrReasonPending is returned when the chat already has a notification
	// waiting for its rejection reason.
	ErrReasonPending = errors.New("another rejection reason is pending on this chat")
	ErrExpired       = errors.New("access link expired")
)

type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

type NotFoundError struct {
	Resource string
	Message  string
}

func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{Resource: resource, Message: message}
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Resource + " not found"
}

type ExpiredError struct {
	Message string
}

func (e *ExpiredError) Error() string {
	return e.Message
}

func (e *ExpiredError) Unwrap() error {
	return ErrExpired
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// UpstreamError wraps a failure talking to an external collaborator.
type UpstreamError struct {
	Service string
	Err     error
}

func NewUpstreamError(service string, err error) *UpstreamError {
	return &UpstreamError{Service: service, Err: err}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
