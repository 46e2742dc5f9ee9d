// Package errors provides custom error types for the channelsync system.
// These errors enable programmatic error checking and carry enough context
// to produce the per-record error strings reported in sync results.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the channelsync system
var (
	// ErrNotFound indicates that a requested record was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a record already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnresolvedReference indicates a foreign key that could not be
	// resolved through the run's cross-reference map
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrChannelUnavailable indicates the channel manager API is unreachable
	ErrChannelUnavailable = errors.New("channel manager unavailable")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error from the channel manager API
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("channel manager error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("channel manager error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode >= 500 {
		return target == ErrChannelUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// StoreError represents a local store insert or update failure
type StoreError struct {
	Operation string // "find", "insert", "update"
	Entity    string // "guest", "property", "reservation", "calendar_block"
	ID        string
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store error during %s of %s %s: %v", e.Operation, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("store error during %s of %s: %v", e.Operation, e.Entity, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError
func NewStoreError(operation, entity, id string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Entity:    entity,
		ID:        id,
		Err:       err,
	}
}

// MappingError represents a failure to extract identity or required fields
// from a raw channel-manager record
type MappingError struct {
	Entity     string
	ExternalID string
	Field      string
	Message    string
}

// Error implements the error interface
func (e *MappingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("mapping error for %s %s: field %s: %s", e.Entity, e.ExternalID, e.Field, e.Message)
	}
	return fmt.Sprintf("mapping error for %s %s: %s", e.Entity, e.ExternalID, e.Message)
}

// Is implements errors.Is support
func (e *MappingError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewMappingError creates a new MappingError
func NewMappingError(entity, externalID, field, message string) *MappingError {
	return &MappingError{
		Entity:     entity,
		ExternalID: externalID,
		Field:      field,
		Message:    message,
	}
}

// UnresolvedReferenceError indicates a reservation's guest or property
// foreign key was never seen in the earlier phases of the same run.
// The engine skips the record rather than attaching it to an arbitrary
// entity.
type UnresolvedReferenceError struct {
	Entity     string // the referenced entity type: "guest" or "property"
	ExternalID string // the foreign key that missed the cross-reference map
}

// Error implements the error interface
func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved %s reference: external id %s not seen in this run", e.Entity, e.ExternalID)
}

// Is implements errors.Is support
func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// NewUnresolvedReferenceError creates a new UnresolvedReferenceError
func NewUnresolvedReferenceError(entity, externalID string) *UnresolvedReferenceError {
	return &UnresolvedReferenceError{Entity: entity, ExternalID: externalID}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnresolvedReference checks if an error is an unresolved reference error
func IsUnresolvedReference(err error) bool {
	return errors.Is(err, ErrUnresolvedReference)
}

// IsChannelUnavailable checks if an error indicates channel manager unavailability
func IsChannelUnavailable(err error) bool {
	return errors.Is(err, ErrChannelUnavailable)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapStore wraps an error as a StoreError
func WrapStore(operation, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreError(operation, entity, id, err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(endpoint string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
