// Package errors provides custom error types for the linksync system.
// These errors separate run-fatal failures (an unavailable source) from
// failures that are recovered locally (a malformed row, a single failed
// write) so callers can check them programmatically with errors.Is/As.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Join is an alias for the standard library errors.Join.
var Join = errors.Join

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the linksync system
var (
	// ErrSourceUnavailable indicates a catalog or knowledge-base source could not be loaded
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedRecord indicates an extracted row is missing a required field
	ErrMalformedRecord = errors.New("malformed record")

	// ErrCredentialsMissing indicates the write phase has no usable credentials
	ErrCredentialsMissing = errors.New("credentials missing")

	// ErrRemoteWrite indicates a single candidate could not be written back
	ErrRemoteWrite = errors.New("remote write failed")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthentication indicates the remote system rejected the session
	ErrAuthentication = errors.New("authentication failed")

	// ErrProviderUnavailable indicates that a remote service is temporarily unavailable
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited indicates that the remote rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// SourceUnavailableError reports that one side of the reconciliation could not
// be loaded. It is fatal for the run.
type SourceUnavailableError struct {
	Source   string // "catalog" or "knowledge-base"
	Location string // directory or endpoint
	Err      error
}

// Error implements the error interface
func (e *SourceUnavailableError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s source unavailable (%s): %v", e.Source, e.Location, e.Err)
	}
	return fmt.Sprintf("%s source unavailable: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// NewSourceUnavailableError creates a new SourceUnavailableError
func NewSourceUnavailableError(source, location string, err error) *SourceUnavailableError {
	return &SourceUnavailableError{Source: source, Location: location, Err: err}
}

// MalformedRecordError describes a dropped row.
type MalformedRecordError struct {
	Source string
	Index  int
	Field  string
	Reason string
}

// Error implements the error interface
func (e *MalformedRecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed %s row %d: field %s %s", e.Source, e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed %s row %d: %s", e.Source, e.Index, e.Reason)
}

// Is implements errors.Is support
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// RemoteWriteError records the stage at which a candidate write failed.
type RemoteWriteError struct {
	ItemID  string
	LocalID string
	Stage   string // "fetching", "claiming", "persisting"
	Err     error
}

// Error implements the error interface
func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("write %s -> %s failed while %s: %v", e.LocalID, e.ItemID, e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *RemoteWriteError) Is(target error) bool {
	return target == ErrRemoteWrite
}

// NotFoundError represents an error when a resource is not found
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
	Value   any
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
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error response from a remote HTTP API
type APIError struct {
	Service    string
	StatusCode int
	Code       string // API-level error code, e.g. "no-such-entity"
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	switch {
	case e.Code != "":
		return fmt.Sprintf("API error from %s (%s): %s", e.Service, e.Code, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
	}
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == http.StatusTooManyRequests || e.Code == "ratelimited" {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 || e.Code == "maxlag" || e.Code == "readonly" {
		return target == ErrProviderUnavailable
	}
	return false
}

// AuthenticationError represents a rejected login or an expired session
type AuthenticationError struct {
	Service string
	User    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.User != "" {
		return fmt.Sprintf("authentication error for %s as %s: %s", e.Service, e.User, e.Message)
	}
	return fmt.Sprintf("authentication error for %s: %s", e.Service, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
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
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "list"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// ProcessError represents an error from an external process or command
type ProcessError struct {
	Operation string
	Command   string
	Output    string
	Err       error
}

// Error implements the error interface
func (e *ProcessError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("process error during %s (command: %s): %v\nOutput: %s", e.Operation, e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("process error during %s (command: %s): %v", e.Operation, e.Command, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsSourceUnavailable checks if an error aborted source loading
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsCredentialsMissing checks if an error is a missing-credentials error
func IsCredentialsMissing(err error) bool {
	return errors.Is(err, ErrCredentialsMissing)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAuthentication checks if an error is an authentication error
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

// WrapAPI wraps an error as an APIError
func WrapAPI(service string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{Service: service, StatusCode: statusCode, Message: err.Error(), Err: err}
}
