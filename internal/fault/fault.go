// Package fault defines the error taxonomy shared across services. The HTTP
// layer maps these to status codes; everything else stays a wrapped error.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports malformed or missing input. Maps to 400.
type ValidationError struct {
	Field   string
	Allowed []string
	Msg     string
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("%s: must be one of: %s", e.Msg, strings.Join(e.Allowed, ", "))
	}
	return e.Msg
}

// NotFoundError reports a missing referenced entity. Maps to 404.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports a unique-constraint or state conflict. Maps to 409.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// UpstreamError reports a failed call to an external provider (generation
// backend or push service). Maps to 500 and is never retried automatically.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Validation builds a ValidationError with a plain message.
func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Enum builds a ValidationError naming the offending field and its allowed values.
func Enum(field string, got string, allowed ...string) error {
	return &ValidationError{
		Field:   field,
		Allowed: allowed,
		Msg:     fmt.Sprintf("invalid %s %q", field, got),
	}
}

// NotFound builds a NotFoundError.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Conflict builds a ConflictError.
func Conflict(msg string) error {
	return &ConflictError{Msg: msg}
}

// Upstream wraps a provider failure.
func Upstream(provider string, err error) error {
	return &UpstreamError{Provider: provider, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsUpstream reports whether err is an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
