package errors

import (
	"errors"
	"fmt"
)

// ValidationError represents invalid schema input
type ValidationError struct {
	Table   string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Table != "" && e.Field != "":
		return fmt.Sprintf("validation error on field '%s.%s': %s", e.Table, e.Field, e.Message)
	case e.Table != "":
		return fmt.Sprintf("validation error on table '%s': %s", e.Table, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(table, field, message string) *ValidationError {
	return &ValidationError{Table: table, Field: field, Message: message}
}

// ConflictError represents a schema definition that collides with a
// structure the engine owns (e.g. a caller-declared 'id' column)
type ConflictError struct {
	Table   string
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("conflict on '%s.%s': %s", e.Table, e.Field, e.Message)
	}
	return fmt.Sprintf("conflict on table '%s': %s", e.Table, e.Message)
}

// NewConflictError creates a new ConflictError
func NewConflictError(table, field, message string) *ConflictError {
	return &ConflictError{Table: table, Field: field, Message: message}
}

// UnsupportedDialectError represents a dialect outside the supported set
type UnsupportedDialectError struct {
	Dialect string
}

func (e *UnsupportedDialectError) Error() string {
	return fmt.Sprintf("unsupported dialect '%s'", e.Dialect)
}

// NewUnsupportedDialectError creates a new UnsupportedDialectError
func NewUnsupportedDialectError(dialect string) *UnsupportedDialectError {
	return &UnsupportedDialectError{Dialect: dialect}
}

// MissingConnectionError represents a required database capability that
// was not supplied (nil connection, nil introspection provider)
type MissingConnectionError struct {
	Capability string
}

func (e *MissingConnectionError) Error() string {
	return fmt.Sprintf("missing required capability: %s", e.Capability)
}

// NewMissingConnectionError creates a new MissingConnectionError
func NewMissingConnectionError(capability string) *MissingConnectionError {
	return &MissingConnectionError{Capability: capability}
}

// ExecutionError represents a DDL statement that failed against the live
// database. Cause is the driver error, unwrapped and unmodified, so callers
// can still reach the original diagnostic via errors.Is / errors.As.
type ExecutionError struct {
	Table string
	SQL   string
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to execute DDL for table %s: %v", e.Table, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// NewExecutionError creates a new ExecutionError
func NewExecutionError(table, sql string, cause error) *ExecutionError {
	return &ExecutionError{Table: table, SQL: sql, Cause: cause}
}

// Helper functions for error checking

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// IsUnsupportedDialect checks if an error is an UnsupportedDialectError
func IsUnsupportedDialect(err error) bool {
	var unsupported *UnsupportedDialectError
	return errors.As(err, &unsupported)
}

// IsMissingConnection checks if an error is a MissingConnectionError
func IsMissingConnection(err error) bool {
	var missing *MissingConnectionError
	return errors.As(err, &missing)
}

// IsExecution checks if an error is an ExecutionError
func IsExecution(err error) bool {
	var execution *ExecutionError
	return errors.As(err, &execution)
}
