package apperrors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	// ErrorTypeConfiguration represents run configuration errors; always fatal
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeConnection represents database connection errors
	ErrorTypeConnection ErrorType = "connection"
	// ErrorTypeSnapshotMissing represents a missing snapshot file for a table
	ErrorTypeSnapshotMissing ErrorType = "snapshot_missing"
	// ErrorTypeTableMissing represents a table absent from the destination schema
	ErrorTypeTableMissing ErrorType = "table_missing"
	// ErrorTypeEncoding represents snapshot serialization errors
	ErrorTypeEncoding ErrorType = "encoding"
	// ErrorTypeDecoding represents malformed snapshot files
	ErrorTypeDecoding ErrorType = "decoding"
	// ErrorTypeReconciliation represents a snapshot/destination column mismatch
	ErrorTypeReconciliation ErrorType = "reconciliation"
	// ErrorTypeRowInsertion represents a per-row constraint or type violation
	ErrorTypeRowInsertion ErrorType = "row_insertion"
	// ErrorTypeStorage represents snapshot store read/write errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeSQL represents SQL execution errors
	ErrorTypeSQL ErrorType = "sql"
	// ErrorTypeTimeout represents timeout errors
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeUnknown represents unknown errors
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError represents an application-specific error with context
type AppError struct {
	Type        ErrorType
	Message     string
	Cause       error
	Context     map[string]interface{}
	Recoverable bool
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRecoverable returns whether the error is worth retrying
func (e *AppError) IsRecoverable() bool {
	return e.Recoverable
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new application error
func New(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewRecoverable creates a new recoverable error
func NewRecoverable(errorType ErrorType, message string, cause error) *AppError {
	err := New(errorType, message, cause)
	err.Recoverable = true
	return err
}

// Common error constructors

func NewConfigurationError(message string, cause error) *AppError {
	return New(ErrorTypeConfiguration, message, cause)
}

func NewSnapshotMissingError(table, path string) *AppError {
	return New(ErrorTypeSnapshotMissing,
		fmt.Sprintf("snapshot file for table %q does not exist", table), nil).
		WithContext("table", table).
		WithContext("path", path)
}

func NewTableMissingError(table string) *AppError {
	return New(ErrorTypeTableMissing,
		fmt.Sprintf("table %q not found on destination database", table), nil).
		WithContext("table", table)
}

func NewEncodingError(message string, cause error) *AppError {
	return New(ErrorTypeEncoding, message, cause)
}

func NewDecodingError(message string, cause error) *AppError {
	return New(ErrorTypeDecoding, message, cause)
}

func NewStorageError(message string, cause error) *AppError {
	return New(ErrorTypeStorage, message, cause)
}

// Classify analyzes an error and returns an AppError with appropriate
// classification. MySQL error numbers are mapped so that per-row failures
// carry a meaningful category in the logs.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1045: // access denied
			return New(ErrorTypeConnection, "database access denied - check username and password", err).
				WithContext("mysql_error_code", mysqlErr.Number)
		case 1049: // unknown database
			return New(ErrorTypeConfiguration, "database does not exist", err).
				WithContext("mysql_error_code", mysqlErr.Number)
		case 1146: // table doesn't exist
			return New(ErrorTypeTableMissing, "table does not exist", err).
				WithContext("mysql_error_code", mysqlErr.Number)
		case 1054: // unknown column
			return New(ErrorTypeRowInsertion, "column does not exist", err).
				WithContext("mysql_error_code", mysqlErr.Number)
		case 1062: // duplicate entry
			return New(ErrorTypeRowInsertion, "duplicate entry", err).
				WithContext("mysql_error_code", mysqlErr.Number)
		case 1366: // incorrect value for column
			return New(ErrorTypeRowInsertion, "incorrect value for column", err).
				WithContext("mysql_error_code", mysqlErr.Number)
		case 1452: // foreign key constraint fails
			return New(ErrorTypeRowInsertion, "foreign key constraint violation", err).
				WithContext("mysql_error_code", mysqlErr.Number)
		case 2003: // can't connect
			return NewRecoverable(ErrorTypeConnection, "cannot connect to MySQL server", err).
				WithContext("mysql_error_code", mysqlErr.Number)
		case 2006: // server has gone away
			return NewRecoverable(ErrorTypeConnection, "MySQL server connection lost", err).
				WithContext("mysql_error_code", mysqlErr.Number)
		default:
			return New(ErrorTypeSQL, fmt.Sprintf("MySQL error: %s", mysqlErr.Message), err).
				WithContext("mysql_error_code", mysqlErr.Number)
		}
	}

	if errors.Is(err, sql.ErrConnDone) {
		return NewRecoverable(ErrorTypeConnection, "database connection is closed", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NewRecoverable(ErrorTypeTimeout, "network operation timed out", err)
		}
		return NewRecoverable(ErrorTypeConnection, "network error", err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewRecoverable(ErrorTypeTimeout, "operation timed out", err)
	}

	return New(ErrorTypeUnknown, "an unexpected error occurred", err)
}

// GetErrorType returns the error type of an error
func GetErrorType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// WrapError wraps an existing error with additional context, preserving the
// classified error type.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return New(appErr.Type, message, err)
	}

	classified := Classify(err)
	classified.Message = message
	return classified
}

// RetryConfig holds configuration for retry operations
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryHandler provides retry functionality for recoverable operations
type RetryHandler struct {
	config RetryConfig
}

// NewRetryHandler creates a new retry handler
func NewRetryHandler(config RetryConfig) *RetryHandler {
	return &RetryHandler{config: config}
}

// NewDefaultRetryHandler creates a retry handler with default configuration
func NewDefaultRetryHandler() *RetryHandler {
	return NewRetryHandler(DefaultRetryConfig())
}

// Retry executes a function with retry logic for recoverable errors
func (rh *RetryHandler) Retry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 1; attempt <= rh.config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return New(ErrorTypeTimeout, "operation canceled", ctx.Err())
		default:
		}

		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err
		appErr := Classify(err)

		if !appErr.IsRecoverable() {
			return appErr
		}

		if attempt == rh.config.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return New(ErrorTypeTimeout, "operation canceled during retry", ctx.Err())
		case <-time.After(rh.calculateDelay(attempt)):
		}
	}

	return Classify(lastErr).WithContext("attempts", rh.config.MaxAttempts)
}

// calculateDelay computes the exponential backoff delay for a given attempt
func (rh *RetryHandler) calculateDelay(attempt int) time.Duration {
	multiplier := 1.0
	for i := 1; i < attempt; i++ {
		multiplier *= rh.config.Multiplier
	}

	delay := time.Duration(float64(rh.config.BaseDelay) * multiplier)
	if delay > rh.config.MaxDelay {
		delay = rh.config.MaxDelay
	}

	return delay
}
