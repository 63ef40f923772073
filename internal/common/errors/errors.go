package errors

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	// Generic errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"

	// Raffle engine errors
	ErrCodeInsufficientPayment ErrorCode = "INSUFFICIENT_PAYMENT"
	ErrCodeRoundNotOpen        ErrorCode = "ROUND_NOT_OPEN"
	ErrCodeUpkeepNotNeeded     ErrorCode = "UPKEEP_NOT_NEEDED"
	ErrCodePrizeTransfer       ErrorCode = "PRIZE_TRANSFER_FAILED"
	ErrCodeIndexOutOfRange     ErrorCode = "INDEX_OUT_OF_RANGE"

	// Oracle integration errors
	ErrCodeOracleRequest        ErrorCode = "ORACLE_REQUEST_FAILED"
	ErrCodeUnknownRequest       ErrorCode = "UNKNOWN_ORACLE_REQUEST"
	ErrCodeDuplicateFulfillment ErrorCode = "DUPLICATE_FULFILLMENT"

	// Infrastructure errors
	ErrCodeRedisError ErrorCode = "REDIS_ERROR"
	ErrCodeTonAPI     ErrorCode = "TON_API_ERROR"
)

// AppError is a typed application error with a structured diagnostic payload.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Context   map[string]string      `json:"context,omitempty"`
	Stack     []string               `json:"stack,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error is a "not found" kind.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound ||
		e.Code == ErrCodeIndexOutOfRange ||
		e.Code == ErrCodeUnknownRequest
}

// IsValidation reports whether the error is a validation kind.
func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation || e.Code == ErrCodeBadRequest
}

// IsInternal reports whether the error is an internal/infrastructure kind.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeRedisError ||
		e.Code == ErrCodeOracleRequest ||
		e.Code == ErrCodePrizeTransfer ||
		e.Code == ErrCodeTonAPI
}

// WithContext adds a context key/value to the error.
func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithDetail adds a structured detail field to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID attaches a request ID to the error.
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStackTrace(),
	}
}

// Wrap wraps an existing error with an application error code.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

// Constructors for frequently used errors

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewInsufficientPaymentError is returned when an entry payment is below the entrance fee.
func NewInsufficientPaymentError(paid, required string) *AppError {
	return New(ErrCodeInsufficientPayment, "Payment is below the entrance fee").
		WithDetail("paid", paid).
		WithDetail("required", required)
}

// NewRoundNotOpenError is returned when an entry arrives while a draw is in flight.
func NewRoundNotOpenError(state string) *AppError {
	return New(ErrCodeRoundNotOpen, "Raffle round is not accepting entries").
		WithDetail("state", state)
}

// NewUpkeepNotNeededError carries the round snapshot explaining why a draw was refused.
func NewUpkeepNotNeededError(state string, potNano string, players int) *AppError {
	return New(ErrCodeUpkeepNotNeeded, "Upkeep conditions are not met").
		WithDetail("state", state).
		WithDetail("pot_nano", potNano).
		WithDetail("players", players)
}

// NewPrizeTransferError is returned when paying the winner fails.
func NewPrizeTransferError(winner, amount string, err error) *AppError {
	return Wrap(err, ErrCodePrizeTransfer, "Prize transfer to winner failed").
		WithDetail("winner", winner).
		WithDetail("amount", amount)
}

// NewIndexOutOfRangeError is returned for an invalid player index query.
func NewIndexOutOfRangeError(index, count int) *AppError {
	return New(ErrCodeIndexOutOfRange, fmt.Sprintf("Player index %d out of range", index)).
		WithDetail("index", index).
		WithDetail("players", count)
}

// NewOracleRequestError is returned when issuing a randomness request fails.
func NewOracleRequestError(err error) *AppError {
	return Wrap(err, ErrCodeOracleRequest, "Randomness request to oracle failed")
}

// NewUnknownRequestError is returned for a fulfillment with an unknown request ID.
func NewUnknownRequestError(requestID string) *AppError {
	return New(ErrCodeUnknownRequest, "Unknown oracle request").
		WithDetail("request_id", requestID)
}

// NewDuplicateFulfillmentError is returned when a request is fulfilled twice.
func NewDuplicateFulfillmentError(requestID string) *AppError {
	return New(ErrCodeDuplicateFulfillment, "Oracle request already fulfilled").
		WithDetail("request_id", requestID)
}

// NewUnauthorizedError creates an authorization error.
func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("Unauthorized: %s", reason)).
		WithDetail("reason", reason)
}

// NewRedisError creates an infrastructure error for a failed Redis operation.
func NewRedisError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeRedisError, fmt.Sprintf("Redis operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// IsAppError reports whether err is an AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError casts err to AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
