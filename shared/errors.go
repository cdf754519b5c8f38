package shared

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrConflict         = errors.New("record version conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidIndex     = errors.New("invalid unit index")
)

type AppError struct {
	StatusCode int         `json:"-"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Err        error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(statusCode int, err error, message string) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	return NewAppError(http.StatusBadRequest, err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	return NewAppError(http.StatusNotFound, err, message)
}

func NewForbiddenError(err error, message string) *AppError {
	return NewAppError(http.StatusForbidden, err, message)
}

func NewTooManyRequestsError(data interface{}) *AppError {
	return &AppError{StatusCode: http.StatusTooManyRequests, Message: "Rate limit exceeded", Data: data}
}

func NewInternalError(err error, message string) *AppError {
	return NewAppError(http.StatusInternalServerError, err, message)
}

func NewServiceUnavailableError(err error, message string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, err, message)
}

// GetAppError unwraps err into an AppError. Bare sentinels from the store layer are
// mapped to their HTTP equivalents.
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}

	switch {
	case errors.Is(err, ErrInvalidIndex):
		return NewBadRequestError(err, "Invalid unit index"), true
	case errors.Is(err, ErrNotFound):
		return NewNotFoundError(err, "Not Found"), true
	case errors.Is(err, ErrConflict):
		return NewAppError(http.StatusConflict, err, "Record was modified concurrently"), true
	case errors.Is(err, ErrStoreUnavailable):
		return NewServiceUnavailableError(err, "Store unavailable"), true
	}
	return nil, false
}
