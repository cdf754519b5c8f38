package repositories

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HandleError maps a gorm error onto the store sentinels and logs it.
func HandleError(op string, err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string
	var sentinel error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, shared.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
		sentinel = shared.ErrConflict
	case strings.Contains(err.Error(), "UNIQUE constraint failed"),
		strings.Contains(err.Error(), "duplicate key value"):
		statusCode = http.StatusConflict
		errorType = "UNIQUE_CONSTRAINT"
		sentinel = shared.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
		sentinel = shared.ErrStoreUnavailable
	default:
		statusCode = http.StatusInternalServerError
		errorType = "INTERNAL_ERROR"
		sentinel = shared.ErrStoreUnavailable
	}

	logEntry := log.WithFields(log.Fields{
		"op":          op,
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %s: %w", op, errorType, errors.Join(sentinel, err))
}
