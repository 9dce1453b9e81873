package common

import (
	"encoding/json"
	"errors"
	"go-auth-api/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Sentinel errors returned by the service layer. Handlers map them to
// HTTP statuses; the message sent to the client is always generic.
var (
	// ErrUnauthorized covers every failed credential check: missing,
	// malformed, expired, revoked, or already-rotated tokens, and bad
	// login credentials. The cause is never distinguished to the
	// client.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already in use")
	// ErrStorage wraps persistence failures.
	ErrStorage = errors.New("storage failure")
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}

// FromServiceError maps a service-layer error onto the HTTP envelope.
// Unauthorized responses share a single non-specific message so a
// caller cannot tell a revoked token from an expired one.
func FromServiceError(err error) *AppError {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(http.StatusUnauthorized, "Invalid or expired credentials", err)
	case errors.Is(err, ErrEmailTaken):
		return NewAppError(http.StatusBadRequest, "Email is already registered", err)
	case errors.Is(err, ErrStorage):
		return NewAppError(http.StatusInternalServerError, "Internal server error", err)
	default:
		return NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
}
