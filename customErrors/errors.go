package customerrors

import (
	"errors"
	"net/http"
)

// Error carries the envelope code reported to the caller. Codes mirror
// HTTP semantics but are only ever written into the response body.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds a one-off error, e.g. a validation message naming a field.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Validation(message string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message}
}

var (
	ErrMissingEmail      = &Error{Code: http.StatusBadRequest, Message: "email is required"}
	ErrMissingFields     = &Error{Code: http.StatusBadRequest, Message: "missing required fields"}
	ErrMissingLogin      = &Error{Code: http.StatusBadRequest, Message: "username and password are required"}
	ErrMissingHotelField = &Error{Code: http.StatusBadRequest, Message: "missing required fields (name, city, price, ownerId)"}
	ErrBadRequest        = &Error{Code: http.StatusBadRequest, Message: "bad request"}

	ErrCodeMissing  = &Error{Code: http.StatusBadRequest, Message: "please request a verification code first"}
	ErrCodeExpired  = &Error{Code: http.StatusBadRequest, Message: "verification code has expired"}
	ErrCodeMismatch = &Error{Code: http.StatusBadRequest, Message: "verification code is incorrect"}

	ErrDuplicateEmail    = &Error{Code: http.StatusBadRequest, Message: "email is already registered"}
	ErrDuplicateUsername = &Error{Code: http.StatusBadRequest, Message: "username is already taken"}

	ErrInvalidCredentials = &Error{Code: http.StatusUnauthorized, Message: "invalid username or password"}

	ErrHotelNotFound = &Error{Code: http.StatusNotFound, Message: "hotel not found"}

	ErrSendCode      = &Error{Code: http.StatusInternalServerError, Message: "failed to send verification code"}
	ErrInternalError = &Error{Code: http.StatusInternalServerError, Message: "internal server error"}
)

// GetCode returns the envelope code for err, 500 for anything unknown.
func GetCode(err error) int {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}
	return http.StatusInternalServerError
}

// GetMessage returns the caller-facing message. Unknown errors never leak
// their text; fallback is used instead.
func GetMessage(err error, fallback string) string {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}
	return fallback
}

// IsInternal reports whether err should be logged as a server-side failure.
func IsInternal(err error) bool {
	return GetCode(err) >= http.StatusInternalServerError
}
