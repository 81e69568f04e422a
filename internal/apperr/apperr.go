package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a class of failure with a stable machine-readable code.
type Kind struct {
	Code   string
	Status int
}

var (
	KindUserAlreadyExists   = Kind{Code: "user_already_exists", Status: http.StatusConflict}
	KindInvalidCredentials  = Kind{Code: "invalid_credentials", Status: http.StatusUnauthorized}
	KindUserNotActive       = Kind{Code: "user_not_active", Status: http.StatusForbidden}
	KindInvalidRefreshToken = Kind{Code: "invalid_refresh_token", Status: http.StatusUnauthorized}
	KindInvalidToken        = Kind{Code: "invalid_token", Status: http.StatusUnauthorized}
	KindNotFound            = Kind{Code: "not_found", Status: http.StatusNotFound}
	KindConflict            = Kind{Code: "conflict", Status: http.StatusConflict}
	KindValidation          = Kind{Code: "validation_failed", Status: http.StatusBadRequest}
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two apperr values by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind.Code == t.Kind.Code
	}
	return false
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

var (
	ErrUserAlreadyExists   = New(KindUserAlreadyExists, "user already exists")
	ErrInvalidCredentials  = New(KindInvalidCredentials, "invalid email or password")
	ErrUserNotActive       = New(KindUserNotActive, "user account is deactivated")
	ErrInvalidRefreshToken = New(KindInvalidRefreshToken, "invalid refresh token")
	ErrInvalidToken        = New(KindInvalidToken, "invalid token")
	ErrNotFound            = New(KindNotFound, "not found")
)

// KindOf returns the kind of err, or false when err is not an apperr.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return Kind{}, false
}
