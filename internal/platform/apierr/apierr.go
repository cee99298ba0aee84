package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind names for the closed set of failure classes the service reports.
const (
	KindBadRequest      = "BadRequest"
	KindUnauthorized    = "Unauthorized"
	KindNotFound        = "NotFound"
	KindConflict        = "Conflict"
	KindValidation      = "Validation"
	KindExternalService = "ExternalService"
	KindDataAccess      = "DataAccess"
	KindService         = "Service"
)

type Error struct {
	Status  int
	Kind    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Kind != "" {
		return e.Kind
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, kind, message string, err error) *Error {
	return &Error{Status: status, Kind: kind, Message: message, Err: err}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, KindBadRequest, message, nil)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func Conflict(message string, err error) *Error {
	return New(http.StatusConflict, KindConflict, message, err)
}

func Validation(message string) *Error {
	return New(http.StatusUnprocessableEntity, KindValidation, message, nil)
}

func ExternalService(message string, err error) *Error {
	return New(http.StatusBadGateway, KindExternalService, message, err)
}

func DataAccess(message string, err error) *Error {
	return New(http.StatusInternalServerError, KindDataAccess, message, err)
}

func Service(message string, err error) *Error {
	return New(http.StatusInternalServerError, KindService, message, err)
}

// From reports whether err (or anything it wraps) is a taxonomy fault.
func From(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is a taxonomy fault of the given kind.
func IsKind(err error, kind string) bool {
	apiErr, ok := From(err)
	return ok && apiErr.Kind == kind
}
