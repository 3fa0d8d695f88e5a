package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/KHILANO5/Campusfound/pkg/apperr"
)

// APIError is a non-2xx response. It unwraps to an *apperr.Error carrying the
// server's error code, so errors.Is(err, apperr.ErrConflict) works on the
// client side too.
type APIError struct {
	StatusCode int
	Err        *apperr.Error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Err.Error())
}

func (e *APIError) Unwrap() error { return e.Err }

func decodeError(status int, body []byte) *APIError {
	var wire struct {
		Code    apperr.Kind `json:"code"`
		Message string      `json:"message"`
		Field   string      `json:"field"`
	}
	if err := json.Unmarshal(body, &wire); err != nil || wire.Code == "" {
		wire.Code = kindForStatus(status)
		wire.Message = http.StatusText(status)
	}
	return &APIError{
		StatusCode: status,
		Err:        &apperr.Error{Kind: wire.Code, Field: wire.Field, Message: wire.Message},
	}
}

func kindForStatus(status int) apperr.Kind {
	switch status {
	case http.StatusBadRequest:
		return apperr.KindValidation
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusConflict:
		return apperr.KindConflict
	case http.StatusUnauthorized:
		return apperr.KindAuth
	default:
		return apperr.KindStorage
	}
}

// StatusCode returns the HTTP status of err, or 0 if err is not an APIError.
func StatusCode(err error) int {
	var e *APIError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool { return errors.Is(err, apperr.ErrNotFound) }

func IsConflict(err error) bool { return errors.Is(err, apperr.ErrConflict) }
