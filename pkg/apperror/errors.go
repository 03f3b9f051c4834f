package apperror

import (
	"errors"
	"net/http"
)

// GenericError is implemented by every error kind that maps to an HTTP status.
type GenericError interface {
	error
	ErrCode() string
	StatusCode() int
}

// ValidationError signals malformed user input (bad currency code, bad amount,
// malformed date). It is the only error kind handlers are allowed to return to
// the routing layer; everything else is degraded locally.
type ValidationError string

func (err ValidationError) Error() string {
	return string(err)
}

func (err ValidationError) ErrCode() string {
	return "VALIDATION_ERROR"
}

func (err ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

type NotFoundError string

func (err NotFoundError) Error() string {
	return string(err)
}

func (err NotFoundError) ErrCode() string {
	return "NOT_FOUND_ERROR"
}

func (err NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

type RateLimitedError string

func (err RateLimitedError) Error() string {
	return string(err)
}

func (err RateLimitedError) ErrCode() string {
	return "RATE_LIMITED"
}

func (err RateLimitedError) StatusCode() int {
	return http.StatusTooManyRequests
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
