package service

import "net/http"

// APIError is a user-facing failure with an HTTP status. Its message is safe
// to return verbatim; everything else is collapsed to a generic 500 at the
// transport boundary.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

func badRequest(message string) *APIError {
	return newAPIError(http.StatusBadRequest, message)
}

func unauthorized(message string) *APIError {
	return newAPIError(http.StatusUnauthorized, message)
}

func forbidden(message string) *APIError {
	return newAPIError(http.StatusForbidden, message)
}

func notFound(message string) *APIError {
	return newAPIError(http.StatusNotFound, message)
}
