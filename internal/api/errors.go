package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrNetwork means the server could not be reached.
	ErrNetwork = errors.New("network unreachable")
	// ErrTimeout means the request ran past the client timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrUnauthorized matches a *ServerError with HTTP status 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoToken is returned before any I/O when an endpoint needs a
	// session and none is stored.
	ErrNoToken = errors.New("no authentication token")
)

// ServerError is a failure reported by the server: a non-2xx status or a
// body with "success": false.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.Status)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *ServerError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == 401
}

// IsNetwork reports whether err is a connectivity failure or a timeout, as
// opposed to an answer from the server.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout)
}

// MessageOf returns the server's message carried by err, or "".
func MessageOf(err error) string {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

// transportError classifies an error from http.Client.Do.
func transportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
