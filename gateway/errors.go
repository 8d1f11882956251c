package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed gateway request.
type Kind int

const (
	Unauthorized Kind = iota + 1
	NotFound
	ServerError
	NetworkFailure
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case NotFound:
		return "not_found"
	case ServerError:
		return "server_error"
	case NetworkFailure:
		return "network_failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels for errors.Is; any RequestError of the same kind matches.
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrServer         = errors.New("server error")
	ErrNetworkFailure = errors.New("network failure")
)

// RequestError is what every gateway call fails with. It is never retried.
type RequestError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == Unauthorized
	case ErrNotFound:
		return e.Kind == NotFound
	case ErrServer:
		return e.Kind == ServerError
	case ErrNetworkFailure:
		return e.Kind == NetworkFailure
	}
	return false
}

// KindOf returns the kind of the RequestError in err's chain.
func KindOf(err error) (Kind, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind, true
	}
	return 0, false
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return Unauthorized
	case http.StatusNotFound:
		return NotFound
	default:
		return ServerError
	}
}

func unauthorized(message string) *RequestError {
	return &RequestError{Kind: Unauthorized, Message: message}
}
