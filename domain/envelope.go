package domain

import (
	"errors"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the body of every response: {status, message, code}.
type Envelope struct {
	Status  string `json:"status"`
	Message any    `json:"message"`
	Code    int    `json:"code"`
}

// Payload lists the values an envelope may carry on success.
type Payload interface {
	Task | []Task | Note | []Note | ServiceStatus | string
}

// Success wraps a payload with code 200.
func Success[T Payload](message T) Envelope {
	return Envelope{Status: StatusSuccess, Message: message, Code: http.StatusOK}
}

// Fail wraps a domain error.
func Fail(err *Error) Envelope {
	return Envelope{Status: StatusError, Message: err.Message, Code: err.Code()}
}

// Internal is the envelope answered for infrastructure failures.
func Internal() Envelope {
	return Envelope{Status: StatusError, Message: msgInternal, Code: http.StatusInternalServerError}
}

// OK reports whether the envelope describes a successful outcome.
func (e Envelope) OK() bool { return e.Status == StatusSuccess }

// failOrErr converts domain errors into an error envelope and passes any
// other error through to the caller.
func failOrErr(err error) (Envelope, error) {
	var de *Error
	if errors.As(err, &de) {
		return Fail(de), nil
	}
	return Envelope{}, err
}
