package domain

import (
	"errors"
	"net/http"
)

// Kind classifies a domain failure.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindNoMatches
	KindDuplicate
)

const (
	msgTaskNotFound     = "La tarea solicitada no existe."
	msgTaskNameRequired = "Ingrese el nombre de la tarea."
	msgTaskNoMatches    = "No se encontraron tareas con ese nombre."
	msgTaskDeleted      = "La tarea fue eliminada correctamente."

	msgNoteNotFound        = "La nota solicitada no existe."
	msgNoteNameRequired    = "Ingrese el nombre de la nota."
	msgNoteNothingToUpdate = "Ingrese los datos a actualizar de la nota."
	msgNoteNoMatches       = "No se encontraron notas con ese nombre."
	msgNoteDeleted         = "La nota fue eliminada correctamente."

	msgDuplicateRequest = "Solicitud duplicada."
	msgInternal         = "Error interno del servidor."
)

// Error is an expected failure of a service operation. It is always turned
// into an error envelope and never escapes the HTTP layer as a fault.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Code maps the kind onto the HTTP-style code carried by the envelope.
func (e *Error) Code() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound, KindNoMatches:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func validationError(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func notFoundError(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func noMatchesError(msg string) *Error { return &Error{Kind: KindNoMatches, Message: msg} }

// ErrDuplicateRequest is reported when an idempotency key was already used.
var ErrDuplicateRequest = &Error{Kind: KindDuplicate, Message: msgDuplicateRequest}

// IsNotFound reports whether err is a NotFound domain error.
func IsNotFound(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == KindNotFound
}
