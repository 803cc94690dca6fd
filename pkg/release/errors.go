package release

import (
	"errors"
	"fmt"
)

//Kind classifies every failure reported by this package
type Kind string

const (
	NotFound     Kind = "NotFound"
	Conflict     Kind = "Conflict"
	InvalidState Kind = "InvalidState"
	Timeout      Kind = "Timeout"
	Unknown      Kind = "Unknown"
)

//Error is returned by Client implementations. Code is the HTTP status code (0 if no response was received).
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

//OperationError is the common shape of ReconcileError, WaitError and DeleteError
type OperationError struct {
	Kind      Kind
	Op        string
	Namespace string
	Name      string
	Message   string
	Err       error
}

func (e *OperationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s of release '%s/%s' failed (%s): %s", e.Op, e.Namespace, e.Name, e.Kind, msg)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

type ReconcileError struct {
	OperationError
}

type WaitError struct {
	OperationError
}

type DeleteError struct {
	OperationError
}

func newReconcileError(kind Kind, op string, req *Request, err error) *ReconcileError {
	return &ReconcileError{OperationError{
		Kind:      kind,
		Op:        op,
		Namespace: req.Namespace,
		Name:      req.Name,
		Err:       err,
	}}
}

//KindOf returns the Kind of the outermost classified error in the chain, Unknown otherwise
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch classified := e.(type) {
		case *Error:
			return classified.Kind
		case *ReconcileError:
			return classified.Kind
		case *WaitError:
			return classified.Kind
		case *DeleteError:
			return classified.Kind
		case *OperationError:
			return classified.Kind
		}
	}
	return Unknown
}

func IsNotFound(err error) bool {
	return KindOf(err) == NotFound
}

func IsConflict(err error) bool {
	return KindOf(err) == Conflict
}

//StatusCode returns the HTTP status code carried by a client error, 0 if there is none
func StatusCode(err error) int {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Code
	}
	return 0
}
