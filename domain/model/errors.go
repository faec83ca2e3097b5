package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnknownKind          = errors.New("unknown resource kind")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrUnsupportedVersion   = errors.New("unsupported version")
	ErrArgumentBinding      = errors.New("argument binding failed")
	ErrPathConflict         = errors.New("key path conflict")
	ErrMalformedArgs        = errors.New("malformed arguments")
	ErrRemoteNotFound       = errors.New("resource not found")
	ErrRemote               = errors.New("remote error")
)

// KindError reports a kind spelling that matches no alias.
type KindError struct {
	Input string
}

func (e *KindError) Error() string { return fmt.Sprintf("no known resource: %s", e.Input) }
func (e *KindError) Unwrap() error { return ErrUnknownKind }

// OperationError reports an operation the kind does not support.
type OperationError struct {
	Kind      Kind
	Operation Operation
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("resource kind %s does not support `%s`", e.Kind, e.Operation)
}
func (e *OperationError) Unwrap() error { return ErrUnsupportedOperation }

// VersionError reports an explicit version that the kind does not list.
type VersionError struct {
	Kind      Kind
	Version   string
	Supported []string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported resource version: %s for resource kind: %s, supported versions: [%s]",
		e.Version, e.Kind, strings.Join(e.Supported, ", "))
}
func (e *VersionError) Unwrap() error { return ErrUnsupportedVersion }

// BindingError reports call arguments that do not fit an operation signature.
type BindingError struct {
	Kind      Kind
	Operation Operation
	Reason    string
}

func (e *BindingError) Error() string {
	if e.Kind.Valid() {
		return fmt.Sprintf("%s %s: %s", e.Operation, e.Kind, e.Reason)
	}
	return e.Reason
}
func (e *BindingError) Unwrap() error { return ErrArgumentBinding }

// PathConflictError reports a key path step that meets the wrong container type.
type PathConflictError struct {
	Path string // key path up to and including the failing segment
	Want string // container type the segment requires
	Got  string // type found at that position
}

func (e *PathConflictError) Error() string {
	return fmt.Sprintf("cannot use %s as %s at %q", e.Got, e.Want, e.Path)
}
func (e *PathConflictError) Unwrap() error { return ErrPathConflict }

// RemoteError is a failure reported by the remote service.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.StatusCode == 0 {
		return msg
	}
	return fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
}

// Is matches ErrRemote, and ErrRemoteNotFound for 404 responses.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrRemote:
		return true
	case ErrRemoteNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// NewNotFoundError returns a RemoteError matching ErrRemoteNotFound.
func NewNotFoundError(kind Kind, identifier string) *RemoteError {
	return &RemoteError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("%s %q not found", kind, identifier)}
}
