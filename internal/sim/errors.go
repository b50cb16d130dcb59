// Package sim provides the typed client for the remote case-simulation
// service. Every round trip resolves to a normalized result; failures are
// classified as transport, protocol, or application errors.
package sim

import (
	"errors"
	"fmt"

	"github.com/gavelgames/gavel/internal/domain"
)

// Error is a classified failure from the simulation service.
type Error struct {
	Kind    domain.ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("sim: %s: %s", e.Kind, e.Message)
}

// Info converts the error to the wire-facing ErrorInfo shape.
func (e *Error) Info() *domain.ErrorInfo {
	return &domain.ErrorInfo{Kind: e.Kind, Message: e.Message}
}

func transportErr(format string, args ...any) *Error {
	return &Error{Kind: domain.ErrorTransport, Message: fmt.Sprintf(format, args...)}
}

func protocolErr(format string, args ...any) *Error {
	return &Error{Kind: domain.ErrorProtocol, Message: fmt.Sprintf(format, args...)}
}

func applicationErr(message string) *Error {
	return &Error{Kind: domain.ErrorApplication, Message: message}
}

// IsTransport returns true if the error is a transport-class failure.
func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == domain.ErrorTransport
}

// IsProtocol returns true if the error is a protocol-class failure.
func IsProtocol(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == domain.ErrorProtocol
}

// IsApplication returns true if the error is an application-class failure.
func IsApplication(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == domain.ErrorApplication
}
