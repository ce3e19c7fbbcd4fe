package netif

import (
	"errors"
	"fmt"

	"github.com/digitalocean/go-libvirt"

	"github.com/jbweber/hostnet/internal/cstring"
)

// Sentinels matched by errors.Is against an *Error.
var (
	// ErrNotFound means no interface matched a lookup.
	ErrNotFound = errors.New("interface not found")

	// ErrInvalidArgument means an input could not be sent to libvirt.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOperationFailed means libvirt refused or failed the request.
	ErrOperationFailed = errors.New("operation failed")

	// ErrInvalidHandle means the handle was released or was never valid.
	ErrInvalidHandle = errors.New("invalid interface handle")
)

// ErrorCode is a libvirt virErrorNumber.
type ErrorCode uint32

// libvirt error numbers used by this package.
const (
	ErrCodeOK               ErrorCode = 0
	ErrCodeInternal         ErrorCode = 1
	ErrCodeInvalidConn      ErrorCode = 6
	ErrCodeInvalidArg       ErrorCode = 8
	ErrCodeOperationFailed  ErrorCode = 9
	ErrCodeXML              ErrorCode = 27
	ErrCodeRPC              ErrorCode = 39
	ErrCodeOperationInvalid ErrorCode = 55
	ErrCodeNoInterface      ErrorCode = 57
	ErrCodeInvalidInterface ErrorCode = 58
)

// ErrorDomain is a libvirt virErrorDomain, the subsystem an error came from.
type ErrorDomain uint32

// libvirt error domains used by this package.
const (
	DomainNone      ErrorDomain = 0
	DomainRPC       ErrorDomain = 7
	DomainRemote    ErrorDomain = 13
	DomainInterface ErrorDomain = 26
)

func (d ErrorDomain) String() string {
	switch d {
	case DomainNone:
		return "none"
	case DomainRPC:
		return "rpc"
	case DomainRemote:
		return "remote"
	case DomainInterface:
		return "interface"
	default:
		return fmt.Sprintf("domain(%d)", uint32(d))
	}
}

// Error is a failed interface operation.
//
// All fields are copied at the moment of failure and never change afterwards.
type Error struct {
	// Op is the libvirt procedure that failed, e.g. "InterfaceLookupByName".
	Op string

	// Code is the libvirt error number.
	Code ErrorCode

	// Domain is the subsystem that reported the error.
	Domain ErrorDomain

	// Message is the human-readable text reported by libvirt.
	Message string

	kind  error
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (code %d, domain %s)", e.Op, e.Message, uint32(e.Code), e.Domain)
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

// Unwrap returns the underlying cause, typically a libvirt.Error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns one of ErrNotFound, ErrInvalidArgument, ErrOperationFailed or
// ErrInvalidHandle.
func (e *Error) Kind() error {
	return e.kind
}

// newError converts the error returned by a libvirt call into an *Error.
// It must run before any other call is made on the connection.
func newError(op string, err error) *Error {
	var lerr libvirt.Error
	if errors.As(err, &lerr) {
		return fromLibvirt(op, lerr, err)
	}

	// Anything without a libvirt code failed in the transport.
	return &Error{
		Op:      op,
		Code:    ErrCodeRPC,
		Domain:  DomainRPC,
		Message: cstring.Decode(err.Error()),
		kind:    ErrOperationFailed,
		cause:   err,
	}
}

// fromLibvirt copies a daemon error. go-libvirt does not expose the wire
// domain, so the origin is reported as DomainNone.
func fromLibvirt(op string, lerr libvirt.Error, cause error) *Error {
	code := ErrorCode(lerr.Code)
	return &Error{
		Op:      op,
		Code:    code,
		Domain:  DomainNone,
		Message: cstring.Decode(lerr.Message),
		kind:    classify(code),
		cause:   cause,
	}
}

func classify(code ErrorCode) error {
	switch code {
	case ErrCodeNoInterface:
		return ErrNotFound
	case ErrCodeInvalidArg, ErrCodeXML:
		return ErrInvalidArgument
	case ErrCodeInvalidInterface:
		return ErrInvalidHandle
	default:
		return ErrOperationFailed
	}
}

// invalidArgument reports an input rejected before any call was made.
func invalidArgument(op string, err error) *Error {
	return &Error{
		Op:      op,
		Code:    ErrCodeInvalidArg,
		Domain:  DomainInterface,
		Message: err.Error(),
		kind:    ErrInvalidArgument,
		cause:   err,
	}
}

func notFound(op, format string, args ...any) *Error {
	return &Error{
		Op:      op,
		Code:    ErrCodeNoInterface,
		Domain:  DomainInterface,
		Message: fmt.Sprintf(format, args...),
		kind:    ErrNotFound,
	}
}

func invalidHandle(op, message string) *Error {
	return &Error{
		Op:      op,
		Code:    ErrCodeInvalidInterface,
		Domain:  DomainInterface,
		Message: message,
		kind:    ErrInvalidHandle,
	}
}

func invalidConnection(op string) *Error {
	return &Error{
		Op:      op,
		Code:    ErrCodeInvalidConn,
		Domain:  DomainInterface,
		Message: "invalid connection pointer",
		kind:    ErrInvalidHandle,
	}
}

// operationFailed reports a local failure that has no libvirt error code.
func operationFailed(op string, err error) *Error {
	return &Error{
		Op:      op,
		Code:    ErrCodeInternal,
		Domain:  DomainNone,
		Message: err.Error(),
		kind:    ErrOperationFailed,
		cause:   err,
	}
}
