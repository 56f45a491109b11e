// Package bridgeerr defines the three error kinds the print pipeline distinguishes:
// invalid input (surfaced synchronously as HTTP 400), printer I/O (absorbed by the
// retry coordinator and never returned to a caller), and internal/configuration
// errors (surfaced as HTTP 500).
package bridgeerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the purposes of the HTTP layer and the retry
// coordinator. It is never itself wrapped; callers switch on Kind via As/Is.
type Kind int

const (
	// KindInvalidInput marks a request the caller must fix before retrying.
	KindInvalidInput Kind = iota
	// KindPrinter marks a USB/protocol failure. The retry coordinator treats
	// every error of this kind as recoverable and reconnects.
	KindPrinter
	// KindInternal marks configuration or logic errors unrelated to the
	// printer hardware.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindPrinter:
		return "printer"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a typed, wrappable error carrying a Kind alongside the usual chain.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidInput builds a KindInvalidInput error.
func InvalidInput(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// Printer wraps err as a KindPrinter error. This is the only error kind the
// retry coordinator acts on; everything else is either returned synchronously
// (KindInvalidInput) or logged and surfaced as-is (KindInternal).
func Printer(msg string, err error) error {
	return &Error{Kind: KindPrinter, Msg: msg, Err: err}
}

// Internal wraps err as a KindInternal error.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf extracts the Kind of err, defaulting to KindInternal for errors that
// were never classified (a programmer error upstream, not a protocol one).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if err == nil {
		return KindInternal
	}
	return KindInternal
}

// IsPrinter reports whether err is (or wraps) a KindPrinter error.
func IsPrinter(err error) bool {
	return KindOf(err) == KindPrinter
}

// IsTransportFailure reports whether err is (or wraps) one of the USB
// Transport's own failure sentinels — partial write, timeout, or a failed
// device/handle acquisition — as opposed to some other printer-kind error.
// The retry coordinator uses this to decide whether a failed attempt is
// also a SensorEvent::UsbError, not just a SensorEvent::PrintFail (spec.md
// §4.5 "Producers are the USB Transport … and the Retry Coordinator").
func IsTransportFailure(err error) bool {
	return errors.Is(err, ErrPartialWrite) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrDeviceNotFound) ||
		errors.Is(err, ErrClaimFailed)
}

// Sentinel errors produced deep in the USB transport; they are always wrapped
// in a *Error of KindPrinter before leaving the usbtransport package, but are
// exported so tests and logs can match on the specific failure mode.
var (
	// ErrPartialWrite marks a bulk transfer that returned fewer bytes than
	// requested, including the zero-write anomaly. Never treated as success.
	ErrPartialWrite = errors.New("partial usb write")
	// ErrTimeout marks a bulk transfer or interface claim that exceeded its deadline.
	ErrTimeout = errors.New("usb operation timed out")
	// ErrDeviceNotFound marks a failed device enumeration.
	ErrDeviceNotFound = errors.New("usb device not found")
	// ErrClaimFailed marks an interface claim that failed after all retries.
	ErrClaimFailed = errors.New("usb interface claim failed")
)
