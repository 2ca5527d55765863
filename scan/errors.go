package scan

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

var (
	ErrInvalidConfig  = errors.New("invalid scan config")
	ErrInvalidRange   = errors.New("invalid port range")
	ErrHostUnresolved = errors.New("host could not be resolved")
)

// InvalidConfigError is returned before any probing when a Config value is out of range.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid scan config: %s %s", e.Field, e.Reason)
}

func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// InvalidRangeError is returned when a port selection contains values outside 1-65535,
// or selects no ports at all.
type InvalidRangeError struct {
	Port   int
	Reason string
}

func (e *InvalidRangeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid port range: %s", e.Reason)
	}
	return fmt.Sprintf("invalid port range: port %d is outside %d-%d", e.Port, MinPort, MaxPort)
}

func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// HostUnresolvedError aborts a scan when the target host has no usable address.
type HostUnresolvedError struct {
	Host string
	Err  error
}

func (e *HostUnresolvedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("lookup failed for '%s'", e.Host)
	}
	return fmt.Sprintf("lookup failed for '%s': %s", e.Host, e.Err)
}

func (e *HostUnresolvedError) Unwrap() error {
	return e.Err
}

func (e *HostUnresolvedError) Is(target error) bool {
	return target == ErrHostUnresolved
}

// ErrorKind groups the unexpected ways a single probe can fail.
type ErrorKind string

const (
	KindResourceExhausted ErrorKind = "resource-exhausted"
	KindPermissionDenied  ErrorKind = "permission-denied"
	KindUnreachable       ErrorKind = "unreachable"
	KindOther             ErrorKind = "other"
)

// ProbeError records a probe that could not determine whether a port is open.
type ProbeError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

func kindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, syscall.EMFILE),
		errors.Is(err, syscall.ENFILE),
		errors.Is(err, syscall.ENOBUFS),
		errors.Is(err, syscall.ENOMEM),
		errors.Is(err, syscall.EADDRNOTAVAIL):
		return KindResourceExhausted
	case errors.Is(err, syscall.EACCES),
		errors.Is(err, syscall.EPERM):
		return KindPermissionDenied
	case errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETDOWN):
		return KindUnreachable
	case strings.Contains(err.Error(), "too many open files"):
		return KindResourceExhausted
	}
	return KindOther
}
