// Package errors provides structured error handling for the stagecraft library.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindInit indicates an initialization or teardown error.
	KindInit
	// KindLoad indicates a failure in a user load callback.
	KindLoad
	// KindShow indicates a failure in a user show callback.
	KindShow
	// KindHide indicates a failure in a user hide or unload callback.
	KindHide
	// KindDispatch indicates a failure while dispatching an event.
	KindDispatch
	// KindObserve indicates a failure during mutation batch processing.
	KindObserve
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindLoad:
		return "load"
	case KindShow:
		return "show"
	case KindHide:
		return "hide"
	case KindDispatch:
		return "dispatch"
	case KindObserve:
		return "observe"
	default:
		return "unknown"
	}
}

// LifecycleError represents a structured error reported by the library.
type LifecycleError struct {
	// Op is the operation that failed (e.g., "lifecycle.Show").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Element is the ID of the element involved, if any.
	Element string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *LifecycleError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("%s [%s] element=%s: %v", e.Op, e.Kind, e.Element, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "delegate.dispatch").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// LoadError wraps an error raised by a user load callback.
type LoadError struct {
	// Element is the ID of the element whose load failed.
	Element string
	// Err is the error the callback returned.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load failed for element %s: %v", e.Element, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ShowError wraps an error raised while showing an element. The underlying
// error may itself be a LoadError when the load stage failed.
type ShowError struct {
	// Element is the ID of the element whose show failed.
	Element string
	// Err is the error the show sequence returned.
	Err error
}

func (e *ShowError) Error() string {
	return fmt.Sprintf("show failed for element %s: %v", e.Element, e.Err)
}

func (e *ShowError) Unwrap() error {
	return e.Err
}

// HideError wraps an error raised by a user unload or hide callback.
type HideError struct {
	// Element is the ID of the element whose hide failed.
	Element string
	// Err is the error the callback returned.
	Err error
}

func (e *HideError) Error() string {
	return fmt.Sprintf("hide failed for element %s: %v", e.Element, e.Err)
}

func (e *HideError) Unwrap() error {
	return e.Err
}

// KindOf maps a stage error to its Kind by the outermost wrapper: a show
// failure caused by a failed load is still KindShow. Errors outside the
// stage taxonomy map to KindUnknown.
func KindOf(err error) Kind {
	var (
		showErr *ShowError
		loadErr *LoadError
		hideErr *HideError
	)
	switch {
	case stderrors.As(err, &showErr):
		return KindShow
	case stderrors.As(err, &loadErr):
		return KindLoad
	case stderrors.As(err, &hideErr):
		return KindHide
	}
	return KindUnknown
}

// ErrorHandler receives errors reported by the library.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *LifecycleError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
