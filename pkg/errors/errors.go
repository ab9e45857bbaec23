// Package errors provides structured error handling for the reflow runtime.
//
// Errors fall into the categories the runtime distinguishes: misuse of the
// call contract (hooks outside a render pass, malformed elements), failures
// inside effect bodies and cleanups, reconciliation failures and component
// build failures. None of them are retried; they are reported to the global
// ErrorHandler and, where the call contract is broken, returned or raised.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindMisuse indicates a broken call contract, such as a hook called
	// outside an active render pass.
	KindMisuse
	// KindEffect indicates a failure inside an effect body.
	KindEffect
	// KindCleanup indicates a failure inside an effect cleanup.
	KindCleanup
	// KindReconcile indicates a tree that cannot be diffed.
	KindReconcile
	// KindRender indicates a render pass that could not complete.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindBuild indicates a component that failed while rendering.
	KindBuild
)

func (k ErrorKind) String() string {
	switch k {
	case KindMisuse:
		return "misuse"
	case KindEffect:
		return "effect"
	case KindCleanup:
		return "cleanup"
	case KindReconcile:
		return "reconcile"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	case KindBuild:
		return "build"
	default:
		return "unknown"
	}
}

// RuntimeError represents a structured error in the runtime.
type RuntimeError struct {
	// Op is the operation that failed (e.g., "core.Root.Render").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Component is the identity of the component involved, if any.
	Component string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RuntimeError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s [%s] component=%s: %v", e.Op, e.Kind, e.Component, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// MisuseError reports a broken call contract. Hooks raise it with panic
// because continuing would corrupt slot alignment for every component
// rendered afterwards.
type MisuseError struct {
	// Op is the API that was misused (e.g., "core.UseState").
	Op string
	// Reason describes the violated contract.
	Reason string
	// Component is the identity of the component involved, if known.
	Component string
}

func (e *MisuseError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("misuse of %s in %s: %s", e.Op, e.Component, e.Reason)
	}
	return fmt.Sprintf("misuse of %s: %s", e.Op, e.Reason)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "core.effect").
	Op string
	// Kind is the phase the panic was recovered in. Zero means KindPanic.
	Kind ErrorKind
	// Component is the identity of the component involved, if any.
	Component string
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

// Phase returns the kind of work that panicked.
func (e *PanicError) Phase() ErrorKind {
	if e.Kind == KindUnknown {
		return KindPanic
	}
	return e.Kind
}

// BuildError represents a failure while a component was rendering.
type BuildError struct {
	// Component is the display name of the component that failed.
	Component string
	// Identity is the component's identity path.
	Identity string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BuildError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s render: %v", e.Component, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s render: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("unknown error in %s render", e.Component)
}

func (e *BuildError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}

// ErrorHandler receives errors reported by the runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *RuntimeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleBuildError is called when a component render fails.
	HandleBuildError(err *BuildError)
}
