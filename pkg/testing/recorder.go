package testing

import (
	"sync"

	"github.com/go-drift/reflow/pkg/errors"
)

// ErrorRecorder is an errors.ErrorHandler that keeps every report. It is
// safe for concurrent use.
type ErrorRecorder struct {
	mu      sync.Mutex
	runtime []*errors.RuntimeError
	panics  []*errors.PanicError
	builds  []*errors.BuildError
}

// HandleError records a runtime error.
func (r *ErrorRecorder) HandleError(err *errors.RuntimeError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runtime = append(r.runtime, err)
}

// HandlePanic records a recovered panic.
func (r *ErrorRecorder) HandlePanic(err *errors.PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, err)
}

// HandleBuildError records a component failure.
func (r *ErrorRecorder) HandleBuildError(err *errors.BuildError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builds = append(r.builds, err)
}

// Errors returns the runtime errors, optionally filtered by kind.
func (r *ErrorRecorder) Errors(kinds ...errors.ErrorKind) []*errors.RuntimeError {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*errors.RuntimeError
	for _, err := range r.runtime {
		if len(kinds) == 0 || containsKind(kinds, err.Kind) {
			out = append(out, err)
		}
	}
	return out
}

// Panics returns the recovered panics.
func (r *ErrorRecorder) Panics() []*errors.PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.PanicError(nil), r.panics...)
}

// BuildErrors returns the component failures.
func (r *ErrorRecorder) BuildErrors() []*errors.BuildError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.BuildError(nil), r.builds...)
}

// Count returns the total number of reports.
func (r *ErrorRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runtime) + len(r.panics) + len(r.builds)
}

// Reset forgets every report.
func (r *ErrorRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runtime, r.panics, r.builds = nil, nil, nil
}

func containsKind(kinds []errors.ErrorKind, k errors.ErrorKind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}
