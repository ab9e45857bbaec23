package core

import (
	"sync"

	"github.com/go-drift/reflow/pkg/errors"
)

// ErrorElementBuilder creates a fallback element when a component fails
// while rendering. It receives the build error and returns the node to
// render in place of the failed component.
type ErrorElementBuilder func(err *errors.BuildError) Node

var (
	errorElementBuilder ErrorElementBuilder = DefaultErrorElementBuilder
	errorBuilderMu      sync.RWMutex
)

// SetErrorElementBuilder configures the global error element builder.
// Pass nil to restore the default builder.
func SetErrorElementBuilder(builder ErrorElementBuilder) {
	errorBuilderMu.Lock()
	defer errorBuilderMu.Unlock()
	if builder == nil {
		errorElementBuilder = DefaultErrorElementBuilder
	} else {
		errorElementBuilder = builder
	}
}

// GetErrorElementBuilder returns the current error element builder.
func GetErrorElementBuilder() ErrorElementBuilder {
	errorBuilderMu.RLock()
	defer errorBuilderMu.RUnlock()
	return errorElementBuilder
}

// DefaultErrorElementBuilder renders nothing, or a marked "pre" element with
// the failure message when DebugMode is on.
func DefaultErrorElementBuilder(err *errors.BuildError) Node {
	if !DebugMode || err == nil {
		return Node{}
	}
	return H("pre", Props{"data-reflow-error": err.Identity}, err.Error())
}
