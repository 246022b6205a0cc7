package llm

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned when a provider has no API key or token.
var ErrMissingCredentials = errors.New("llm credentials missing")

// GenerationError reports a failed suggestion request.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("generating suggestions: %v", e.Err)
	}
	return fmt.Sprintf("generating suggestions with %s: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
