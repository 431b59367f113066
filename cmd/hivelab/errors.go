package main

import (
	"errors"
	"fmt"

	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

// Process exit codes.
const (
	exitOK      = 0
	exitInvalid = 1
	exitConfig  = 2
	exitRuntime = 3
)

// errInvalidComposition is returned by validate when the report has errors.
var errInvalidComposition = errors.New("composition is invalid")

func exitCode(err error) int {
	var (
		parseErr      *hiveerrors.ParseError
		validationErr *hiveerrors.ValidationError
		cycleErr      *hiveerrors.CycleError
		dupErr        *hiveerrors.DuplicateTargetError
		usage         *usageError
	)

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInvalidComposition):
		return exitInvalid
	case errors.As(err, &usage),
		errors.As(err, &parseErr),
		errors.As(err, &validationErr),
		errors.As(err, &cycleErr),
		errors.As(err, &dupErr):
		return exitConfig
	default:
		return exitRuntime
	}
}

type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	msg := fmt.Sprintf("Failed to %s: %s\n\nError: %v", e.operation, e.context, e.cause)
	if e.suggestion != "" {
		msg += "\n\nSuggestion: " + e.suggestion
	}
	return msg
}

func (e *commandError) Unwrap() error { return e.cause }
