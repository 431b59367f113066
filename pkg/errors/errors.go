package errors

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseError represents a composition, snapshot, or config decoding failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures structural problems in a composition, registry entry, or config file.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CycleError reports a directed cycle in a composition's connection graph.
// InstanceID is the instance that was reached again while still in progress.
type CycleError struct {
	InstanceID string
	Path       []string
}

// NewCycleError constructs a CycleError.
func NewCycleError(instanceID string, path []string) error {
	return &CycleError{InstanceID: instanceID, Path: append([]string(nil), path...)}
}

func (e *CycleError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Path) > 0 {
		return fmt.Sprintf("connection cycle detected at instance %s: %s", e.InstanceID, strings.Join(e.Path, " -> "))
	}
	return fmt.Sprintf("connection cycle detected at instance %s", e.InstanceID)
}

// ExecutionError represents a failure raised by an element execution hook.
type ExecutionError struct {
	InstanceID string
	Err        error
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(instanceID string, err error) error {
	return &ExecutionError{InstanceID: instanceID, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.InstanceID != "" {
		return fmt.Sprintf("execution error on instance %s: %v", e.InstanceID, e.Err)
	}
	return fmt.Sprintf("execution error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DuplicateTargetError is returned when more than one connection feeds the
// same input port and the resolver is configured to reject that.
type DuplicateTargetError struct {
	InstanceID string
	Port       string
	Count      int
}

// NewDuplicateTargetError constructs a DuplicateTargetError.
func NewDuplicateTargetError(instanceID, port string, count int) error {
	return &DuplicateTargetError{InstanceID: instanceID, Port: port, Count: count}
}

func (e *DuplicateTargetError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("duplicate connection target %s.%s (%d connections)", e.InstanceID, e.Port, e.Count)
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// YAMLLine extracts the line number yaml.v3 embeds in its error messages, or 0.
func YAMLLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLinePattern.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	line, convErr := strconv.Atoi(matches[1])
	if convErr != nil {
		return 0
	}
	return line
}
