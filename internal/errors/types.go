package errors

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound       = errors.New("task file not found")
	ErrTaskParseFailed    = errors.New("task parsing failed")
	ErrInvalidOutputSpec  = errors.New("invalid output spec")
	ErrUnknownInput       = errors.New("unknown task input")
	ErrImagePull          = errors.New("image pull failed")
	ErrContainerExecution = errors.New("container execution failed")
	ErrMissingOutput      = errors.New("output filepath missing")
	ErrGCUnavailable      = errors.New("garbage collector unavailable")
	ErrGC                 = errors.New("garbage collection failed")
	ErrRuntimeFailed      = errors.New("runtime operation failed")
	ErrConfigInvalid      = errors.New("configuration invalid")
)

// ImagePullError reports a failed image pull together with the diagnostic
// output captured from the pull stream.
type ImagePullError struct {
	Image  string
	Output string
	Err    error
}

func (e *ImagePullError) Error() string {
	return fmt.Sprintf("pulling image %s: %v", e.Image, e.Err)
}

func (e *ImagePullError) Unwrap() error { return e.Err }

func (e *ImagePullError) Is(target error) bool { return target == ErrImagePull }

// ContainerExecutionError reports a container that ran and exited non-zero.
type ContainerExecutionError struct {
	ExitCode int64
}

func (e *ContainerExecutionError) Error() string {
	return fmt.Sprintf("container run returned code %d", e.ExitCode)
}

func (e *ContainerExecutionError) Is(target error) bool { return target == ErrContainerExecution }

// InvalidOutputSpecError reports a misconfigured output declaration, caught
// before any side-effecting work begins.
type InvalidOutputSpecError struct {
	Name   string
	Reason string
}

func (e *InvalidOutputSpecError) Error() string {
	return fmt.Sprintf("output %q: %s", e.Name, e.Reason)
}

func (e *InvalidOutputSpecError) Is(target error) bool { return target == ErrInvalidOutputSpec }

// UnknownInputError reports a placeholder whose id matched a resolved input
// but no declared input descriptor.
type UnknownInputError struct {
	ID string
}

func (e *UnknownInputError) Error() string {
	return fmt.Sprintf("no task input found with id %q", e.ID)
}

func (e *UnknownInputError) Is(target error) bool { return target == ErrUnknownInput }

// MissingOutputError reports a declared filepath output that the container
// did not produce.
type MissingOutputError struct {
	Name string
	Path string
}

func (e *MissingOutputError) Error() string {
	return fmt.Sprintf("output %q: filepath %s does not exist", e.Name, e.Path)
}

func (e *MissingOutputError) Is(target error) bool { return target == ErrMissingOutput }

// GCUnavailableError reports a reclaimer program that is missing or not
// runnable. Raised synchronously before the reclaimer is started.
type GCUnavailableError struct {
	Script string
	Err    error
}

func (e *GCUnavailableError) Error() string {
	return fmt.Sprintf("docker-gc script %s: %v", e.Script, e.Err)
}

func (e *GCUnavailableError) Unwrap() error { return e.Err }

func (e *GCUnavailableError) Is(target error) bool { return target == ErrGCUnavailable }

// GCError reports a reclaimer that ran but exited non-zero.
type GCError struct {
	ExitCode int
}

func (e *GCError) Error() string {
	return fmt.Sprintf("docker-gc returned code %d", e.ExitCode)
}

func (e *GCError) Is(target error) bool { return target == ErrGC }

// TaskError wraps a failure with presentation context for the CLI error
// handler.
type TaskError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *TaskError) Error() string {
	return e.OriginalErr.Error()
}

func (e *TaskError) Unwrap() error {
	return e.OriginalErr
}

func NewTaskError(errorType error, context, cause, suggestion string, originalErr error) *TaskError {
	return &TaskError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewParseError(context, cause, suggestion string, originalErr error) *TaskError {
	return NewTaskError(ErrTaskParseFailed, context, cause, suggestion, originalErr)
}

func NewRuntimeError(context, cause, suggestion string, originalErr error) *TaskError {
	return NewTaskError(ErrRuntimeFailed, context, cause, suggestion, originalErr)
}

func NewConfigError(context, cause, suggestion string, originalErr error) *TaskError {
	return NewTaskError(ErrConfigInvalid, context, cause, suggestion, originalErr)
}
