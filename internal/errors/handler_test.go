package errors

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewErrorHandler(t *testing.T) {
	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}

	if handler == nil {
		t.Fatal("NewErrorHandler() returned nil handler")
	}

	if handler.logger == nil {
		t.Error("ErrorHandler.logger is nil")
	}

	if handler.console == nil {
		t.Error("ErrorHandler.console is nil")
	}
}

func TestErrorHandler_Handle_TaskError(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	t.Setenv("DOCKEXEC_LOG_DIR", logDir)

	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}

	testErr := NewParseError(
		"Test context",
		"Test cause",
		"Test suggestion",
		errors.New("original error"),
	)

	handler.Handle(testErr)

	logFile := filepath.Join(logDir, "dockexec.log")
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestErrorHandler_Handle_GenericError(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	t.Setenv("DOCKEXEC_LOG_DIR", logDir)

	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}

	handler.Handle(errors.New("generic test error"))

	logFile := filepath.Join(logDir, "dockexec.log")
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestErrorHandler_Handle_NilError(t *testing.T) {
	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}

	// Handle nil error should not panic
	handler.Handle(nil)
}

func TestErrorTypeName(t *testing.T) {
	tests := []struct {
		errorType error
		expected  string
	}{
		{ErrTaskNotFound, "task_not_found"},
		{ErrTaskParseFailed, "task_parse_failed"},
		{ErrInvalidOutputSpec, "invalid_output_spec"},
		{ErrUnknownInput, "unknown_input"},
		{ErrImagePull, "image_pull_failed"},
		{ErrContainerExecution, "container_execution_failed"},
		{ErrMissingOutput, "missing_output"},
		{ErrGCUnavailable, "gc_unavailable"},
		{ErrGC, "gc_failed"},
		{ErrRuntimeFailed, "runtime_failed"},
		{ErrConfigInvalid, "config_invalid"},
		{&ImagePullError{Image: "a", Err: errors.New("x")}, "image_pull_failed"},
		{&ContainerExecutionError{ExitCode: 2}, "container_execution_failed"},
		{&GCError{ExitCode: 1}, "gc_failed"},
		{errors.New("unknown"), "unknown"},
	}

	for _, test := range tests {
		result := errorTypeName(test.errorType)
		if result != test.expected {
			t.Errorf("errorTypeName(%v) = %q, want %q", test.errorType, result, test.expected)
		}
	}
}

func TestGetDefaultHandler(t *testing.T) {
	resetDefaultHandler()
	defer resetDefaultHandler()

	handler1, err1 := GetDefaultHandler()
	if err1 != nil {
		t.Fatalf("GetDefaultHandler() first call failed: %v", err1)
	}

	handler2, err2 := GetDefaultHandler()
	if err2 != nil {
		t.Fatalf("GetDefaultHandler() second call failed: %v", err2)
	}

	if handler1 != handler2 {
		t.Error("GetDefaultHandler() should return the same instance on multiple calls")
	}
}

func TestHandleError(t *testing.T) {
	resetDefaultHandler()
	defer resetDefaultHandler()

	logDir := filepath.Join(t.TempDir(), "logs")
	t.Setenv("DOCKEXEC_LOG_DIR", logDir)

	HandleError(errors.New("test error for HandleError"))

	logFile := filepath.Join(logDir, "dockexec.log")
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created by HandleError")
	}
}

func TestTaskError_Error(t *testing.T) {
	originalErr := errors.New("original error message")
	taskErr := NewRuntimeError("context", "cause", "suggestion", originalErr)

	if taskErr.Error() != originalErr.Error() {
		t.Errorf("TaskError.Error() = %q, want %q", taskErr.Error(), originalErr.Error())
	}
}

func TestTaskError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error message")
	taskErr := NewRuntimeError("context", "cause", "suggestion", originalErr)

	if taskErr.Unwrap() != originalErr {
		t.Error("TaskError.Unwrap() should return the original error")
	}
}

func TestErrorConstructors(t *testing.T) {
	originalErr := errors.New("test error")

	tests := []struct {
		name         string
		constructor  func(string, string, string, error) *TaskError
		expectedType error
	}{
		{"NewParseError", NewParseError, ErrTaskParseFailed},
		{"NewRuntimeError", NewRuntimeError, ErrRuntimeFailed},
		{"NewConfigError", NewConfigError, ErrConfigInvalid},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.constructor("context", "cause", "suggestion", originalErr)

			if err.Type != test.expectedType {
				t.Errorf("%s created error with type %v, want %v", test.name, err.Type, test.expectedType)
			}

			if err.Context != "context" || err.Cause != "cause" || err.Suggestion != "suggestion" {
				t.Errorf("%s did not preserve presentation fields: %+v", test.name, err)
			}

			if err.OriginalErr != originalErr {
				t.Errorf("%s created error with originalErr %v, want %v", test.name, err.OriginalErr, originalErr)
			}
		})
	}
}

func TestTypedErrors_Identity(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"image pull", &ImagePullError{Image: "alpine", Output: "manifest unknown", Err: errors.New("pull access denied")}, ErrImagePull},
		{"container execution", &ContainerExecutionError{ExitCode: 137}, ErrContainerExecution},
		{"invalid output spec", &InvalidOutputSpecError{Name: "out", Reason: "bad path"}, ErrInvalidOutputSpec},
		{"unknown input", &UnknownInputError{ID: "foo"}, ErrUnknownInput},
		{"missing output", &MissingOutputError{Name: "out", Path: "/data/out.csv"}, ErrMissingOutput},
		{"gc unavailable", &GCUnavailableError{Script: "/bin/docker-gc", Err: os.ErrNotExist}, ErrGCUnavailable},
		{"gc failed", &GCError{ExitCode: 2}, ErrGC},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if !errors.Is(test.err, test.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false, want true", test.err)
			}
			if test.err.Error() == "" {
				t.Error("Error message should not be empty")
			}
		})
	}
}

func TestTypedErrors_Unwrap(t *testing.T) {
	cause := errors.New("dial unix /var/run/docker.sock: no such file")
	pullErr := &ImagePullError{Image: "alpine", Err: cause}

	if !errors.Is(pullErr, cause) {
		t.Error("ImagePullError should unwrap to its cause")
	}

	gcErr := &GCUnavailableError{Script: "/bin/docker-gc", Err: os.ErrNotExist}
	if !errors.Is(gcErr, os.ErrNotExist) {
		t.Error("GCUnavailableError should unwrap to its cause")
	}
}
