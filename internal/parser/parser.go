package parser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"dockexec/pkg/task"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// InputEntry is one declared task input in the task file, pairing the
// descriptor with its resolved value. Data may be omitted for optional
// inputs the task references but the caller does not supply.
type InputEntry struct {
	Target task.InputTarget `mapstructure:"target" validate:"omitempty,oneof=plain filepath"`
	Data   *string          `mapstructure:"script_data"`
}

// File is the parsed representation of a task YAML file. The file plays the
// caller-framework role: it supplies the task spec, the declared input and
// output descriptors, and the resolved input values.
type File struct {
	Task    task.Spec                        `mapstructure:"task" validate:"required"`
	Inputs  map[string]InputEntry            `mapstructure:"inputs" validate:"dive"`
	Outputs map[string]task.OutputDescriptor `mapstructure:"outputs" validate:"dive"`
}

// Descriptors returns the declared input descriptors keyed by input id.
func (f *File) Descriptors() map[string]task.InputDescriptor {
	descriptors := make(map[string]task.InputDescriptor, len(f.Inputs))
	for id, entry := range f.Inputs {
		descriptors[id] = task.InputDescriptor{ID: id, Target: entry.Target}
	}
	return descriptors
}

// Values returns the resolved input values. Declared inputs without data are
// omitted so their placeholders stay unexpanded.
func (f *File) Values() map[string]task.InputValue {
	values := make(map[string]task.InputValue)
	for id, entry := range f.Inputs {
		if entry.Data != nil {
			values[id] = task.InputValue{Data: *entry.Data}
		}
	}
	return values
}

// Slots returns empty output slots for every declared output.
func (f *File) Slots() map[string]*task.OutputSlot {
	slots := make(map[string]*task.OutputSlot, len(f.Outputs))
	for name := range f.Outputs {
		slots[name] = &task.OutputSlot{}
	}
	return slots
}

// Parse reads and validates a task YAML file, returning the parsed File or
// an error.
func Parse(filePath string) (*File, error) {
	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("task file not found: %s", filePath)
	}

	// Configure Viper
	v := viper.New()
	v.SetConfigFile(filePath)
	v.SetConfigType("yaml")

	// Read the file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("task file not found: %s", filePath)
		}
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	// Unmarshal into the File struct
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to parse task file - malformed YAML: %w", err)
	}

	// Validate the structure
	if err := validate.Struct(&f); err != nil {
		return nil, formatValidationError(err)
	}

	// Filepath input values name files on disk; make them absolute so the
	// path rewrite against the temp dir is well defined.
	for id, entry := range f.Inputs {
		if entry.Target != task.TargetFilepath || entry.Data == nil {
			continue
		}
		abs, err := filepath.Abs(*entry.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve input %q path %s: %w", id, *entry.Data, err)
		}
		entry.Data = &abs
		f.Inputs[id] = entry
	}

	return &f, nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, formatFieldError(e))
		}

		if len(errorMessages) == 1 {
			return fmt.Errorf("validation error: %s", errorMessages[0])
		}

		result := "validation errors:\n"
		for _, msg := range errorMessages {
			result += fmt.Sprintf("  - %s\n", msg)
		}
		return fmt.Errorf("%s", result)
	}
	return fmt.Errorf("validation failed: %w", err)
}

// formatFieldError formats a single validation error into a user-friendly message.
func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("field '%s' is required but missing", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, tag)
	}
}
