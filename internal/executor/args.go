package executor

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	derrors "dockexec/internal/errors"
	"dockexec/pkg/task"
)

const placeholderPrefix = "$input{"

// placeholderIDs scans an argument template for $input{...} spans and returns
// the distinct ids referenced, in order of first occurrence. An unterminated
// span or an empty id is not a placeholder.
func placeholderIDs(arg string) []string {
	var ids []string
	seen := make(map[string]bool)

	for rest := arg; ; {
		start := strings.Index(rest, placeholderPrefix)
		if start < 0 {
			break
		}
		rest = rest[start+len(placeholderPrefix):]

		end := strings.IndexByte(rest, '}')
		if end < 0 {
			break
		}
		if id := rest[:end]; id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
		rest = rest[end+1:]
	}

	return ids
}

// transformValue resolves the substitution value for one input id. Filepath
// inputs are rewritten to their location under the container data mount,
// preserving their layout relative to tempDir; plain inputs substitute their
// scalar value directly. An id with a resolved value but no matching
// descriptor is a configuration error.
func transformValue(id string, value task.InputValue, taskInputs map[string]task.InputDescriptor, tempDir string) (string, error) {
	for _, descriptor := range taskInputs {
		if descriptor.Key() != id {
			continue
		}
		if descriptor.Target != task.TargetFilepath {
			return value.Data, nil
		}

		rel, err := filepath.Rel(tempDir, value.Data)
		if err != nil {
			return "", fmt.Errorf("failed to relativize input %q path %s against %s: %w", id, value.Data, tempDir, err)
		}
		return path.Join(task.DataMount, filepath.ToSlash(rel)), nil
	}

	return "", &derrors.UnknownInputError{ID: id}
}

// expandArgs expands $input{...} placeholders in the container argument
// templates. The reserved _tempdir id always expands to the data mount; ids
// absent from the resolved inputs are deliberately left unexpanded, since a
// task may reference optional inputs that were not supplied. Argument order
// and count are preserved one-to-one.
func expandArgs(args []string, inputs map[string]task.InputValue, taskInputs map[string]task.InputDescriptor, tempDir string) ([]string, error) {
	expanded := make([]string, 0, len(args))

	for _, arg := range args {
		for _, id := range placeholderIDs(arg) {
			placeholder := placeholderPrefix + id + "}"

			if value, ok := inputs[id]; ok {
				replacement, err := transformValue(id, value, taskInputs, tempDir)
				if err != nil {
					return nil, err
				}
				arg = strings.ReplaceAll(arg, placeholder, replacement)
			} else if id == task.TempDirToken {
				arg = strings.ReplaceAll(arg, placeholder, task.DataMount)
			}
		}

		expanded = append(expanded, arg)
	}

	return expanded, nil
}
