package executor

import (
	"os"
	"strings"

	derrors "dockexec/internal/errors"
	"dockexec/pkg/task"
)

// ValidateOutputs statically checks the declared output specs. It runs before
// any side-effecting work so that misconfigured tasks fail before image pulls
// or disk writes.
func ValidateOutputs(taskOutputs map[string]task.OutputDescriptor) error {
	for name, spec := range taskOutputs {
		if spec.Target == string(task.TargetFilepath) {
			path := effectivePath(name, spec)
			if strings.HasPrefix(path, "/") && !strings.HasPrefix(path, task.DataMount+"/") {
				return &derrors.InvalidOutputSpecError{
					Name:   name,
					Reason: `filepath output paths must either start with "` + task.DataMount + `/" or be relative to the ` + task.DataMount + ` dir`,
				}
			}
		} else if name != task.StdoutID && name != task.StderrID {
			return &derrors.InvalidOutputSpecError{
				Name:   name,
				Reason: `outputs must be "` + task.StdoutID + `", "` + task.StderrID + `", or filepath targets`,
			}
		}
	}

	return nil
}

// extractOutputs maps declared filepath outputs back from the container data
// mount into host paths under tempDir and records them in the output slots.
// Stream outputs were already populated incrementally by the runner.
func extractOutputs(taskOutputs map[string]task.OutputDescriptor, tempDir string, outputs map[string]*task.OutputSlot) error {
	for name, spec := range taskOutputs {
		if spec.Target != string(task.TargetFilepath) {
			continue
		}

		path := effectivePath(name, spec)
		if !strings.HasPrefix(path, "/") {
			// Relative paths are relative to the data mount.
			path = task.DataMount + "/" + path
		}

		hostPath := strings.Replace(path, task.DataMount, tempDir, 1)
		if _, err := os.Stat(hostPath); err != nil {
			return &derrors.MissingOutputError{Name: name, Path: hostPath}
		}

		slot := outputs[name]
		if slot == nil {
			slot = &task.OutputSlot{}
			outputs[name] = slot
		}
		slot.Data = hostPath
	}

	return nil
}

// effectivePath returns the declared output path, defaulting to the output id.
func effectivePath(name string, spec task.OutputDescriptor) string {
	if spec.Path != "" {
		return spec.Path
	}
	return name
}
