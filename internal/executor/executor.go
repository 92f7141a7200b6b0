package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	derrors "dockexec/internal/errors"
	"dockexec/pkg/reclaim"
	"dockexec/pkg/runtime"
	"dockexec/pkg/task"
)

// ScratchDirName is the per-execution subdirectory of the temp dir that holds
// the reclaimer's transient state, PID, and exclusion files.
const ScratchDirName = "docker_gc_scratch"

// Executor runs one declarative task against a container image: it validates
// the declared outputs, pulls the image, resolves argument placeholders, runs
// the container, extracts the outputs, and reclaims stale container and image
// resources.
type Executor struct {
	runtime   runtime.ContainerRuntime
	reclaimer reclaim.Reclaimer
}

// New creates an Executor from a container runtime and a resource reclaimer.
func New(containerRuntime runtime.ContainerRuntime, reclaimer reclaim.Reclaimer) *Executor {
	return &Executor{
		runtime:   containerRuntime,
		reclaimer: reclaimer,
	}
}

// Run executes the task end to end. Validation precedes any side effect; the
// reclaimer is started after a successful container run and joined only after
// output extraction, so cleanup latency hides behind output handling. Its
// exit status is checked last. All errors are fatal to this one execution and
// are never retried here.
func (e *Executor) Run(
	ctx context.Context,
	spec *task.Spec,
	inputs map[string]task.InputValue,
	outputs map[string]*task.OutputSlot,
	taskInputs map[string]task.InputDescriptor,
	taskOutputs map[string]task.OutputDescriptor,
	execCtx task.ExecContext,
) error {
	record := newRecord(spec.DockerImage)
	slog.Info("Starting task execution", "runId", record.RunID, "image", spec.DockerImage)

	// Fail fast on misconfigured outputs, before pulls or disk writes.
	if err := ValidateOutputs(taskOutputs); err != nil {
		return err
	}

	if spec.ShouldPull() {
		record.advance("", PhasePull)
		if err := e.runtime.PullImage(ctx, spec.DockerImage); err != nil {
			return err
		}
	}

	args, err := expandArgs(spec.ContainerArgs, inputs, taskInputs, execCtx.TempDir)
	if err != nil {
		return err
	}

	// A declared stream output is captured into its slot instead of echoed
	// to our own stdio.
	var stdout, stderr io.Writer
	if _, ok := taskOutputs[task.StdoutID]; ok {
		stdout = captureSlot(outputs, task.StdoutID)
	}
	if _, ok := taskOutputs[task.StderrID]; ok {
		stderr = captureSlot(outputs, task.StderrID)
	}

	record.advance("", PhaseRun)
	exitCode, err := e.runtime.RunContainer(ctx, runtime.RunOptions{
		Image:        spec.DockerImage,
		Args:         args,
		Entrypoint:   spec.Entrypoint,
		ExtraRunArgs: spec.DockerRunArgs,
		TempDir:      execCtx.TempDir,
		UID:          execCtx.UID,
		Stdout:       stdout,
		Stderr:       stderr,
	})
	if err != nil {
		return err
	}
	record.ExitCode = &exitCode
	if exitCode != 0 {
		// No garbage collection after a failed run; the error reaches the
		// caller first.
		return &derrors.ContainerExecutionError{ExitCode: exitCode}
	}

	slog.Info("Garbage collecting old containers and images", "runId", record.RunID)
	scratchDir := filepath.Join(execCtx.TempDir, ScratchDirName)
	if err := os.Mkdir(scratchDir, 0755); err != nil {
		return fmt.Errorf("failed to create GC scratch directory: %w", err)
	}

	record.advance(scratchDir, PhaseReclaim)
	handle, err := e.reclaimer.Reclaim(scratchDir)
	if err != nil {
		return err
	}

	record.advance(scratchDir, PhaseExtract)
	if err := extractOutputs(taskOutputs, execCtx.TempDir, outputs); err != nil {
		// Join the collector anyway so its process is not orphaned.
		if waitErr := handle.Wait(); waitErr != nil {
			slog.Warn("docker-gc failed during aborted extraction", "runId", record.RunID, "error", waitErr)
		}
		return err
	}

	if err := handle.Wait(); err != nil {
		return err
	}

	record.advance(scratchDir, PhaseCompleted)
	slog.Info("Task execution completed", "runId", record.RunID, "image", spec.DockerImage)
	return nil
}

// captureSlot pre-initializes the slot for a declared stream output and
// returns a writer that accumulates the captured stream into it.
func captureSlot(outputs map[string]*task.OutputSlot, name string) io.Writer {
	slot := outputs[name]
	if slot == nil {
		slot = &task.OutputSlot{}
		outputs[name] = slot
	}
	slot.Data = ""
	return &slotWriter{slot: slot}
}

// slotWriter appends a captured container stream to an output slot.
type slotWriter struct {
	slot *task.OutputSlot
}

func (w *slotWriter) Write(p []byte) (int, error) {
	w.slot.Data += string(p)
	return len(p), nil
}
