package gc

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"dockexec/internal/config"
	derrors "dockexec/internal/errors"
	"dockexec/pkg/reclaim"
)

// ExcludeFileName is the name of the newline-delimited image exclusion list
// written into the scratch directory when exclusions are configured.
const ExcludeFileName = ".docker-gc-exclude"

// DockerGC runs the external docker-gc program, which removes containers
// whose last exit exceeds the grace period and then deletes images no longer
// referenced by any remaining container. All configuration is passed through
// the program's environment.
type DockerGC struct {
	cfg config.GC
}

// New creates a DockerGC from an explicit configuration, sourced once at the
// caller's boundary.
func New(cfg config.GC) *DockerGC {
	return &DockerGC{cfg: cfg}
}

// Reclaim starts the collector and returns a handle without waiting for it.
// The collector inherits the parent's stdout/stderr so it never blocks on a
// full pipe. A missing or non-executable program fails synchronously before
// any process is started.
func (g *DockerGC) Reclaim(scratchDir string) (reclaim.Handle, error) {
	script := g.cfg.Script

	info, err := os.Stat(script)
	if err != nil {
		return nil, &derrors.GCUnavailableError{Script: script, Err: err}
	}
	if info.IsDir() || info.Mode()&0111 == 0 {
		return nil, &derrors.GCUnavailableError{Script: script, Err: errors.New("not executable")}
	}

	env := append(os.Environ(),
		"FORCE_CONTAINER_REMOVAL=1",
		"STATE_DIR="+scratchDir,
		"PID_DIR="+scratchDir,
		fmt.Sprintf("GRACE_PERIOD_SECONDS=%d", g.cfg.GracePeriod),
	)

	if len(g.cfg.ExcludeImages) > 0 {
		excludeFile := filepath.Join(scratchDir, ExcludeFileName)
		content := strings.Join(g.cfg.ExcludeImages, "\n") + "\n"
		if err := os.WriteFile(excludeFile, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write exclusion file: %w", err)
		}
		env = append(env, "EXCLUDE_FROM_GC="+excludeFile)
	}

	cmd := exec.Command(script)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, &derrors.GCUnavailableError{Script: script, Err: err}
	}

	slog.Info("Started docker-gc", "script", script, "stateDir", scratchDir, "gracePeriodSeconds", g.cfg.GracePeriod)
	return &processHandle{cmd: cmd}, nil
}

type processHandle struct {
	cmd *exec.Cmd
}

func (h *processHandle) Wait() error {
	err := h.cmd.Wait()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &derrors.GCError{ExitCode: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to wait for docker-gc: %w", err)
}
