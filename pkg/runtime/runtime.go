package runtime

import (
	"context"
	"io"
)

// RunOptions defines the parameters for one container run.
type RunOptions struct {
	Image        string
	Args         []string
	Entrypoint   string
	ExtraRunArgs []string

	// TempDir, when non-empty, is bind-mounted at the container data root.
	TempDir string

	// UID is the numeric host user id the container process runs as.
	UID int

	// Stdout and Stderr receive the demultiplexed container streams.
	Stdout io.Writer
	Stderr io.Writer
}

// ContainerRuntime defines the contract for container operations.
type ContainerRuntime interface {
	// PullImage ensures the named image is present locally.
	PullImage(ctx context.Context, image string) error

	// RunContainer starts the container, streams its output into the
	// configured writers, blocks until it exits, and returns the native
	// exit code.
	RunContainer(ctx context.Context, opts RunOptions) (int64, error)
}
