package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stdcopy"

	derrors "dockexec/internal/errors"
	"dockexec/pkg/runtime"
	"dockexec/pkg/task"
)

// DockerRuntime implements the ContainerRuntime interface using the Docker
// client.
type DockerRuntime struct {
	client *client.Client
}

// NewDockerRuntime creates a new DockerRuntime instance using client.FromEnv.
func NewDockerRuntime() (*DockerRuntime, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	// Check if Docker daemon is accessible
	ctx := context.Background()
	if _, err := dockerClient.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Docker daemon: %w", err)
	}

	return &DockerRuntime{
		client: dockerClient,
	}, nil
}

// PullImage pulls a Docker image. The pull progress stream is captured so a
// failed pull can report its diagnostic output.
func (d *DockerRuntime) PullImage(ctx context.Context, imageName string) error {
	slog.Info("Pulling Docker image", "image", imageName)

	reader, err := d.client.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return &derrors.ImagePullError{Image: imageName, Err: err}
	}
	defer reader.Close()

	// The pull stream carries progress and, on failure, the daemon's error
	// message. Render it into a buffer instead of the terminal.
	var progress bytes.Buffer
	if err := jsonmessage.DisplayJSONMessagesStream(reader, &progress, 0, false, nil); err != nil {
		return &derrors.ImagePullError{Image: imageName, Output: progress.String(), Err: err}
	}

	slog.Info("Successfully pulled Docker image", "image", imageName)
	return nil
}

// RunContainer creates and starts the container, streams its demultiplexed
// stdout/stderr into the configured writers, blocks until the container
// exits, and returns the native exit code. The container is force-removed
// afterward regardless of outcome.
func (d *DockerRuntime) RunContainer(ctx context.Context, opts runtime.RunOptions) (int64, error) {
	slog.Info("Running container", "image", opts.Image, "args", opts.Args)

	containerConfig := &container.Config{
		Image: opts.Image,
		Cmd:   strslice.StrSlice(opts.Args),
		User:  strconv.Itoa(opts.UID),
	}
	if opts.Entrypoint != "" {
		containerConfig.Entrypoint = strslice.StrSlice{opts.Entrypoint}
	}

	hostConfig := &container.HostConfig{}
	if opts.TempDir != "" {
		hostConfig.Binds = []string{opts.TempDir + ":" + task.DataMount}
	}

	if err := applyRunArgs(opts.ExtraRunArgs, containerConfig, hostConfig); err != nil {
		return 0, err
	}

	resp, err := d.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
	if err != nil {
		return 0, fmt.Errorf("failed to create container: %w", err)
	}
	containerID := resp.ID
	defer d.removeContainer(containerID)

	// Attach before starting so no early output is lost.
	attach, err := d.client.ContainerAttach(ctx, containerID, container.AttachOptions{
		Stream: true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to attach to container: %w", err)
	}
	defer attach.Close()

	if err := d.client.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return 0, fmt.Errorf("failed to start container: %w", err)
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// Drain both streams concurrently so a full pipe never stalls the
	// container.
	copyDone := make(chan error, 1)
	go func() {
		_, err := stdcopy.StdCopy(stdout, stderr, attach.Reader)
		copyDone <- err
	}()

	waitCh, errCh := d.client.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)

	var exitCode int64
	select {
	case result := <-waitCh:
		if result.Error != nil {
			return 0, fmt.Errorf("container wait failed: %s", result.Error.Message)
		}
		exitCode = result.StatusCode
	case err := <-errCh:
		return 0, fmt.Errorf("failed to wait for container: %w", err)
	}

	if err := <-copyDone; err != nil && err != io.EOF {
		slog.Warn("Failed to drain container output", "containerID", containerID, "error", err)
	}

	return exitCode, nil
}

func (d *DockerRuntime) removeContainer(containerID string) {
	ctx := context.Background()
	if err := d.client.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); err != nil {
		slog.Error("Failed to remove container", "containerID", containerID, "error", err)
	}
}
