package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"dockexec/internal/config"
	"dockexec/internal/errors"
	"dockexec/internal/executor"
	"dockexec/internal/gc"
	"dockexec/internal/parser"
	"dockexec/internal/runtime"
	"dockexec/pkg/task"
)

// version is set at build time via ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "dockexec",
	Short:   "dockexec - declarative container task execution",
	Version: version,
	Long: `dockexec executes a declarative task against a container image: it resolves
symbolic input/output references into container-visible paths, runs the
container with the resolved arguments, captures its streams, extracts the
declared outputs, and reclaims stale container and image resources.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a task from a task file",
	Long: `Run parses a task YAML file, pulls the task's image, expands the container
argument templates against the declared inputs, runs the container with the
host temp directory bound at ` + task.DataMount + `, and extracts the declared outputs.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			fmt.Fprintln(os.Stderr, "Error: --file flag is required")
			os.Exit(1)
		}

		tempDir, _ := cmd.Flags().GetString("temp-dir")

		taskFile, err := parser.Parse(file)
		if err != nil {
			errors.HandleError(err)
			os.Exit(1)
		}

		if tempDir == "" {
			tempDir, err = os.MkdirTemp("", "dockexec-")
			if err != nil {
				errors.HandleError(fmt.Errorf("failed to create temp directory: %w", err))
				os.Exit(1)
			}
		}

		fmt.Printf("Executing task image: %s\n", taskFile.Task.DockerImage)

		exec, err := newExecutor()
		if err != nil {
			errors.HandleError(err)
			os.Exit(1)
		}

		outputs := taskFile.Slots()
		execCtx := task.ExecContext{TempDir: tempDir, UID: os.Getuid()}

		if err := exec.Run(context.Background(), &taskFile.Task, taskFile.Values(), outputs,
			taskFile.Descriptors(), taskFile.Outputs, execCtx); err != nil {
			errors.HandleError(err)
			os.Exit(1)
		}

		printOutputs(outputs)
		fmt.Printf("Task completed successfully. Temp directory: %s\n", tempDir)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a task file without running it",
	Long: `Validate parses a task YAML file and pre-flight checks the declared output
specs, reporting configuration errors before any image pull or container run.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			fmt.Fprintln(os.Stderr, "Error: --file flag is required")
			os.Exit(1)
		}

		taskFile, err := parser.Parse(file)
		if err != nil {
			errors.HandleError(err)
			os.Exit(1)
		}

		if err := executor.ValidateOutputs(taskFile.Outputs); err != nil {
			errors.HandleError(err)
			os.Exit(1)
		}

		fmt.Printf("Task file is valid: %s\n", file)
	},
}

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Run a garbage collection pass and wait for it",
	Long: `GC starts the external docker-gc program, which removes containers whose
last exit exceeds the configured grace period and deletes images no longer
referenced by any container, then waits for it to finish.`,
	Run: func(cmd *cobra.Command, args []string) {
		gcConfig, err := config.LoadGC()
		if err != nil {
			errors.HandleError(err)
			os.Exit(1)
		}

		scratchDir, err := os.MkdirTemp("", "dockexec-gc-")
		if err != nil {
			errors.HandleError(fmt.Errorf("failed to create GC scratch directory: %w", err))
			os.Exit(1)
		}

		fmt.Println("Garbage collecting old containers and images.")

		handle, err := gc.New(*gcConfig).Reclaim(scratchDir)
		if err != nil {
			errors.HandleError(err)
			os.Exit(1)
		}

		if err := handle.Wait(); err != nil {
			errors.HandleError(err)
			os.Exit(1)
		}

		fmt.Println("Garbage collection completed successfully.")
	},
}

// newExecutor wires the Docker runtime and the configured reclaimer.
func newExecutor() (*executor.Executor, error) {
	dockerRuntime, err := runtime.NewDockerRuntime()
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker runtime: %w", err)
	}

	gcConfig, err := config.LoadGC()
	if err != nil {
		return nil, err
	}

	return executor.New(dockerRuntime, gc.New(*gcConfig)), nil
}

func printOutputs(outputs map[string]*task.OutputSlot) {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("Output %s: %s\n", name, outputs[name].Data)
	}
}

func init() {
	runCmd.Flags().StringP("file", "f", "", "Path to the task YAML file (required)")
	runCmd.Flags().String("temp-dir", "", "Host directory to bind at "+task.DataMount+" (created if omitted)")
	if err := runCmd.MarkFlagRequired("file"); err != nil {
		slog.Error("Failed to mark file flag as required for run command", "error", err)
	}
	rootCmd.AddCommand(runCmd)

	validateCmd.Flags().StringP("file", "f", "", "Path to the task YAML file (required)")
	if err := validateCmd.MarkFlagRequired("file"); err != nil {
		slog.Error("Failed to mark file flag as required for validate command", "error", err)
	}
	rootCmd.AddCommand(validateCmd)

	rootCmd.AddCommand(gcCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
