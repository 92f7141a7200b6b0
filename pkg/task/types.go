package task

// DataMount is the fixed in-container directory onto which the host temp
// directory is bound. All filepath inputs and outputs are expressed relative
// to or rewritten against this root.
const DataMount = "/data"

// Reserved identifiers understood by the executor.
const (
	// TempDirToken expands to DataMount inside container argument templates.
	TempDirToken = "_tempdir"

	// StdoutID and StderrID are the only valid ids for non-filepath outputs.
	StdoutID = "_stdout"
	StderrID = "_stderr"
)

// Spec describes one container task to execute. It is populated by parsing
// the user's task YAML file and is read-only for the duration of a run.
type Spec struct {
	DockerImage   string   `yaml:"docker_image" mapstructure:"docker_image" validate:"required"`
	PullImage     *bool    `yaml:"pull_image" mapstructure:"pull_image"`
	Entrypoint    string   `yaml:"entrypoint" mapstructure:"entrypoint"`
	ContainerArgs []string `yaml:"container_args" mapstructure:"container_args"`
	DockerRunArgs []string `yaml:"docker_run_args" mapstructure:"docker_run_args"`
}

// ShouldPull reports whether the image should be pulled before the run.
// Pulling defaults to true when the field is omitted.
func (s *Spec) ShouldPull() bool {
	return s.PullImage == nil || *s.PullImage
}

// InputTarget describes how an input is materialized for the container.
type InputTarget string

const (
	// TargetPlain inputs are substituted as inline scalar values.
	TargetPlain InputTarget = "plain"

	// TargetFilepath inputs are files on disk whose paths are rewritten
	// against DataMount before substitution.
	TargetFilepath InputTarget = "filepath"
)

// InputDescriptor declares one input of a task. An input is matched against
// placeholders by its ID, or by its Name when no ID is set.
type InputDescriptor struct {
	ID     string      `yaml:"id" mapstructure:"id"`
	Name   string      `yaml:"name" mapstructure:"name"`
	Target InputTarget `yaml:"target" mapstructure:"target" validate:"omitempty,oneof=plain filepath"`
}

// Key returns the identifier placeholders are matched against.
func (d *InputDescriptor) Key() string {
	if d.ID != "" {
		return d.ID
	}
	return d.Name
}

// OutputDescriptor declares one output of a task. Filepath-target outputs
// name a path under DataMount (Path defaults to the output id); any other
// target is only valid for the reserved _stdout/_stderr ids.
type OutputDescriptor struct {
	Target string `yaml:"target" mapstructure:"target" validate:"required"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// InputValue is a resolved input supplied by the caller: either an inline
// scalar or, for filepath targets, a host filesystem path.
type InputValue struct {
	Data string `yaml:"script_data" mapstructure:"script_data"`
}

// OutputSlot receives the produced value of one declared output: captured
// stream text for _stdout/_stderr, or a host filesystem path for filepath
// targets. Slots are created empty by the caller and populated exactly once.
type OutputSlot struct {
	Data string
}

// ExecContext carries the per-execution host resources: a temp directory
// bound into the container at DataMount, and the numeric user id to run the
// container as. The temp directory is caller-owned and outlives the run.
type ExecContext struct {
	TempDir string
	UID     int
}
