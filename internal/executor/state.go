package executor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Phase represents the lifecycle phases of one task execution.
type Phase string

const (
	PhaseValidate  Phase = "validate"
	PhasePull      Phase = "pull"
	PhaseRun       Phase = "run"
	PhaseReclaim   Phase = "reclaim"
	PhaseExtract   Phase = "extract"
	PhaseCompleted Phase = "completed"
)

const (
	// RecordFileName is the execution record written into the GC scratch
	// directory for post-mortem inspection.
	RecordFileName = "dockexec.run.json"

	recordSchemaVersion = "1.0"
)

// Record captures the progress of one task execution. Phases before the
// scratch directory exists are tracked in memory only; from the reclaim
// phase onward the record is persisted alongside the collector's state.
type Record struct {
	SchemaVersion string    `json:"schema_version"`
	RunID         string    `json:"run_id"`
	Image         string    `json:"image"`
	Phase         Phase     `json:"phase"`
	ExitCode      *int64    `json:"exit_code,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// newRecord creates a record for a fresh run.
func newRecord(image string) *Record {
	now := time.Now()
	return &Record{
		SchemaVersion: recordSchemaVersion,
		RunID:         uuid.New().String(),
		Image:         image,
		Phase:         PhaseValidate,
		StartedAt:     now,
		LastUpdatedAt: now,
	}
}

// advance moves the record to the given phase and, when dir is non-empty,
// persists it there. Persistence failures are logged, never fatal.
func (r *Record) advance(dir string, phase Phase) {
	r.Phase = phase
	r.LastUpdatedAt = time.Now()

	if dir == "" {
		return
	}
	if err := r.save(dir); err != nil {
		slog.Warn("Failed to persist execution record", "runId", r.RunID, "phase", phase, "error", err)
	}
}

func (r *Record) save(dir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize execution record: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, RecordFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write execution record: %w", err)
	}

	return nil
}
