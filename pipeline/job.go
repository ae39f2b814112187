package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage is one phase of a job's lifecycle. Transitions are monotonic:
// a stage never moves backward, and Done/Failed are terminal.
type Stage int

const (
	StagePending Stage = iota
	StageRetrieving
	StageInferring
	StagePersisting
	StageNotifying
	StageDone
	StageFailed
)

// String returns the stage name for logging and callback payloads.
func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageRetrieving:
		return "retrieving"
	case StageInferring:
		return "inferring"
	case StagePersisting:
		return "persisting"
	case StageNotifying:
		return "notifying"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Terminal reports whether the stage is Done or Failed.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// Job is the unit of work owned by the orchestrator. It is created on
// trigger acceptance, mutated only by the orchestrator run handling it,
// and discarded after reaching a terminal stage.
type Job struct {
	ID          string
	VideoID     string
	VideoURL    string
	Model       string
	ResponseURL string // callback address; empty for direct API triggers
	Stage       Stage
	LastError   error
	CreatedAt   time.Time
}

// NewJob creates a pending job for one trigger.
func NewJob(videoID, videoURL, model, responseURL string) *Job {
	return &Job{
		ID:          uuid.NewString(),
		VideoID:     videoID,
		VideoURL:    videoURL,
		Model:       model,
		ResponseURL: responseURL,
		Stage:       StagePending,
		CreatedAt:   time.Now().UTC(),
	}
}

// advance moves the job to the next stage. Backward moves and moves out of
// a terminal stage are refused.
func (j *Job) advance(next Stage) error {
	if j.Stage.Terminal() {
		return fmt.Errorf("job %s is terminal (%s), cannot move to %s", j.ID, j.Stage, next)
	}
	if next <= j.Stage {
		return fmt.Errorf("job %s cannot move backward from %s to %s", j.ID, j.Stage, next)
	}
	j.Stage = next
	return nil
}

// fail records the error and moves the job to Failed. A failed job never
// resumes.
func (j *Job) fail(err error) {
	if j.Stage.Terminal() {
		return
	}
	j.LastError = err
	j.Stage = StageFailed
}
