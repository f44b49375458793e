package domain

import "fmt"

// JobStatus mirrors the lifecycle reported by the hosted model provider.
type JobStatus string

const (
	JobStatusStarting   JobStatus = "starting"
	JobStatusProcessing JobStatus = "processing"
	JobStatusSucceeded  JobStatus = "succeeded"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCanceled   JobStatus = "canceled"
)

// IsTerminal reports whether no further transitions are possible.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusSucceeded, JobStatusFailed, JobStatusCanceled:
		return true
	default:
		return false
	}
}

// GenerationJob tracks one submitted prediction.
type GenerationJob struct {
	ID     string
	Status JobStatus
	Output any
	Error  string
}

// NewGenerationJob returns a job in the starting state.
func NewGenerationJob(id string) *GenerationJob {
	return &GenerationJob{ID: id, Status: JobStatusStarting}
}

// Observe records a freshly fetched status. A terminal job rejects every
// later observation so its status and output stay fixed.
func (j *GenerationJob) Observe(status JobStatus, output any, errMsg string) error {
	if j.Status.IsTerminal() {
		return fmt.Errorf("job %s is %s: %w", j.ID, j.Status, ErrJobTerminal)
	}
	j.Status = status
	if status.IsTerminal() {
		j.Output = output
		j.Error = errMsg
	}
	return nil
}
