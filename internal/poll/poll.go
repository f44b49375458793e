// Package poll drives a submitted prediction to a terminal state.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"interiorai/internal/domain"
	"interiorai/internal/infra"
)

// DefaultInterval is the wait before every status fetch.
const DefaultInterval = 2 * time.Second

// Attempt ceilings per model family.
const (
	VisionAttempts       = 20
	SegmentationAttempts = 30
	ImageAttempts        = 30
	ControlNetAttempts   = 40
	VideoAttempts        = 60
)

// ErrTimeout is returned when the attempt ceiling is reached before the job
// turns terminal.
var ErrTimeout = errors.New("poll: attempt ceiling reached")

// JobError carries the provider's message for a failed or canceled job.
type JobError struct {
	ID      string
	Status  domain.JobStatus
	Message string
}

func (e *JobError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("prediction %s %s", e.ID, e.Status)
	}
	return fmt.Sprintf("prediction %s %s: %s", e.ID, e.Status, e.Message)
}

// Clock abstracts waiting so tests can poll without sleeping.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

// SystemClock waits on real time.
type SystemClock struct{}

func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Status is one observation returned by a Fetch.
type Status struct {
	Status domain.JobStatus
	Output any
	Error  string
}

// Fetch retrieves the current status of a job.
type Fetch func(ctx context.Context, id string) (Status, error)

// Options tunes a poll loop.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
	Clock       Clock
	Logger      *infra.Logger
	// OnAttempt is invoked after each fetch with the observed status, or ""
	// when the fetch failed.
	OnAttempt func(status domain.JobStatus)
}

// WithAttempts returns a copy of o with the given ceiling.
func (o Options) WithAttempts(n int) Options {
	o.MaxAttempts = n
	return o
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = ImageAttempts
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	o.Logger = infra.OrDiscard(o.Logger)
	return o
}

// Until polls id until it reaches a terminal status. Each attempt waits one
// interval and then fetches. Fetch errors and non-terminal statuses consume
// an attempt and the loop continues. A succeeded job is returned as-is,
// failed or canceled jobs yield a *JobError, exhausting the ceiling yields
// ErrTimeout and a done context returns its error immediately.
func Until(ctx context.Context, id string, fetch Fetch, opts Options) (*domain.GenerationJob, error) {
	opts = opts.withDefaults()
	job := domain.NewGenerationJob(id)

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-opts.Clock.After(opts.Interval):
		}

		st, err := fetch(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return job, ctxErr
			}
			opts.Logger.Debug().Err(err).Str("prediction", id).Int("attempt", attempt).Msg("poll: transient fetch error")
			if opts.OnAttempt != nil {
				opts.OnAttempt("")
			}
			continue
		}
		if opts.OnAttempt != nil {
			opts.OnAttempt(st.Status)
		}
		if err := job.Observe(st.Status, st.Output, st.Error); err != nil {
			return job, err
		}

		switch st.Status {
		case domain.JobStatusSucceeded:
			return job, nil
		case domain.JobStatusFailed, domain.JobStatusCanceled:
			return job, &JobError{ID: id, Status: st.Status, Message: st.Error}
		}
	}

	opts.Logger.Warn().Str("prediction", id).Int("attempts", opts.MaxAttempts).Msg("poll: gave up")
	return job, fmt.Errorf("prediction %s after %d attempts: %w", id, opts.MaxAttempts, ErrTimeout)
}
