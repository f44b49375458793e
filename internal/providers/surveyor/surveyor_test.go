package surveyor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interiorai/internal/domain"
	"interiorai/internal/poll"
	"interiorai/internal/providers/replicate"
)

type fakeRunner struct {
	job      *domain.GenerationJob
	err      error
	version  string
	attempts int
}

func (f *fakeRunner) HasCredentials() bool { return true }

func (f *fakeRunner) Run(ctx context.Context, label, version string, input map[string]any, attempts int) (*domain.GenerationJob, error) {
	f.version = version
	f.attempts = attempts
	return f.job, f.err
}

type mapResolver map[string]string

func (m mapResolver) Resolve(ctx context.Context, owner, name string) (string, bool) {
	v, ok := m[owner+"/"+name]
	return v, ok
}

func succeeded(output any) *domain.GenerationJob {
	return &domain.GenerationJob{Status: domain.JobStatusSucceeded, Output: output}
}

func TestSegmentDecodesMasks(t *testing.T) {
	runner := &fakeRunner{job: succeeded(map[string]any{
		"combined_mask":    "https://cdn/combined.png",
		"individual_masks": []any{"https://cdn/0.png", "https://cdn/1.png"},
	})}
	s := New(runner, mapResolver{"facebook/segment-anything-2": "meta-v"}, nil)

	res, ok := s.Segment(context.Background(), "img")
	require.True(t, ok)
	assert.Equal(t, "https://cdn/combined.png", res.CombinedMask)
	assert.Len(t, res.IndividualMasks, 2)
	assert.Equal(t, "meta-v", runner.version)
	assert.Equal(t, poll.SegmentationAttempts, runner.attempts)
}

func TestSegmentVersionFallbackOrder(t *testing.T) {
	runner := &fakeRunner{job: succeeded([]any{"mask.png"})}

	New(runner, mapResolver{"ijulius/segment-anything-2": "mirror-v"}, nil).Segment(context.Background(), "img")
	assert.Equal(t, "mirror-v", runner.version)

	New(runner, mapResolver{}, nil).Segment(context.Background(), "img")
	assert.Equal(t, replicate.SegmentAnything.Pinned, runner.version)
}

func TestSegmentKeepsRawForUnknownShape(t *testing.T) {
	runner := &fakeRunner{job: succeeded([]any{"mask.png"})}
	res, ok := New(runner, mapResolver{}, nil).Segment(context.Background(), "img")
	require.True(t, ok)
	assert.Empty(t, res.CombinedMask)
	assert.Equal(t, []any{"mask.png"}, res.Raw)
}

func TestSegmentFailureIsAbsent(t *testing.T) {
	runner := &fakeRunner{err: poll.ErrTimeout}
	res, ok := New(runner, mapResolver{}, nil).Segment(context.Background(), "img")
	assert.False(t, ok)
	assert.Nil(t, res)

	_, ok = New(&fakeRunner{job: succeeded(nil)}, mapResolver{}, nil).Segment(context.Background(), "img")
	assert.False(t, ok)

	_, ok = New(runner, mapResolver{}, nil).Segment(context.Background(), "")
	assert.False(t, ok)
}
