package design

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interiorai/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestPersisterRecordsLifecycle(t *testing.T) {
	store := newMemStore()
	p := NewPersister(store, nil)
	p.now = fixedNow

	req := domain.GenerationRequest{
		UserID: "u1", Image: "img", Style: domain.StyleRustic, RoomType: domain.RoomDining,
		Scenario: domain.ScenarioHosting, CustomPrompt: "masa", Model: domain.ModelFlux,
	}
	require.True(t, p.RecordStart(context.Background(), "d1", req, "because"))

	doc := store.get("d1")
	assert.Equal(t, "processing", doc["status"])
	assert.Equal(t, "uploaded", doc["originalImageUrl"])
	assert.Equal(t, "because", doc["designRationale"])
	assert.Equal(t, "2026-03-01T12:00:00Z", doc["createdAt"])

	p.RecordComplete(context.Background(), "d1", domain.GenerationResult{
		Success: true, ImageURL: "https://cdn/x.png", Provider: "replicate-flux", Prompt: "p",
	}, &domain.SegmentationResult{CombinedMask: "https://cdn/mask.png"})

	doc = store.get("d1")
	assert.Equal(t, "completed", doc["status"])
	assert.Equal(t, "https://cdn/x.png", doc["aiGeneratedImageUrl"])
	assert.Equal(t, "https://cdn/mask.png", doc["segmentationMask"])
}

func TestPersisterRecordsFailure(t *testing.T) {
	store := newMemStore()
	p := NewPersister(store, nil)
	require.True(t, p.RecordStart(context.Background(), "d2", domain.GenerationRequest{UserID: "u"}, ""))

	p.RecordComplete(context.Background(), "d2", domain.GenerationResult{Error: "no provider", FallbackError: "Replicate: x"}, nil)
	doc := store.get("d2")
	assert.Equal(t, "failed", doc["status"])
	assert.Equal(t, "no provider", doc["error"])
	assert.Equal(t, "Replicate: x", doc["fallbackError"])
	assert.Equal(t, "none", doc["originalImageUrl"])
}

func TestPersisterSwallowsStoreErrors(t *testing.T) {
	store := newMemStore()
	store.createErr = errStoreDown
	p := NewPersister(store, nil)

	assert.False(t, p.RecordStart(context.Background(), "d3", domain.GenerationRequest{}, ""))
	store.updateErr = errStoreDown
	p.RecordComplete(context.Background(), "d3", domain.GenerationResult{}, nil)
}

func TestNilPersisterIsNoop(t *testing.T) {
	var p *Persister
	assert.False(t, p.Enabled())
	assert.False(t, p.RecordStart(context.Background(), "d", domain.GenerationRequest{}, ""))
	p.RecordComplete(context.Background(), "d", domain.GenerationResult{}, nil)
	designs, err := p.History(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, designs)

	assert.False(t, NewPersister(nil, nil).Enabled())
}

func TestHistory(t *testing.T) {
	store := newMemStore()
	p := NewPersister(store, nil)
	p.now = fixedNow
	ctx := context.Background()

	p.RecordStart(ctx, "a", domain.GenerationRequest{UserID: "u1", Style: domain.StyleModern}, "r1")
	p.RecordStart(ctx, "b", domain.GenerationRequest{UserID: "u2"}, "r2")
	p.RecordStart(ctx, "c", domain.GenerationRequest{UserID: "u1", Style: domain.StyleBohemian}, "r3")
	p.RecordComplete(ctx, "c", domain.GenerationResult{Success: true, ImageURL: "https://cdn/c.png", Provider: "replicate-flux"}, nil)

	designs, err := p.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, designs, 2)
	assert.Equal(t, "c", designs[0].ID)
	assert.Equal(t, "bohemian", designs[0].Style)
	assert.Equal(t, "completed", designs[0].Status)
	assert.Equal(t, "https://cdn/c.png", designs[0].AIGeneratedImageURL)
	assert.True(t, designs[0].CreatedAt.Equal(fixedNow()))
	assert.Equal(t, "a", designs[1].ID)

	guest, err := p.History(ctx, "guest_abcd1234")
	require.NoError(t, err)
	assert.Empty(t, guest)

	store.findErr = errStoreDown
	_, err = p.History(ctx, "u1")
	assert.ErrorIs(t, err, errStoreDown)
}
