package design

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interiorai/internal/domain"
	"interiorai/internal/providers/image"
	"interiorai/internal/providers/replicate"
	"interiorai/internal/providers/video"
)

type stubAnalyzer struct {
	plan  string
	ok    bool
	calls atomic.Int32
}

func (s *stubAnalyzer) Analyze(ctx context.Context, img, req string) (string, bool) {
	s.calls.Add(1)
	return s.plan, s.ok
}

type stubSurveyor struct {
	res   *domain.SegmentationResult
	calls atomic.Int32
}

func (s *stubSurveyor) Segment(ctx context.Context, img string) (*domain.SegmentationResult, bool) {
	s.calls.Add(1)
	return s.res, s.res != nil
}

type stubImages struct {
	res     image.Result
	err     error
	lastReq image.Request
}

func (s *stubImages) Generate(ctx context.Context, req image.Request) (image.Result, error) {
	s.lastReq = req
	return s.res, s.err
}

func seqID() func() string {
	var n atomic.Int32
	return func() string {
		return "design-" + string(rune('0'+n.Add(1)))
	}
}

func TestGenerateSuccessPersistsAndReturnsResult(t *testing.T) {
	store := newMemStore()
	images := &stubImages{res: image.Result{Output: image.Output{URL: "https://cdn/out.png", Provider: image.ProviderReplicateFlux}}}
	analyzer := &stubAnalyzer{plan: "Place the sofa facing the fireplace.", ok: true}
	surveyor := &stubSurveyor{res: &domain.SegmentationResult{CombinedMask: "https://cdn/mask.png"}}
	svc := NewService(Options{
		Analyzer:  analyzer,
		Surveyor:  surveyor,
		Images:    images,
		Persister: NewPersister(store, nil),
		NewID:     seqID(),
	})

	res := svc.Generate(context.Background(), domain.GenerationRequest{
		UserID: "u1", Image: "img", Style: domain.StyleModern, RoomType: domain.RoomLivingRoom,
		Scenario: domain.ScenarioCinema, CustomPrompt: "televizyon duvarda", Model: domain.ModelFlux,
	})

	require.True(t, res.Success)
	assert.Equal(t, "design-1", res.DesignID)
	assert.Equal(t, "https://cdn/out.png", res.ImageURL)
	assert.Equal(t, image.ProviderReplicateFlux, res.Provider)
	assert.Contains(t, res.Prompt, "ARCHITECTURAL PLAN (MUST FOLLOW): Place the sofa facing the fireplace.")
	assert.Contains(t, res.Prompt, "mount the TV directly above the fireplace/mantel")
	assert.Equal(t, res.Prompt, images.lastReq.Prompt)
	assert.NotEmpty(t, res.Rationale)

	doc := store.get("design-1")
	assert.Equal(t, "completed", doc["status"])
	assert.Equal(t, "https://cdn/mask.png", doc["segmentationMask"])
	assert.Equal(t, "u1", doc["userId"])
}

func TestGenerateSkipsAdvisoryStagesWhenInapplicable(t *testing.T) {
	analyzer := &stubAnalyzer{}
	surveyor := &stubSurveyor{}
	images := &stubImages{res: image.Result{Output: image.Output{URL: "u", Provider: image.ProviderPollinations}}}
	svc := NewService(Options{Analyzer: analyzer, Surveyor: surveyor, Images: images})

	res := svc.Generate(context.Background(), domain.GenerationRequest{Style: domain.StyleModern})
	require.True(t, res.Success)
	assert.Zero(t, analyzer.calls.Load())
	assert.Zero(t, surveyor.calls.Load())
	assert.Empty(t, res.DesignID, "nothing persisted without a store")
	assert.NotContains(t, res.Prompt, "ARCHITECTURAL PLAN")
}

func TestGenerateAdvisoryFailureDoesNotAbort(t *testing.T) {
	images := &stubImages{res: image.Result{Output: image.Output{URL: "u", Provider: image.ProviderReplicateFlux}}}
	svc := NewService(Options{
		Analyzer: &stubAnalyzer{ok: false},
		Surveyor: &stubSurveyor{},
		Images:   images,
	})

	res := svc.Generate(context.Background(), domain.GenerationRequest{Image: "img", CustomPrompt: "tv"})
	assert.True(t, res.Success)
	assert.NotContains(t, res.Prompt, "ARCHITECTURAL PLAN")
}

func TestGenerateHardFailure(t *testing.T) {
	store := newMemStore()
	images := &stubImages{
		res: image.Result{FallbackError: "Replicate: boom"},
		err: errors.Join(domain.ErrNoProvider, errors.New("Replicate: boom")),
	}
	svc := NewService(Options{Images: images, Persister: NewPersister(store, nil), NewID: seqID()})

	res := svc.Generate(context.Background(), domain.GenerationRequest{Image: "img"})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, "Replicate: boom", res.FallbackError)
	assert.True(t, IsHardFailure(res))

	doc := store.get("design-1")
	assert.Equal(t, "failed", doc["status"])
	assert.True(t, strings.HasPrefix(doc["userId"].(string), "guest_"))
}

func TestGenerateWithoutChain(t *testing.T) {
	res := NewService(Options{}).Generate(context.Background(), domain.GenerationRequest{})
	assert.False(t, res.Success)
	assert.True(t, IsHardFailure(res))
}

func TestGuestID(t *testing.T) {
	id := GuestID()
	assert.Len(t, id, len("guest_")+8)
	assert.True(t, IsGuest(id))
	assert.NotEqual(t, id, GuestID())
}

// End to end through the real chain with a scripted Replicate runner.
type scriptedRunner struct {
	output any
}

func (s *scriptedRunner) HasCredentials() bool { return true }

func (s *scriptedRunner) Run(ctx context.Context, label, version string, input map[string]any, attempts int) (*domain.GenerationJob, error) {
	return &domain.GenerationJob{ID: "p", Status: domain.JobStatusSucceeded, Output: s.output}, nil
}

type pinnedResolver struct{}

func (pinnedResolver) ResolveRef(ctx context.Context, ref replicate.ModelRef) domain.ModelVersionRef {
	return domain.ModelVersionRef{Owner: ref.Owner, Name: ref.Name, VersionID: ref.Pinned}
}

func TestGenerateEndToEndIndustrialKitchen(t *testing.T) {
	runner := &scriptedRunner{output: []any{"https://replicate.delivery/out.png"}}
	chain := image.NewChain(nil, nil,
		image.NewReplicateTier(runner, pinnedResolver{}),
		image.NewHuggingFaceTier(image.HuggingFaceOptions{}),
		image.NewPollinationsTier("", nil),
	)
	svc := NewService(Options{Images: chain})

	res := svc.Generate(context.Background(), domain.GenerationRequest{
		Image:    "data:image/jpeg;base64,AAAA",
		Style:    domain.ParseStyle("industrial"),
		RoomType: domain.ParseRoomType("kitchen"),
		Scenario: domain.ParseScenario("living"),
		Model:    domain.ParseModelChoice("flux"),
	})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "replicate-flux", res.Provider)
	assert.Equal(t, "https://replicate.delivery/out.png", res.ImageURL)
	assert.Contains(t, res.Prompt, "industrial loft style")
	assert.Contains(t, res.Prompt, "modern gourmet kitchen")
}

type stubVideo struct {
	asset *video.Asset
	err   error
}

func (s stubVideo) Generate(ctx context.Context, url string) (*video.Asset, error) {
	return s.asset, s.err
}

func TestGenerateVideo(t *testing.T) {
	svc := NewService(Options{Video: stubVideo{asset: &video.Asset{URL: "https://cdn/v.mp4"}}})
	res := svc.GenerateVideo(context.Background(), "https://cdn/room.png")
	assert.True(t, res.Success)
	assert.Equal(t, "https://cdn/v.mp4", res.VideoURL)

	res = NewService(Options{Video: stubVideo{err: video.ErrNoImage}}).GenerateVideo(context.Background(), "")
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, video.ErrNoImage)

	res = NewService(Options{}).GenerateVideo(context.Background(), "x")
	assert.False(t, res.Success)
}
