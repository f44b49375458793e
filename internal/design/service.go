// Package design runs the redesign pipeline: optional analysis stages, prompt
// composition, the provider chain and result persistence.
package design

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"interiorai/internal/domain"
	"interiorai/internal/infra"
	"interiorai/internal/metrics"
	"interiorai/internal/prompt"
	"interiorai/internal/providers/image"
	"interiorai/internal/providers/video"
)

const (
	guestPrefix  = "guest_"
	persistGrace = 5 * time.Second
)

// Analyzer produces an optional architectural plan.
type Analyzer interface {
	Analyze(ctx context.Context, image, userRequest string) (string, bool)
}

// Surveyor produces an optional room segmentation.
type Surveyor interface {
	Segment(ctx context.Context, image string) (*domain.SegmentationResult, bool)
}

// ImageGenerator is the provider chain.
type ImageGenerator interface {
	Generate(ctx context.Context, req image.Request) (image.Result, error)
}

// Options wires a Service. Analyzer, Surveyor, Video and Persister may be nil.
type Options struct {
	Composer  *prompt.Composer
	Analyzer  Analyzer
	Surveyor  Surveyor
	Images    ImageGenerator
	Video     video.Generator
	Persister *Persister
	Logger    *infra.Logger
	Metrics   *metrics.Collector
	NewID     func() string
}

// Service is safe for concurrent use.
type Service struct {
	composer  *prompt.Composer
	analyzer  Analyzer
	surveyor  Surveyor
	images    ImageGenerator
	video     video.Generator
	persister *Persister
	logger    *infra.Logger
	metrics   *metrics.Collector
	newID     func() string
}

func NewService(opts Options) *Service {
	composer := opts.Composer
	if composer == nil {
		composer = prompt.NewComposer(nil)
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{
		composer:  composer,
		analyzer:  opts.Analyzer,
		surveyor:  opts.Surveyor,
		images:    opts.Images,
		video:     opts.Video,
		persister: opts.Persister,
		logger:    infra.OrDiscard(opts.Logger),
		metrics:   opts.Metrics,
		newID:     newID,
	}
}

// GuestID returns a fresh anonymous user id.
func GuestID() string {
	return guestPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Generate runs the full pipeline. It never panics on provider failure; the
// outcome, successful or not, is described by the returned result.
func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	if req.UserID == "" {
		req.UserID = GuestID()
	}
	id := s.newID()
	rationale := prompt.Rationale(id, req.Style, req.Scenario)
	logger := s.logger.With().Str("design", id).Str("style", string(req.Style)).Str("model", string(req.Model)).Logger()

	stored := s.persister.RecordStart(ctx, id, req, rationale)

	plan, seg := s.advise(ctx, req)

	composed := s.composer.Compose(prompt.Input{
		Style:         req.Style,
		Room:          req.RoomType,
		Scenario:      req.Scenario,
		CustomPrompt:  req.CustomPrompt,
		ArchitectPlan: plan,
	})

	result := domain.GenerationResult{Prompt: composed, Rationale: rationale}
	if stored {
		result.DesignID = id
	}

	if s.images == nil {
		result.Err = domain.ErrNoProvider
		result.Error = result.Err.Error()
	} else {
		out, err := s.images.Generate(ctx, image.Request{
			Prompt: composed,
			Image:  req.Image,
			Style:  req.Style,
			Model:  req.Model,
		})
		result.FallbackError = out.FallbackError
		if err != nil {
			result.Err = err
			result.Error = err.Error()
		} else {
			result.Success = true
			result.ImageURL = out.URL
			result.Provider = out.Provider
		}
	}

	if result.Success {
		logger.Info().Str("provider", result.Provider).Bool("plan", plan != "").Msg("design: generated")
	} else {
		logger.Warn().Err(result.Err).Str("fallback", result.FallbackError).Msg("design: generation failed")
	}

	if stored {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistGrace)
		defer cancel()
		s.persister.RecordComplete(pctx, id, result, seg)
	}
	return result
}

// advise runs the architect and surveyor concurrently. Both are optional and
// report absence rather than errors.
func (s *Service) advise(ctx context.Context, req domain.GenerationRequest) (string, *domain.SegmentationResult) {
	var (
		plan string
		seg  *domain.SegmentationResult
	)
	g, gctx := errgroup.WithContext(ctx)
	if s.analyzer != nil && strings.TrimSpace(req.CustomPrompt) != "" {
		g.Go(func() error {
			p, ok := s.analyzer.Analyze(gctx, req.Image, req.CustomPrompt)
			s.metrics.ObserveAdvisory("architect", ok)
			if ok {
				plan = p
			}
			return nil
		})
	}
	if s.surveyor != nil && req.HasImage() {
		g.Go(func() error {
			r, ok := s.surveyor.Segment(gctx, req.Image)
			s.metrics.ObserveAdvisory("surveyor", ok)
			if ok {
				seg = r
			}
			return nil
		})
	}
	_ = g.Wait()
	return plan, seg
}

// GenerateVideo animates a finished design image.
func (s *Service) GenerateVideo(ctx context.Context, imageURL string) domain.VideoResult {
	if s.video == nil {
		return domain.VideoResult{Error: "video generation is not configured"}
	}
	asset, err := s.video.Generate(ctx, imageURL)
	if err != nil {
		s.logger.Warn().Err(err).Msg("design: video generation failed")
		return domain.VideoResult{Error: err.Error(), Err: err}
	}
	return domain.VideoResult{Success: true, VideoURL: asset.URL}
}

// History lists a user's past designs.
func (s *Service) History(ctx context.Context, userID string) ([]domain.Design, error) {
	return s.persister.History(ctx, userID)
}

// IsHardFailure reports whether res failed because no provider could
// process the supplied photo.
func IsHardFailure(res domain.GenerationResult) bool {
	return errors.Is(res.Err, domain.ErrNoProvider)
}
