// Package surveyor segments a room photo with SAM-2. The result is a
// supplementary signal; failures are logged and reported as ok=false.
package surveyor

import (
	"context"
	"strings"

	"github.com/mitchellh/mapstructure"

	"interiorai/internal/domain"
	"interiorai/internal/infra"
	"interiorai/internal/poll"
	"interiorai/internal/providers/replicate"
)

// Runner submits a prediction and polls it to completion.
type Runner interface {
	HasCredentials() bool
	Run(ctx context.Context, label, version string, input map[string]any, attempts int) (*domain.GenerationJob, error)
}

// Resolver looks up the latest version of a model.
type Resolver interface {
	Resolve(ctx context.Context, owner, name string) (string, bool)
}

type masks struct {
	CombinedMask    string   `mapstructure:"combined_mask"`
	IndividualMasks []string `mapstructure:"individual_masks"`
}

// Surveyor runs room segmentation.
type Surveyor struct {
	runner   Runner
	resolver Resolver
	primary  replicate.ModelRef
	mirror   replicate.ModelRef
	logger   *infra.Logger
}

func New(runner Runner, resolver Resolver, logger *infra.Logger) *Surveyor {
	return &Surveyor{
		runner:   runner,
		resolver: resolver,
		primary:  replicate.SegmentAnything,
		mirror:   replicate.SegmentAnythingMirror,
		logger:   infra.OrDiscard(logger),
	}
}

// Segment returns the segmentation of image.
func (s *Surveyor) Segment(ctx context.Context, image string) (*domain.SegmentationResult, bool) {
	if strings.TrimSpace(image) == "" || s.runner == nil || !s.runner.HasCredentials() {
		return nil, false
	}

	version := s.version(ctx)
	job, err := s.runner.Run(ctx, s.primary.Name, version, map[string]any{
		"image":            image,
		"multimask_output": true,
	}, poll.SegmentationAttempts)
	if err != nil {
		s.logger.Warn().Err(err).Str("version", version).Msg("surveyor: segmentation failed")
		return nil, false
	}
	if job.Output == nil {
		s.logger.Warn().Msg("surveyor: empty segmentation output")
		return nil, false
	}

	out := &domain.SegmentationResult{Raw: job.Output}
	var decoded masks
	if err := mapstructure.WeakDecode(job.Output, &decoded); err != nil {
		s.logger.Debug().Err(err).Msg("surveyor: output not in mask form, keeping raw")
	} else {
		out.CombinedMask = decoded.CombinedMask
		out.IndividualMasks = decoded.IndividualMasks
	}
	return out, true
}

// version tries the primary model, then the mirror, then the pinned id.
func (s *Surveyor) version(ctx context.Context) string {
	if s.resolver != nil {
		if v, ok := s.resolver.Resolve(ctx, s.primary.Owner, s.primary.Name); ok {
			return v
		}
		s.logger.Debug().Str("model", s.primary.Key()).Msg("surveyor: primary unavailable, trying mirror")
		if v, ok := s.resolver.Resolve(ctx, s.mirror.Owner, s.mirror.Name); ok {
			return v
		}
	}
	return s.primary.Pinned
}
