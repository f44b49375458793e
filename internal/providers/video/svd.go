package video

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"interiorai/internal/domain"
	"interiorai/internal/poll"
	"interiorai/internal/providers/replicate"
)

// ErrNoImage is returned when no source image URL is given.
var ErrNoImage = errors.New("video: image url is required")

// Runner submits a prediction and polls it to completion.
type Runner interface {
	HasCredentials() bool
	Run(ctx context.Context, label, version string, input map[string]any, attempts int) (*domain.GenerationJob, error)
}

// VersionResolver picks the version to run for a catalog model.
type VersionResolver interface {
	ResolveRef(ctx context.Context, ref replicate.ModelRef) domain.ModelVersionRef
}

const svdFrames = 14

// SVD renders clips with Stable Video Diffusion on Replicate.
type SVD struct {
	runner   Runner
	resolver VersionResolver
}

func NewSVD(runner Runner, resolver VersionResolver) *SVD {
	return &SVD{runner: runner, resolver: resolver}
}

func (s *SVD) Generate(ctx context.Context, imageURL string) (*Asset, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, ErrNoImage
	}
	if s.runner == nil || !s.runner.HasCredentials() {
		return nil, replicate.ErrMissingAPIKey
	}

	ref := s.resolver.ResolveRef(ctx, replicate.StableVideoDiffusion)
	job, err := s.runner.Run(ctx, ref.Name, ref.VersionID, map[string]any{
		"input_image":       imageURL,
		"video_length":      "14_frames_with_svd_xt",
		"sizing_strategy":   "maintain_aspect_ratio",
		"frames_per_second": 6,
		"motion_bucket_id":  127,
		"cond_aug":          0.02,
	}, poll.VideoAttempts)
	if err != nil {
		return nil, fmt.Errorf("video: %w", err)
	}
	url, err := poll.OutputString(job)
	if err != nil {
		return nil, fmt.Errorf("video: %w", err)
	}
	return &Asset{URL: url, Format: "video/mp4", Frames: svdFrames}, nil
}

var _ Generator = (*SVD)(nil)
