// Package image implements the prioritised chain of image generation tiers.
package image

import (
	"context"
	"strings"

	"interiorai/internal/domain"
)

// Provider tags reported in results.
const (
	ProviderReplicateFlux       = "replicate-flux"
	ProviderReplicateControlNet = "replicate-controlnet"
	ProviderHuggingFacePix2Pix  = "huggingface-pix2pix"
	ProviderPollinations        = "pollinations-fallback"
)

// Request is what every tier receives.
type Request struct {
	Prompt string
	// Image is the source photo as a data URI or URL; empty for text-only.
	Image string
	Style domain.Style
	Model domain.ModelChoice
}

// HasImage reports whether a source photo was supplied.
func (r Request) HasImage() bool {
	return strings.TrimSpace(r.Image) != ""
}

// Output is a generated artifact and the provider that produced it.
type Output struct {
	URL      string
	Provider string
}

// Tier is one backend in the chain.
type Tier interface {
	// Label names the tier in failure trails and metrics.
	Label() string
	// Available reports whether the tier may run for req.
	Available(req Request) bool
	Generate(ctx context.Context, req Request) (Output, error)
}
