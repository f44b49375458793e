package image

import (
	"context"
	"fmt"

	"interiorai/internal/domain"
	"interiorai/internal/poll"
	"interiorai/internal/providers/replicate"
)

// Runner submits a prediction and polls it to completion.
type Runner interface {
	HasCredentials() bool
	Run(ctx context.Context, label, version string, input map[string]any, attempts int) (*domain.GenerationJob, error)
}

// VersionResolver picks the version to run for a catalog model.
type VersionResolver interface {
	ResolveRef(ctx context.Context, ref replicate.ModelRef) domain.ModelVersionRef
}

const (
	controlNetAddedPrompt = "best quality, extremely detailed, photo from the future, cinematic lighting, photorealistic, 8k, hdr, unity 8k wallpaper"
	controlNetNegative    = "longbody, lowres, bad anatomy, bad hands, missing fingers, extra digit, fewer digits, cropped, " +
		"worst quality, low quality, glitch, deformed, mutated, ugly, blur, pixelated, text, watermark, signature"
)

// ReplicateTier runs structure-preserving generation on Replicate: flux
// depth for the flux model choice, ControlNet canny for every other choice.
type ReplicateTier struct {
	runner   Runner
	resolver VersionResolver
}

func NewReplicateTier(runner Runner, resolver VersionResolver) *ReplicateTier {
	return &ReplicateTier{runner: runner, resolver: resolver}
}

func (t *ReplicateTier) Label() string { return "Replicate" }

func (t *ReplicateTier) Available(req Request) bool {
	return t.runner != nil && t.runner.HasCredentials() && req.HasImage()
}

func (t *ReplicateTier) Generate(ctx context.Context, req Request) (Output, error) {
	switch req.Model.Strategy() {
	case domain.StrategyDepth:
		return t.depth(ctx, req)
	default:
		return t.canny(ctx, req)
	}
}

func (t *ReplicateTier) depth(ctx context.Context, req Request) (Output, error) {
	ref := t.resolver.ResolveRef(ctx, replicate.FluxDepth)
	job, err := t.runner.Run(ctx, ref.Name, ref.VersionID, map[string]any{
		"prompt":              req.Prompt,
		"control_image":       req.Image,
		"strength":            0.45,
		"guidance":            5.0,
		"num_inference_steps": 28,
		"output_quality":      90,
	}, poll.ImageAttempts)
	if err != nil {
		return Output{}, fmt.Errorf("flux: %w", err)
	}
	url, err := poll.OutputAt(job, 0)
	if err != nil {
		return Output{}, fmt.Errorf("flux: %w", err)
	}
	return Output{URL: url, Provider: ProviderReplicateFlux}, nil
}

// canny output is [edge map, generated image].
func (t *ReplicateTier) canny(ctx context.Context, req Request) (Output, error) {
	ref := t.resolver.ResolveRef(ctx, replicate.ControlNetCanny)
	job, err := t.runner.Run(ctx, ref.Name, ref.VersionID, map[string]any{
		"image":            req.Image,
		"prompt":           req.Prompt,
		"a_prompt":         controlNetAddedPrompt,
		"n_prompt":         controlNetNegative,
		"structure":        "canny",
		"num_samples":      "1",
		"image_resolution": "512",
		"ddim_steps":       30,
		"scale":            9,
		"eta":              0.0,
	}, poll.ControlNetAttempts)
	if err != nil {
		return Output{}, fmt.Errorf("controlnet: %w", err)
	}
	url, err := poll.OutputAt(job, 1)
	if err != nil {
		return Output{}, fmt.Errorf("controlnet: %w", err)
	}
	return Output{URL: url, Provider: ProviderReplicateControlNet}, nil
}
