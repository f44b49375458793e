// Package architect asks a vision-language model for a furniture layout plan
// before generation. The plan is advisory: every failure yields ok=false.
package architect

import (
	"context"
	"fmt"
	"strings"

	"interiorai/internal/domain"
	"interiorai/internal/infra"
	"interiorai/internal/poll"
	"interiorai/internal/providers/replicate"
)

const planTemplate = `Role: Senior Interior Architect.
Task: Analyze this room's structure and empty spaces to plan furniture placement.
User Request: "%s"

Output Format:
1. Room Geometry: (e.g., "Rectangular room with bay windows on left")
2. Best Layout Plan: (e.g., "Place the sofa in the center facing the fireplace")
3. Structural Constraints: (e.g., "Avoid blocking the french doors")

Provide a concise, professional instruction for the 3D renderer.`

// Runner submits a prediction and polls it to completion.
type Runner interface {
	HasCredentials() bool
	Run(ctx context.Context, label, version string, input map[string]any, attempts int) (*domain.GenerationJob, error)
}

// Resolver picks the version to run for a catalog model.
type Resolver interface {
	ResolveRef(ctx context.Context, ref replicate.ModelRef) domain.ModelVersionRef
}

// Analyzer produces architectural plans with LLaVA.
type Analyzer struct {
	runner   Runner
	resolver Resolver
	model    replicate.ModelRef
	logger   *infra.Logger
}

func NewAnalyzer(runner Runner, resolver Resolver, logger *infra.Logger) *Analyzer {
	return &Analyzer{runner: runner, resolver: resolver, model: replicate.LLaVA, logger: infra.OrDiscard(logger)}
}

// Analyze returns a plan for image given the user's request. It is skipped
// when the request or image is empty or no credentials are configured.
func (a *Analyzer) Analyze(ctx context.Context, image, userRequest string) (string, bool) {
	userRequest = strings.TrimSpace(userRequest)
	if userRequest == "" || strings.TrimSpace(image) == "" || a.runner == nil || !a.runner.HasCredentials() {
		return "", false
	}

	ref := a.resolver.ResolveRef(ctx, a.model)
	job, err := a.runner.Run(ctx, a.model.Name, ref.VersionID, map[string]any{
		"image":      image,
		"prompt":     fmt.Sprintf(planTemplate, userRequest),
		"top_p":      1,
		"max_tokens": 150,
	}, poll.VisionAttempts)
	if err != nil {
		a.logger.Warn().Err(err).Str("version", ref.VersionID).Msg("architect: analysis failed")
		return "", false
	}

	plan, err := poll.OutputText(job)
	if err != nil || plan == "" {
		a.logger.Warn().Err(err).Msg("architect: unusable plan output")
		return "", false
	}
	a.logger.Debug().Int("chars", len(plan)).Msg("architect: plan ready")
	return plan, true
}
