package image

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interiorai/internal/domain"
	"interiorai/internal/infra"
	"interiorai/internal/metrics"
)

// Result is the chain's outcome. FallbackError lists the failures of tiers
// tried before the winner, or of every tier when none succeeded.
type Result struct {
	Output
	FallbackError string
}

// Chain tries tiers in order and returns the first success.
type Chain struct {
	tiers   []Tier
	logger  *infra.Logger
	metrics *metrics.Collector
}

func NewChain(logger *infra.Logger, m *metrics.Collector, tiers ...Tier) *Chain {
	return &Chain{tiers: tiers, logger: infra.OrDiscard(logger), metrics: m}
}

// Generate runs the chain. Unavailable tiers are skipped without a trail
// entry. When a photo was supplied and no tier produced an image the error
// wraps domain.ErrNoProvider; the chain never degrades to text-only output
// for an image request because text-only tiers are unavailable then.
func (c *Chain) Generate(ctx context.Context, req Request) (Result, error) {
	var trail []string
	for _, tier := range c.tiers {
		if !tier.Available(req) {
			c.metrics.ObserveTier(tier.Label(), "skipped", 0)
			continue
		}
		start := time.Now()
		out, err := tier.Generate(ctx, req)
		took := time.Since(start)
		if err != nil {
			c.metrics.ObserveTier(tier.Label(), "error", took)
			c.logger.Warn().Err(err).Str("tier", tier.Label()).Dur("took", took).Msg("image: tier failed")
			trail = append(trail, tier.Label()+": "+err.Error())
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{FallbackError: joinTrail(trail)}, ctxErr
			}
			continue
		}
		c.metrics.ObserveTier(tier.Label(), "ok", took)
		c.logger.Info().Str("provider", out.Provider).Dur("took", took).Msg("image: generated")
		return Result{Output: out, FallbackError: joinTrail(trail)}, nil
	}

	fallback := joinTrail(trail)
	if fallback == "" {
		return Result{}, domain.ErrNoProvider
	}
	return Result{FallbackError: fallback}, fmt.Errorf("%w: %s", domain.ErrNoProvider, fallback)
}

func joinTrail(trail []string) string {
	return strings.Join(trail, " | ")
}
