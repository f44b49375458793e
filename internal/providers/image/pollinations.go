package image

import (
	"context"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
)

// PollinationsTier builds a render-on-demand URL from the prompt alone. It
// makes no network call and is only offered when no photo was supplied.
type PollinationsTier struct {
	baseURL string
	seed    func() int
}

// NewPollinationsTier returns the tier. seed may be nil for a random seed.
func NewPollinationsTier(baseURL string, seed func() int) *PollinationsTier {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "https://pollinations.ai"
	}
	if seed == nil {
		seed = func() int { return rand.IntN(1_000_000) }
	}
	return &PollinationsTier{baseURL: baseURL, seed: seed}
}

func (t *PollinationsTier) Label() string { return "Pollinations" }

func (t *PollinationsTier) Available(req Request) bool {
	return !req.HasImage()
}

func (t *PollinationsTier) Generate(ctx context.Context, req Request) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	query := "width=1024&height=576&seed=" + strconv.Itoa(t.seed()) + "&model=flux"
	return Output{
		URL:      t.baseURL + "/p/" + url.PathEscape(req.Prompt) + "?" + query,
		Provider: ProviderPollinations,
	}, nil
}
