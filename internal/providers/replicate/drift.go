package replicate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Drift compares a catalog entry's pinned version with the registry.
type Drift struct {
	Ref    ModelRef
	Latest string
	Err    error
}

// Drifted reports whether the registry has a newer version than the pin.
func (d Drift) Drifted() bool {
	return d.Err == nil && d.Latest != "" && d.Latest != d.Ref.Pinned
}

// CheckDrift looks up the latest version of every ref concurrently. Lookup
// failures are recorded per entry; results keep the order of refs.
func CheckDrift(ctx context.Context, lookup VersionLookup, refs []ModelRef) []Drift {
	out := make([]Drift, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, ref := range refs {
		g.Go(func() error {
			latest, err := lookup.LatestVersion(gctx, ref.Owner, ref.Name)
			out[i] = Drift{Ref: ref, Latest: latest, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
