package replicate

// ModelRef names a hosted model and the version to run when the registry
// cannot be consulted.
type ModelRef struct {
	Owner  string
	Name   string
	Pinned string
	// Dynamic refs resolve the registry's latest version first.
	Dynamic bool
}

// Key returns "owner/name".
func (m ModelRef) Key() string {
	return m.Owner + "/" + m.Name
}

// Models used by the pipeline. Pinned ids are known-good snapshots; the
// versionwatch command reports when the registry has moved past them.
var (
	FluxDepth = ModelRef{
		Owner:   "black-forest-labs",
		Name:    "flux-depth-dev",
		Pinned:  "ae2b5597113075d385b2d194d805c31757879685123123",
		Dynamic: true,
	}
	ControlNetCanny = ModelRef{
		Owner:  "jagilley",
		Name:   "controlnet-canny",
		Pinned: "aff48af9c68d162388d230a2ab003f68d2638d88307bdaf1c2f1ac95079c9613",
	}
	LLaVA = ModelRef{
		Owner:   "yorickvp",
		Name:    "llava-13b",
		Pinned:  "e272157381e2a3bf12df3a8edd1f38d1dbd736bbb7437277c8b34175f8fce358",
		Dynamic: true,
	}
	SegmentAnything = ModelRef{
		Owner:   "facebook",
		Name:    "segment-anything-2",
		Pinned:  "9d1a3c00dcccc451631d8ce52207b533f8cf742962363574d754378772960655",
		Dynamic: true,
	}
	SegmentAnythingMirror = ModelRef{
		Owner:   "ijulius",
		Name:    "segment-anything-2",
		Pinned:  "9d1a3c00dcccc451631d8ce52207b533f8cf742962363574d754378772960655",
		Dynamic: true,
	}
	StableVideoDiffusion = ModelRef{
		Owner:  "stability-ai",
		Name:   "stable-video-diffusion",
		Pinned: "3f0457e4619daac51203dedb472816f3af3123d6c3263ddad97f3d748a255563",
	}
)

// Catalog lists every model the pipeline may run.
var Catalog = []ModelRef{FluxDepth, ControlNetCanny, LLaVA, SegmentAnything, SegmentAnythingMirror, StableVideoDiffusion}

// LookupRef finds a catalog entry by "owner/name".
func LookupRef(key string) (ModelRef, bool) {
	for _, ref := range Catalog {
		if ref.Key() == key {
			return ref, true
		}
	}
	return ModelRef{}, false
}
