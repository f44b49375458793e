package domain

import (
	"strings"
	"time"
)

// Style enumerates the supported interior design styles.
type Style string

const (
	StyleModern       Style = "modern"
	StyleIndustrial   Style = "industrial"
	StyleScandinavian Style = "scandinavian"
	StyleBohemian     Style = "bohemian"
	StyleArtDeco      Style = "artdeco"
	StyleMinimalist   Style = "minimalist"
	StyleTraditional  Style = "traditional"
	StyleRustic       Style = "rustic"
)

// Styles lists every style in presentation order.
var Styles = []Style{
	StyleModern, StyleIndustrial, StyleScandinavian, StyleBohemian,
	StyleArtDeco, StyleMinimalist, StyleTraditional, StyleRustic,
}

// ParseStyle maps free-form input onto a Style. Unknown values fall back to
// StyleModern.
func ParseStyle(raw string) Style {
	key := normalizeKey(raw)
	if key == "art_deco" {
		return StyleArtDeco
	}
	for _, s := range Styles {
		if string(s) == key {
			return s
		}
	}
	return StyleModern
}

// RoomType enumerates the room categories a design can target.
type RoomType string

const (
	RoomLivingRoom RoomType = "living_room"
	RoomBedroom    RoomType = "bedroom"
	RoomKitchen    RoomType = "kitchen"
	RoomBathroom   RoomType = "bathroom"
	RoomOffice     RoomType = "office"
	RoomDining     RoomType = "dining"
)

var RoomTypes = []RoomType{RoomLivingRoom, RoomBedroom, RoomKitchen, RoomBathroom, RoomOffice, RoomDining}

// ParseRoomType falls back to RoomLivingRoom for unknown input.
func ParseRoomType(raw string) RoomType {
	key := normalizeKey(raw)
	for _, r := range RoomTypes {
		if string(r) == key {
			return r
		}
	}
	return RoomLivingRoom
}

// Scenario enumerates usage scenarios that shape layout and atmosphere.
type Scenario string

const (
	ScenarioLiving    Scenario = "living"
	ScenarioCinema    Scenario = "cinema"
	ScenarioHosting   Scenario = "hosting"
	ScenarioWorkspace Scenario = "workspace"
	ScenarioRelaxing  Scenario = "relaxing"
	ScenarioLuxury    Scenario = "luxury"
	ScenarioGaming    Scenario = "gaming"
)

var Scenarios = []Scenario{
	ScenarioLiving, ScenarioCinema, ScenarioHosting, ScenarioWorkspace,
	ScenarioRelaxing, ScenarioLuxury, ScenarioGaming,
}

// ParseScenario falls back to ScenarioLiving for unknown input.
func ParseScenario(raw string) Scenario {
	key := normalizeKey(raw)
	for _, s := range Scenarios {
		if string(s) == key {
			return s
		}
	}
	return ScenarioLiving
}

// ModelChoice is the client's generation model preference.
type ModelChoice string

const (
	ModelFlux        ModelChoice = "flux"
	ModelFluxRealism ModelChoice = "flux-realism"
	ModelFluxAnime   ModelChoice = "flux-anime"
	ModelTurbo       ModelChoice = "turbo"
	ModelControlNet  ModelChoice = "controlnet"
)

var ModelChoices = []ModelChoice{ModelFlux, ModelFluxRealism, ModelFluxAnime, ModelTurbo, ModelControlNet}

// ParseModelChoice falls back to ModelFlux for unknown input.
func ParseModelChoice(raw string) ModelChoice {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, m := range ModelChoices {
		if string(m) == key {
			return m
		}
	}
	return ModelFlux
}

// Strategy selects the structure-preserving generation technique.
type Strategy int

const (
	// StrategyDepth conditions on a depth map of the input photo.
	StrategyDepth Strategy = iota
	// StrategyCanny conditions on an edge map of the input photo.
	StrategyCanny
)

// Strategy returns the technique used for m. Only flux, which is also the
// zero-value default, runs on depth.
func (m ModelChoice) Strategy() Strategy {
	switch m {
	case ModelFlux, "":
		return StrategyDepth
	default:
		return StrategyCanny
	}
}

// GenerationRequest is one redesign request.
type GenerationRequest struct {
	UserID       string
	Image        string
	Style        Style
	RoomType     RoomType
	Scenario     Scenario
	CustomPrompt string
	Model        ModelChoice
}

// HasImage reports whether a source photo was supplied.
func (r GenerationRequest) HasImage() bool {
	return strings.TrimSpace(r.Image) != ""
}

// ModelVersionRef identifies a hosted model and the version to run.
type ModelVersionRef struct {
	Owner     string
	Name      string
	VersionID string
}

// Key returns the "owner/name" form used by the registry.
func (r ModelVersionRef) Key() string {
	return r.Owner + "/" + r.Name
}

// SegmentationResult is the decoded output of the room surveyor.
type SegmentationResult struct {
	CombinedMask    string
	IndividualMasks []string
	Raw             any
}

// GenerationResult is the outcome of one pipeline run.
type GenerationResult struct {
	Success       bool   `json:"success"`
	DesignID      string `json:"designId,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	Provider      string `json:"provider,omitempty"`
	Prompt        string `json:"prompt,omitempty"`
	Rationale     string `json:"designRationale,omitempty"`
	Error         string `json:"error,omitempty"`
	FallbackError string `json:"fallbackError,omitempty"`
	// Err is the typed cause behind Error.
	Err error `json:"-"`
}

// VideoResult is the outcome of animating a finished design.
type VideoResult struct {
	Success  bool   `json:"success"`
	VideoURL string `json:"videoUrl,omitempty"`
	Error    string `json:"error,omitempty"`
	Err      error  `json:"-"`
}

// Design is a persisted generation record read back for history views.
type Design struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"userId"`
	Style               string    `json:"style"`
	RoomType            string    `json:"roomType"`
	Scenario            string    `json:"scenario"`
	CustomPrompt        string    `json:"customPrompt,omitempty"`
	DesignRationale     string    `json:"designRationale,omitempty"`
	Status              string    `json:"status"`
	AIGeneratedImageURL string    `json:"aiGeneratedImageUrl,omitempty"`
	Provider            string    `json:"provider,omitempty"`
	ModelUsed           string    `json:"modelUsed,omitempty"`
	Error               string    `json:"error,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

func normalizeKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", "_")
	return strings.ReplaceAll(key, " ", "_")
}
