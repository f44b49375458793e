// Package prompt builds the layered generation prompt for a redesign request.
package prompt

import (
	"strings"

	"interiorai/internal/domain"
)

const (
	executionBlock = "Execution:\n" +
		"- Furniture Placement: Follow the Architect Plan above strictly.\n" +
		"- Density: Fully furnished, lived-in look, no empty spaces.\n" +
		"- Aesthetics: Cinematic lighting, professional photography, 8k, highly detailed textures, depth of field, Architectural Digest style."

	qualityLine = "Cinematic lighting, professional photography, highly detailed textures, depth of field, ray tracing, " +
		"Architectural Digest style, award-winning interior design, soft sunlight, 4k, hdr."

	negativeLine = "NEGATIVE PROMPT: poorly placed furniture, floating objects, extra doors, new windows, " +
		"changing room geometry, distorted perspective, bad anatomy, blurry, low resolution, ugly, deformed."
)

// Input is everything the composer needs for one prompt.
type Input struct {
	Style         domain.Style
	Room          domain.RoomType
	Scenario      domain.Scenario
	CustomPrompt  string
	ArchitectPlan string
}

// Composer turns an Input into prompt text. It is stateless apart from its
// vocabulary and safe for concurrent use.
type Composer struct {
	vocab *Vocabulary
}

// NewComposer returns a composer over vocab, or over the built-in vocabulary
// when vocab is nil.
func NewComposer(vocab *Vocabulary) *Composer {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Composer{vocab: vocab}
}

// Compose builds the prompt. Output depends only on in and the vocabulary.
func (c *Composer) Compose(in Input) string {
	var b strings.Builder

	b.WriteString("Role: Professional Interior Designer.\n")
	b.WriteString("Task: Redesign this room while preserving exact architectural geometry.\n")
	b.WriteString("Style: " + styleDescription(in.Style) + " " + roomDescription(in.Room) + ".\n")
	b.WriteString("Scenario: " + strings.TrimSuffix(scenarioDescription(in.Scenario), ".") + ".\n")

	if plan := strings.TrimSpace(in.ArchitectPlan); plan != "" {
		b.WriteString("ARCHITECTURAL PLAN (MUST FOLLOW): " + plan + "\n")
	}
	b.WriteString(executionBlock + "\n")

	if custom := strings.TrimSpace(in.CustomPrompt); custom != "" {
		b.WriteString("User Request: " + custom + ". IMPORTANT: Follow user request strictly.\n")
		if objects := c.vocab.Objects(custom); len(objects) > 0 {
			b.WriteString("Mandatory Objects: " + strings.Join(objects, ", ") + ".\n")
		}
		if rules := c.vocab.Instructions(custom); len(rules) > 0 {
			b.WriteString("Spatial Layout Instructions: " + strings.Join(rules, ". ") + ". IMPORTANT: Respect these positions exactly.\n")
		}
	}

	b.WriteString(qualityLine + "\n")
	b.WriteString(negativeLine)
	return b.String()
}

// Compose builds a prompt with the built-in vocabulary.
func Compose(style domain.Style, room domain.RoomType, scenario domain.Scenario, customPrompt, architectPlan string) string {
	return NewComposer(nil).Compose(Input{
		Style:         style,
		Room:          room,
		Scenario:      scenario,
		CustomPrompt:  customPrompt,
		ArchitectPlan: architectPlan,
	})
}

// Instruction is the short edit instruction used by instruction-following
// image editors.
func Instruction(style domain.Style) string {
	return "turn this room into " + string(style) + " style"
}
