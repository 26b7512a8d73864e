package ai

import "context"

// CueContext describes the moment of the workout a cue is written for
type CueContext struct {
	Exercise string `json:"exercise"`
	Muscle   string `json:"muscle,omitempty"`
	Phase    string `json:"phase,omitempty"` // warmup, set, rest, cooldown
	Reps     int    `json:"reps,omitempty"`
	Name     string `json:"name,omitempty"` // athlete's first name
}

// TextProvider is one generative-text backend.
// Implement this interface to add new AI providers.
type TextProvider interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// CoachService writes short spoken coaching lines
type CoachService interface {
	GenerateCue(ctx context.Context, cue CueContext) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini     ProviderType = "gemini"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderAuto       ProviderType = "auto"
)

// Valid reports whether p names a known provider
func (p ProviderType) Valid() bool {
	switch p {
	case ProviderGemini, ProviderOpenRouter, ProviderAuto:
		return true
	}
	return false
}
