package ai

import (
	"context"
	"fmt"
	"strings"
)

// providerCoach writes cues with a single TextProvider
type providerCoach struct {
	provider TextProvider
}

// NewCoachService wraps a provider as a CoachService
func NewCoachService(provider TextProvider) CoachService {
	return &providerCoach{provider: provider}
}

func (p *providerCoach) GenerateCue(ctx context.Context, cue CueContext) (string, error) {
	if strings.TrimSpace(cue.Exercise) == "" {
		return "", fmt.Errorf("exercise is required")
	}
	text, err := p.provider.Generate(ctx, coachSystemPrompt, buildCuePrompt(cue))
	if err != nil {
		return "", err
	}
	text = cleanCue(text)
	if text == "" {
		return "", fmt.Errorf("empty cue returned")
	}
	return text, nil
}
