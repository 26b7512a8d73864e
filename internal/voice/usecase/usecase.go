package usecase

import (
	"context"
	"errors"

	"fitai-backend/internal/exercise"
)

var (
	ErrInvalidCue      = errors.New("invalid cue request")
	ErrPremiumRequired = errors.New("generated cues require a premium subscription")
	ErrTTSUnavailable  = errors.New("text-to-speech is not configured")
)

// CueRequest asks for one spoken coaching line. When Text is empty the line is generated.
type CueRequest struct {
	Exercise string `json:"exercise"`
	Phase    string `json:"phase,omitempty"`
	Reps     int    `json:"reps,omitempty"`
	Text     string `json:"text,omitempty"`
	Voice    string `json:"voice,omitempty"`
}

// CueAudio is the spoken cue as a WAV file
type CueAudio struct {
	Text       string
	Exercise   string
	WAV        []byte
	DurationMS int
	Generated  bool
}

// VoiceUsecase turns coaching cues into speech
type VoiceUsecase interface {
	Cue(ctx context.Context, userID string, req CueRequest) (*CueAudio, error)
}

// Synthesizer is the text-to-speech provider; it returns 24 kHz 16-bit mono PCM
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// ExerciseMatcher canonicalizes user-typed exercise names
type ExerciseMatcher interface {
	Match(name string) exercise.Result
}

