package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	userrepo "fitai-backend/internal/user/repository"
	"fitai-backend/pkg/ai"
	"fitai-backend/pkg/audio"
	"fitai-backend/pkg/logging"
	"fitai-backend/pkg/metrics"
)

const maxCueTextLength = 300

// Voices offered by the Gemini prebuilt voice set that the app exposes
var allowedVoices = map[string]bool{
	"Kore": true, "Puck": true, "Charon": true, "Fenrir": true, "Aoede": true, "Leda": true, "Orus": true, "Zephyr": true,
}

type voiceUsecase struct {
	userRepo     userrepo.UserRepository
	coach        ai.CoachService
	tts          Synthesizer
	matcher      ExerciseMatcher
	defaultVoice string
}

// NewVoiceUsecase creates a new instance of voiceUsecase. coach may be nil, in
// which case generated cues use built-in phrases; matcher may be nil.
func NewVoiceUsecase(userRepo userrepo.UserRepository, coach ai.CoachService, tts Synthesizer, matcher ExerciseMatcher, defaultVoice string) VoiceUsecase {
	return &voiceUsecase{
		userRepo:     userRepo,
		coach:        coach,
		tts:          tts,
		matcher:      matcher,
		defaultVoice: defaultVoice,
	}
}

func (u *voiceUsecase) Cue(ctx context.Context, userID string, req CueRequest) (*CueAudio, error) {
	audioOut, err := u.cue(ctx, userID, req)
	metrics.IncVoiceCue(err == nil)
	return audioOut, err
}

func (u *voiceUsecase) cue(ctx context.Context, userID string, req CueRequest) (*CueAudio, error) {
	log := logging.Component("voice")
	if u.tts == nil {
		return nil, ErrTTSUnavailable
	}

	voice := req.Voice
	if voice == "" {
		voice = u.defaultVoice
	}
	if voice != "" && !allowedVoices[voice] {
		return nil, fmt.Errorf("%w: unknown voice %q", ErrInvalidCue, voice)
	}

	text := strings.TrimSpace(req.Text)
	if utf8.RuneCountInString(text) > maxCueTextLength {
		return nil, fmt.Errorf("%w: text must be at most %d characters", ErrInvalidCue, maxCueTextLength)
	}

	exerciseName := strings.TrimSpace(req.Exercise)
	muscle := ""
	if exerciseName != "" && u.matcher != nil {
		if m := u.matcher.Match(exerciseName); m.Matched {
			exerciseName, muscle = m.Canonical, m.Muscle
		}
	}

	out := &CueAudio{Text: text, Exercise: exerciseName}
	if text == "" {
		if exerciseName == "" {
			return nil, fmt.Errorf("%w: exercise or text is required", ErrInvalidCue)
		}
		user, err := u.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user == nil || !user.IsPremium {
			return nil, ErrPremiumRequired
		}

		cueCtx := ai.CueContext{Exercise: exerciseName, Muscle: muscle, Phase: req.Phase, Reps: req.Reps, Name: firstName(user.DisplayName)}
		out.Text = fallbackCue(cueCtx)
		if u.coach != nil {
			generated, err := u.coach.GenerateCue(ctx, cueCtx)
			if err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("cue generation failed, using built-in phrase")
			} else {
				out.Text = generated
			}
		}
		out.Generated = true
	}

	pcm, err := u.tts.Synthesize(ctx, out.Text, voice)
	if err != nil {
		return nil, fmt.Errorf("synthesize cue: %w", err)
	}
	wav, err := audio.WrapWAV(pcm, audio.GeminiTTS)
	if err != nil {
		return nil, fmt.Errorf("wrap cue audio: %w", err)
	}
	out.WAV = wav
	out.DurationMS = audio.Duration(len(pcm), audio.GeminiTTS)

	log.Debug().Str("user_id", userID).Bool("generated", out.Generated).Int("duration_ms", out.DurationMS).Msg("voice cue synthesized")
	return out, nil
}

func firstName(displayName string) string {
	if f := strings.Fields(displayName); len(f) > 0 {
		return f[0]
	}
	return ""
}

// fallbackCue is spoken when no text provider answers
func fallbackCue(c ai.CueContext) string {
	switch strings.ToLower(c.Phase) {
	case "warmup":
		return fmt.Sprintf("Easy warm-up on the %s. Focus on smooth, controlled reps.", strings.ToLower(c.Exercise))
	case "rest":
		return "Breathe deep and shake it out. Next set is coming up."
	case "cooldown":
		return "Great session. Slow your breathing and stretch it out."
	}
	if c.Reps > 0 {
		return fmt.Sprintf("%d reps of %s. Stay tight and own every rep.", c.Reps, strings.ToLower(c.Exercise))
	}
	return fmt.Sprintf("Strong %s. Stay tight and own every rep.", strings.ToLower(c.Exercise))
}
