package usecase

import (
	"context"
	"errors"
	"testing"

	"fitai-backend/internal/exercise"
	userdomain "fitai-backend/internal/user/domain"
	userrepo "fitai-backend/internal/user/repository"
	"fitai-backend/pkg/ai"
)

type fakeTTS struct {
	text  string
	voice string
	err   error
}

func (f *fakeTTS) Synthesize(_ context.Context, text, voice string) ([]byte, error) {
	f.text, f.voice = text, voice
	if f.err != nil {
		return nil, f.err
	}
	return make([]byte, 4800), nil // 100ms
}

type fakeCoach struct {
	got   ai.CueContext
	reply string
	err   error
}

func (f *fakeCoach) GenerateCue(_ context.Context, c ai.CueContext) (string, error) {
	f.got = c
	return f.reply, f.err
}

func setup(t *testing.T, coach ai.CoachService, tts Synthesizer) VoiceUsecase {
	t.Helper()
	ctx := context.Background()
	users := userrepo.NewMemoryUserRepository()
	_ = users.Create(ctx, &userdomain.User{ID: "pro", DisplayName: "Ana Lima", IsPremium: true})
	_ = users.Create(ctx, &userdomain.User{ID: "free", DisplayName: "Bo"})

	m, err := exercise.NewDefaultMatcher()
	if err != nil {
		t.Fatal(err)
	}
	return NewVoiceUsecase(users, coach, tts, m, "Kore")
}

func TestCueWithText(t *testing.T) {
	tts := &fakeTTS{}
	uc := setup(t, nil, tts)

	out, err := uc.Cue(context.Background(), "free", CueRequest{Text: "  Last set, give it everything  "})
	if err != nil {
		t.Fatalf("Cue: %v", err)
	}
	if out.Generated || out.Text != "Last set, give it everything" || tts.voice != "Kore" {
		t.Fatalf("unexpected cue %+v voice %q", out, tts.voice)
	}
	if string(out.WAV[:4]) != "RIFF" || out.DurationMS != 100 {
		t.Fatalf("expected a 100ms wav, got %d bytes %dms", len(out.WAV), out.DurationMS)
	}
}

func TestCueGenerated(t *testing.T) {
	coach := &fakeCoach{reply: "Sit back and drive up, Ana."}
	tts := &fakeTTS{}
	uc := setup(t, coach, tts)

	out, err := uc.Cue(context.Background(), "pro", CueRequest{Exercise: "squats", Reps: 5, Voice: "Puck"})
	if err != nil {
		t.Fatalf("Cue: %v", err)
	}
	if !out.Generated || out.Text != coach.reply || tts.text != coach.reply {
		t.Fatalf("unexpected cue %+v", out)
	}
	if coach.got.Exercise != "Back Squat" || coach.got.Muscle != "quadriceps" || coach.got.Name != "Ana" {
		t.Fatalf("expected a canonical exercise in the prompt context, got %+v", coach.got)
	}
	if tts.voice != "Puck" {
		t.Fatalf("expected the requested voice, got %q", tts.voice)
	}
}

func TestCueGenerationFallsBack(t *testing.T) {
	uc := setup(t, &fakeCoach{err: errors.New("quota")}, &fakeTTS{})
	out, err := uc.Cue(context.Background(), "pro", CueRequest{Exercise: "Deadlift", Phase: "rest"})
	if err != nil {
		t.Fatalf("Cue: %v", err)
	}
	if out.Text == "" || !out.Generated {
		t.Fatalf("expected a built-in phrase, got %+v", out)
	}
}

func TestCueErrors(t *testing.T) {
	tests := []struct {
		name   string
		user   string
		req    CueRequest
		tts    Synthesizer
		target error
	}{
		{"free user cannot generate", "free", CueRequest{Exercise: "Plank"}, &fakeTTS{}, ErrPremiumRequired},
		{"unknown user cannot generate", "ghost", CueRequest{Exercise: "Plank"}, &fakeTTS{}, ErrPremiumRequired},
		{"nothing to say", "pro", CueRequest{}, &fakeTTS{}, ErrInvalidCue},
		{"unknown voice", "pro", CueRequest{Text: "go", Voice: "Robot"}, &fakeTTS{}, ErrInvalidCue},
		{"no tts", "pro", CueRequest{Text: "go"}, nil, ErrTTSUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := setup(t, &fakeCoach{reply: "x"}, tt.tts)
			if _, err := uc.Cue(context.Background(), tt.user, tt.req); !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
		})
	}
}
