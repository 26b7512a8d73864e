package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubProvider struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (s *stubProvider) Generate(_ context.Context, _, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.reply, s.err
}

func TestFallbackService(t *testing.T) {
	ctx := context.Background()

	primary := &stubProvider{reply: "from gemini"}
	secondary := &stubProvider{reply: "from openrouter"}
	got, err := NewFallbackService(primary, "gemini", secondary, "openrouter").Generate(ctx, "", "p")
	if err != nil || got != "from gemini" || secondary.calls != 0 {
		t.Fatalf("expected primary only, got %q %v (secondary calls %d)", got, err, secondary.calls)
	}

	primary = &stubProvider{err: errors.New("gemini API error (429): RESOURCE_EXHAUSTED")}
	got, err = NewFallbackService(primary, "gemini", secondary, "openrouter").Generate(ctx, "", "p")
	if err != nil || got != "from openrouter" {
		t.Fatalf("expected fallback, got %q %v", got, err)
	}

	secondary = &stubProvider{err: errors.New("dial tcp: connection refused")}
	_, err = NewFallbackService(primary, "gemini", secondary, "openrouter").Generate(ctx, "", "p")
	if err == nil || !strings.Contains(err.Error(), "gemini") || !strings.Contains(err.Error(), "openrouter") {
		t.Fatalf("expected both failures reported, got %v", err)
	}

	if _, err := NewFallbackService(nil, "gemini", nil, "openrouter").Generate(ctx, "", "p"); err == nil {
		t.Fatal("expected an error with no providers")
	}
}

func TestErrorClassification(t *testing.T) {
	if !isQuotaError(errors.New("Too Many Requests")) || isQuotaError(errors.New("bad request")) {
		t.Fatal("quota classification")
	}
	if !isConnectionError(errors.New("dial tcp 1.2.3.4: i/o timeout")) || isConnectionError(nil) {
		t.Fatal("connection classification")
	}
	if reason(errors.New("boom")) != "error" {
		t.Fatal("expected generic reason")
	}
}

func TestCoachServiceCleansReply(t *testing.T) {
	p := &stubProvider{reply: "\"Drive the floor away, Ana!\"\nSecond line ignored"}
	cue, err := NewCoachService(p).GenerateCue(context.Background(), CueContext{Exercise: "Back Squat", Reps: 5, Name: "Ana"})
	if err != nil {
		t.Fatalf("GenerateCue: %v", err)
	}
	if cue != "Drive the floor away, Ana!" {
		t.Fatalf("unexpected cue %q", cue)
	}
	if !strings.Contains(p.prompt, "Exercise: Back Squat") || !strings.Contains(p.prompt, "Reps in this set: 5") {
		t.Fatalf("prompt missing context: %q", p.prompt)
	}

	if _, err := NewCoachService(p).GenerateCue(context.Background(), CueContext{}); err == nil {
		t.Fatal("expected an error without an exercise")
	}
	if _, err := NewCoachService(&stubProvider{reply: "  \"\" "}).GenerateCue(context.Background(), CueContext{Exercise: "Plank"}); err == nil {
		t.Fatal("expected an error for an empty reply")
	}
}

func TestCleanCueTruncates(t *testing.T) {
	long := strings.Repeat("keep going strong ", 20)
	got := cleanCue(long)
	if len([]rune(got)) > maxCueLength+1 || !strings.HasSuffix(got, ".") {
		t.Fatalf("expected a truncated sentence, got %q", got)
	}
}

func TestRouterHonoursRuntimeProvider(t *testing.T) {
	g := &stubProvider{reply: "g"}
	o := &stubProvider{reply: "o"}
	provider := ProviderOpenRouter
	r := &router{gemini: g, openrouter: o, getProvider: func() ProviderType { return provider }}

	if got, _ := r.Generate(context.Background(), "", "p"); got != "o" {
		t.Fatalf("expected openrouter, got %q", got)
	}
	provider = ProviderGemini
	if got, _ := r.Generate(context.Background(), "", "p"); got != "g" {
		t.Fatalf("expected gemini, got %q", got)
	}
	provider = ProviderAuto
	g.err = errors.New("quota")
	if got, _ := r.Generate(context.Background(), "", "p"); got != "o" {
		t.Fatalf("expected auto fallback to openrouter, got %q", got)
	}

	if _, err := (&router{getProvider: func() ProviderType { return ProviderGemini }}).Generate(context.Background(), "", "p"); err == nil {
		t.Fatal("expected an error for an unconfigured provider")
	}
}

func TestNewTextProviderRequiresAKey(t *testing.T) {
	if _, err := NewTextProvider(Config{Provider: ProviderAuto}); err == nil {
		t.Fatal("expected an error without any api key")
	}
	if _, err := NewTextProvider(Config{Provider: ProviderAuto, OpenRouterAPIKey: "k"}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !ProviderAuto.Valid() || ProviderType("ollama").Valid() {
		t.Fatal("provider validation")
	}
}
