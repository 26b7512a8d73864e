package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxCueLength = 200

const coachSystemPrompt = `You are an upbeat strength coach speaking into the athlete's earbuds mid-workout.
Reply with exactly ONE short spoken sentence (under 20 words).
Give a concrete technique or motivation cue for the exercise. No emojis, no lists, no quotation marks.`

func buildCuePrompt(c CueContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Exercise: %s\n", c.Exercise)
	if c.Muscle != "" {
		fmt.Fprintf(&b, "Target muscle: %s\n", c.Muscle)
	}
	if c.Phase != "" {
		fmt.Fprintf(&b, "Phase: %s\n", c.Phase)
	}
	if c.Reps > 0 {
		fmt.Fprintf(&b, "Reps in this set: %d\n", c.Reps)
	}
	if c.Name != "" {
		fmt.Fprintf(&b, "Athlete's name: %s\n", c.Name)
	}
	b.WriteString("Cue:")
	return b.String()
}

// cleanCue keeps the first line of a model reply, without wrapping quotes,
// cut at a word boundary when too long
func cleanCue(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "\"'“”* ")
	s = strings.TrimPrefix(s, "Cue:")
	s = strings.TrimSpace(s)

	if utf8.RuneCountInString(s) <= maxCueLength {
		return s
	}
	r := []rune(s)[:maxCueLength]
	cut := string(r)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, ",;:") + "."
}
