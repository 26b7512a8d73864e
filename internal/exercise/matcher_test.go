package exercise

import (
	"strings"
	"testing"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := NewDefaultMatcher()
	if err != nil {
		t.Fatalf("NewDefaultMatcher: %v", err)
	}
	return m
}

func TestMatchTiers(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		query     string
		canonical string
		tier      Tier
	}{
		{"Bench Press", "Bench Press", TierExact},
		{"  bench-press!! ", "Bench Press", TierExact},
		{"Military Press", "Overhead Press", TierAlias},
		{"Squats", "Back Squat", TierAlias},
		{"DB Bench Press", "Dumbbell Bench Press", TierAbbreviation},
		{"OHP", "Overhead Press", TierAbbreviation},
		{"Lat Raises", "Lateral Raise", TierAbbreviation},
		{"paused bench press", "Bench Press", TierSubstring},
		{"wide grip lat pulldown", "Lat Pulldown", TierSubstring},
		{"close grip lat pulldown", "Lat Pulldown", TierSubstring},
		{"heavy lat pulldown", "Lat Pulldown", TierSubstring},
		{"heavy military press", "Overhead Press", TierSubstring},
		{"heavy bench press", "Bench Press", TierSubstring},
		{"paused db bench press", "Dumbbell Bench Press", TierSubstring},
		{"Bulgarian Split Sqaut", "Bulgarian Split Squat", TierFuzzy},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := m.Match(tt.query)
			if !got.Matched || got.Canonical != tt.canonical || got.Tier != tt.tier {
				t.Fatalf("Match(%q) = %+v, want %s via %s", tt.query, got, tt.canonical, tt.tier)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Fatalf("confidence out of range: %f", got.Confidence)
			}
			if got.Query != tt.query {
				t.Fatalf("expected the raw query to be echoed, got %q", got.Query)
			}
		})
	}
}

func TestMatchConfidenceOrdering(t *testing.T) {
	m := newTestMatcher(t)
	exact := m.Match("Deadlift").Confidence
	abbrev := m.Match("RDL").Confidence
	sub := m.Match("paused bench press").Confidence
	if !(exact > abbrev && abbrev > sub) {
		t.Fatalf("expected exact > abbreviation > substring, got %f %f %f", exact, abbrev, sub)
	}
}

func TestMatchSubstringPrefersLongestCanonical(t *testing.T) {
	m := newTestMatcher(t)
	got := m.Match("my heavy incline bench press set")
	if got.Canonical != "Incline Bench Press" || got.Tier != TierSubstring {
		t.Fatalf("expected the longer canonical to win, got %+v", got)
	}
}

func TestMatchNoMatch(t *testing.T) {
	m := newTestMatcher(t)
	for _, q := range []string{"", "   ", "!!!", "zumba"} {
		got := m.Match(q)
		if got.Matched || got.Tier != TierNone || got.Canonical != "" {
			t.Fatalf("Match(%q) should not match, got %+v", q, got)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Squats":             "squat",
		"Bench Press":        "bench press",
		"Triceps  Curls":     "tricep curl",
		"Abs":                "abs",
		"Élévation-Latérale": "elevation laterale",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewMatcherRejectsConflicts(t *testing.T) {
	tests := map[string]Catalog{
		"duplicate name": {Exercises: []Exercise{{Name: "Squat"}, {Name: "squats"}}},
		"alias is another name": {Exercises: []Exercise{
			{Name: "Front Squat"},
			{Name: "Back Squat", Aliases: []string{"front squat"}},
		}},
		"shared alias": {Exercises: []Exercise{
			{Name: "Leg Curl", Aliases: []string{"Curl"}},
			{Name: "Barbell Curl", Aliases: []string{"curl"}},
		}},
		"empty name": {Exercises: []Exercise{{Name: "  "}}},
	}
	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			c := c
			if _, err := NewMatcher(&c); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(strings.TrimSpace(`
abbreviations:
  bb: barbell
exercises:
  - name: Barbell Row
    muscle: back
`)))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	m, err := NewMatcher(c)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Match("BB Row"); got.Canonical != "Barbell Row" || got.Muscle != "back" {
		t.Fatalf("unexpected match %+v", got)
	}

	if _, err := ParseCatalog([]byte("exercises: []")); err == nil {
		t.Fatal("expected an error for an empty catalog")
	}
	if _, err := ParseCatalog([]byte("exercises: [")); err == nil {
		t.Fatal("expected a YAML error")
	}
}
