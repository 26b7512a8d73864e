package exercise

import (
	"fmt"
	"strings"

	"fitai-backend/pkg/fuzzy"
)

// Tier names which lookup step produced a match
type Tier string

const (
	TierExact        Tier = "exact"
	TierAlias        Tier = "alias"
	TierAbbreviation Tier = "abbreviation"
	TierSubstring    Tier = "substring"
	TierFuzzy        Tier = "fuzzy"
	TierNone         Tier = "none"
)

// MinSimilarity is the lowest Levenshtein similarity accepted by the fuzzy tier
const MinSimilarity = 0.85

// Result is returned by Match
type Result struct {
	Matched    bool    `json:"matched"`
	Query      string  `json:"query"`
	Canonical  string  `json:"canonical,omitempty"`
	Muscle     string  `json:"muscle,omitempty"`
	Tier       Tier    `json:"tier"`
	Confidence float64 `json:"confidence"` // 0.0-1.0
}

type aliasKey struct {
	key   string
	index int
}

// Matcher resolves free-form exercise names to catalog entries
type Matcher struct {
	exercises     []Exercise
	canonical     map[string]int // normalized name -> index
	aliases       map[string]int // normalized alias -> index
	names         []string       // normalized canonical names, catalog order
	aliasKeys     []aliasKey     // aliases in catalog order
	abbreviations map[string]string
}

// NewMatcher indexes the catalog. A name or alias that normalizes to the same
// key for two different exercises is an error.
func NewMatcher(c *Catalog) (*Matcher, error) {
	m := &Matcher{
		exercises:     c.Exercises,
		canonical:     make(map[string]int, len(c.Exercises)),
		aliases:       make(map[string]int),
		names:         make([]string, len(c.Exercises)),
		abbreviations: make(map[string]string, len(c.Abbreviations)),
	}
	for k, v := range c.Abbreviations {
		m.abbreviations[Normalize(k)] = Normalize(v)
	}

	for i, ex := range c.Exercises {
		key := Normalize(ex.Name)
		if key == "" {
			return nil, fmt.Errorf("exercise %d has an empty name", i)
		}
		if j, ok := m.canonical[key]; ok {
			return nil, fmt.Errorf("exercise %q duplicates %q", ex.Name, c.Exercises[j].Name)
		}
		m.canonical[key] = i
		m.names[i] = key
	}
	for i, ex := range c.Exercises {
		for _, alias := range ex.Aliases {
			key := Normalize(alias)
			if j, ok := m.canonical[key]; ok && j != i {
				return nil, fmt.Errorf("alias %q of %q is the name of %q", alias, ex.Name, c.Exercises[j].Name)
			}
			if j, ok := m.aliases[key]; ok && j != i {
				return nil, fmt.Errorf("alias %q is shared by %q and %q", alias, ex.Name, c.Exercises[j].Name)
			}
			if _, ok := m.aliases[key]; !ok {
				m.aliasKeys = append(m.aliasKeys, aliasKey{key: key, index: i})
			}
			m.aliases[key] = i
		}
	}
	return m, nil
}

// NewDefaultMatcher builds a matcher over the embedded catalog
func NewDefaultMatcher() (*Matcher, error) {
	c, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return NewMatcher(c)
}

// Exercises returns the catalog entries in order
func (m *Matcher) Exercises() []Exercise {
	return m.exercises
}

// Match looks name up through exact, alias, abbreviation, substring and fuzzy
// tiers, returning the first hit
func (m *Matcher) Match(name string) Result {
	query := Normalize(name)
	if query == "" {
		return Result{Query: name, Tier: TierNone}
	}

	// 1. Exact canonical name
	if i, ok := m.canonical[query]; ok {
		return m.result(name, i, TierExact, 1.0)
	}

	// 2. Exact alias
	if i, ok := m.aliases[query]; ok {
		return m.result(name, i, TierAlias, 1.0)
	}

	// 3. Abbreviations expanded, then exact again
	expanded := m.expand(query)
	if expanded != query {
		if i, ok := m.canonical[expanded]; ok {
			return m.result(name, i, TierAbbreviation, 0.95)
		}
		if i, ok := m.aliases[expanded]; ok {
			return m.result(name, i, TierAbbreviation, 0.95)
		}
	}

	// 4. Whole-word containment, longest key wins. The typed words are tried
	// before the expanded ones so "lat pulldown" is not turned into "lateral".
	i, key, ok := m.substring(query)
	if expanded != query {
		if j, k, ok2 := m.substring(expanded); ok2 && (!ok || len(k) > len(key)) {
			i, key, ok = j, k, true
		}
	}
	if ok {
		shorter, longer := len(query), len(key)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return m.result(name, i, TierSubstring, 0.6+0.3*float64(shorter)/float64(longer))
	}

	// 5. Levenshtein similarity over names and aliases
	fi, score := m.closest(query)
	if j, s := m.closest(expanded); s > score {
		fi, score = j, s
	}
	if fi >= 0 && score >= MinSimilarity {
		return m.result(name, fi, TierFuzzy, score)
	}

	return Result{Query: name, Tier: TierNone}
}

func (m *Matcher) result(query string, i int, tier Tier, confidence float64) Result {
	ex := m.exercises[i]
	return Result{
		Matched:    true,
		Query:      query,
		Canonical:  ex.Name,
		Muscle:     ex.Muscle,
		Tier:       tier,
		Confidence: confidence,
	}
}

func (m *Matcher) expand(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		if full, ok := m.abbreviations[w]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}

// substring finds the longest key in whole-word containment with query.
// Canonical names match in either direction; aliases only when the query
// contains them.
func (m *Matcher) substring(query string) (int, string, bool) {
	best, bestKey := -1, ""
	consider := func(i int, key string) {
		if best < 0 || len(key) > len(bestKey) {
			best, bestKey = i, key
		}
	}
	for i, name := range m.names {
		if fuzzy.ContainsWords(name, query) || fuzzy.ContainsWords(query, name) {
			consider(i, name)
		}
	}
	for _, a := range m.aliasKeys {
		if fuzzy.ContainsWords(query, a.key) {
			consider(a.index, a.key)
		}
	}
	return best, bestKey, best >= 0
}

func (m *Matcher) closest(query string) (int, float64) {
	best, bestScore := -1, 0.0
	consider := func(i int, candidate string) {
		if score := fuzzy.Similarity(query, candidate); score > bestScore {
			best, bestScore = i, score
		}
	}
	for i, name := range m.names {
		consider(i, name)
	}
	for _, a := range m.aliasKeys {
		consider(a.index, a.key)
	}
	return best, bestScore
}

// Normalize lowercases, strips punctuation and diacritics, collapses spaces
// and drops a plural "s" from words longer than three letters ("squats" ->
// "squat"), leaving "ss" endings such as "press" alone
func Normalize(s string) string {
	words := strings.Fields(fuzzy.Fold(s))
	for i, w := range words {
		if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
			words[i] = strings.TrimSuffix(w, "s")
		}
	}
	return strings.Join(words, " ")
}
