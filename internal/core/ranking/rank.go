package ranking

import (
	"math/rand"
	"sort"
	"strings"
	"unicode"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
)

const (
	overlapWeight      = 10.0
	popularityDivisor  = 1000.0
	maxPopularityBonus = 5.0
)

// Exclusions is a set of candidate ids that must not be returned.
type Exclusions map[string]struct{}

// Exclude builds an exclusion set, ignoring empty ids.
func Exclude(ids ...string) Exclusions {
	ex := make(Exclusions, len(ids))
	for _, id := range ids {
		if id != "" {
			ex[id] = struct{}{}
		}
	}
	return ex
}

func (e Exclusions) has(id string) bool {
	_, ok := e[id]
	return ok
}

// Score rates one candidate: 10 points per keyword token found in the title
// or description, plus up to 5 points of popularity.
func Score(c domain.PlaylistCandidate, keywordTokens map[string]struct{}) float64 {
	tokens := Tokenize(c.Title + " " + c.Description)

	overlap := 0
	for tok := range tokens {
		if _, ok := keywordTokens[tok]; ok {
			overlap++
		}
	}

	score := overlapWeight * float64(overlap)
	if c.Popularity != nil && *c.Popularity > 0 {
		score += min(*c.Popularity/popularityDivisor, maxPopularityBonus)
	}
	return score
}

// RankAll scores every eligible candidate and sorts them best first.
// Equal scores keep input order.
func RankAll(candidates []domain.PlaylistCandidate, keywords []string, exclude Exclusions) []domain.RankedCandidate {
	keywordTokens := Tokenize(strings.Join(keywords, " "))

	ranked := make([]domain.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == "" || exclude.has(c.ID) {
			continue
		}
		ranked = append(ranked, domain.RankedCandidate{Candidate: c, Score: Score(c, keywordTokens)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Rank returns the best matching candidate. The boolean is false when no
// candidate is left after exclusion; callers treat that as "no result".
func Rank(candidates []domain.PlaylistCandidate, keywords []string, exclude Exclusions) (domain.PlaylistCandidate, bool) {
	ranked := RankAll(candidates, keywords, exclude)
	if len(ranked) == 0 {
		return domain.PlaylistCandidate{}, false
	}
	return ranked[0].Candidate, true
}

// PickRandom selects uniformly among candidates that are not excluded.
func PickRandom(candidates []domain.PlaylistCandidate, exclude Exclusions, rng *rand.Rand) (domain.PlaylistCandidate, bool) {
	eligible := make([]domain.PlaylistCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == "" || exclude.has(c.ID) {
			continue
		}
		eligible = append(eligible, c)
	}
	if len(eligible) == 0 {
		return domain.PlaylistCandidate{}, false
	}
	return eligible[rng.Intn(len(eligible))], true
}

// Tokenize lowercases input and returns the set of letter/digit runs.
func Tokenize(input string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(cleanSeparators(strings.ToLower(input))) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

func cleanSeparators(input string) string {
	var out strings.Builder
	lastSpace := false
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			out.WriteRune(' ')
			lastSpace = true
		}
	}

	return out.String()
}
