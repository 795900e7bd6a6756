package mood

import "github.com/ewilliams-labs/moodcast/internal/core/domain"

// keywordSets maps a bucket or dimension name to its search terms.
// Valence intentionally has no entry.
var keywordSets = map[string][]string{
	string(domain.Energy):     {"upbeat", "dance", "workout", "house", "pop"},
	string(domain.Brightness): {"happy", "feel good", "sunny", "uplifting", "bright"},
	string(domain.Cozy):       {"cozy", "lofi", "acoustic", "coffeehouse", "warm"},
	string(domain.Intensity):  {"cinematic", "dark", "intense", "dramatic", "bass"},
	string(domain.Focus):      {"focus", "study", "ambient", "instrumental", "chill"},
	domain.BucketStormIntense: {"storm", "cinematic", "dark", "intense", "ambient"},
	domain.BucketNightChill:   {"night", "late night", "chill", "synthwave", "ambient"},
}

// defaultKeywordSet is used when nothing else yields a keyword.
const defaultKeywordSet = string(domain.Focus)

func keywordsFor(bucket string, top []domain.Dimension) []string {
	if list, ok := keywordSets[bucket]; ok {
		return append([]string(nil), list...)
	}

	var out []string
	for _, d := range top {
		out = append(out, keywordSets[string(d)]...)
	}
	out = dedupe(out)
	if len(out) == 0 {
		out = append(out, keywordSets[defaultKeywordSet]...)
	}
	return out
}

// tuneKeywords appends context terms so the keywords don't contradict the
// weather, e.g. no "summer" on a freezing night.
func tuneKeywords(keywords []string, obs domain.WeatherObservation, f features, night bool) []string {
	switch {
	case obs.FeelsLike <= 8:
		keywords = append(keywords, "winter", "cold", "cozy")
	case obs.FeelsLike >= 22 && !night && f.cloud < 0.5:
		keywords = append(keywords, "summer", "sunshine")
	}

	if night {
		keywords = append(keywords, "night", "late night")
	}
	if f.cloud >= 0.8 {
		keywords = append(keywords, "overcast", "moody")
	}
	if isRainy(obs.ConditionMain, obs.ConditionDescription) {
		keywords = append(keywords, "rainy day", "lofi beats")
	}

	return dedupe(keywords)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
