package domain

// Dimension names one affect axis of a mood profile.
type Dimension string

const (
	Energy     Dimension = "energy"
	Brightness Dimension = "brightness"
	Cozy       Dimension = "cozy"
	Intensity  Dimension = "intensity"
	Focus      Dimension = "focus"
	Valence    Dimension = "valence"
)

// Dimensions lists every axis in tie-break priority order.
var Dimensions = []Dimension{Energy, Brightness, Cozy, Intensity, Focus, Valence}

// Special buckets that bypass the top-2 naming.
const (
	BucketStormIntense = "storm_intense"
	BucketNightChill   = "night_chill"
)

// Coarse mood labels derived from valence.
const (
	MoodHappy   = "happy"
	MoodSad     = "sad"
	MoodNeutral = "neutral"
)

// MoodProfile is the scorer output: six 0..100 scores, a bucket label and
// the ordered search keywords (unique, never empty).
type MoodProfile struct {
	Scores   map[Dimension]int `json:"scores"`
	Bucket   string            `json:"bucket"`
	Keywords []string          `json:"keywords"`
	Mood     string            `json:"mood"`
}

// Score returns the value of one dimension, zero when absent.
func (p MoodProfile) Score(d Dimension) int {
	return p.Scores[d]
}
