package domain

import "time"

// RecommendationSession links a recommendation id to the keywords needed
// to regenerate, plus the id of the playlist shown last.
type RecommendationSession struct {
	ID          string
	Keywords    []string
	LastShownID string
	CreatedAt   time.Time
}

// Recommendation is the result of one recommend or regenerate call.
type Recommendation struct {
	ID        string             `json:"recommendation_id"`
	Weather   WeatherObservation `json:"weather"`
	Profile   MoodProfile        `json:"profile"`
	Queries   []string           `json:"queries"`
	MoodQuery string             `json:"mood_query"`
	Playlist  PlaylistCandidate  `json:"playlist"`
}
