package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
)

const msgRecommendationInvalid = "recommendation expired or invalid"

type playlistView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ArtworkURL  string   `json:"artwork_url,omitempty"`
	URL         string   `json:"url,omitempty"`
	Provider    string   `json:"provider"`
	Popularity  *float64 `json:"popularity,omitempty"`
}

type recommendResponse struct {
	Weather          domain.WeatherObservation `json:"weather"`
	Mood             string                    `json:"mood"`
	MoodQuery        string                    `json:"mood_query"`
	Keywords         []string                  `json:"keywords"`
	Scores           map[domain.Dimension]int  `json:"scores"`
	Bucket           string                    `json:"bucket"`
	Playlist         playlistView              `json:"playlist"`
	RecommendationID string                    `json:"recommendation_id"`
}

type regenerateResponse struct {
	MoodQuery string       `json:"mood_query"`
	Playlist  playlistView `json:"playlist"`
}

func toPlaylistView(c domain.PlaylistCandidate) playlistView {
	return playlistView{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		ArtworkURL:  c.ArtworkURL,
		URL:         c.ExternalURL,
		Provider:    c.Provider,
		Popularity:  c.Popularity,
	}
}

// Recommend handles GET /recommend?location=
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}

	rec, err := h.svc.Recommend(r.Context(), location)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendResponse{
		Weather:          rec.Weather,
		Mood:             rec.Profile.Mood,
		MoodQuery:        rec.MoodQuery,
		Keywords:         rec.Profile.Keywords,
		Scores:           rec.Profile.Scores,
		Bucket:           rec.Profile.Bucket,
		Playlist:         toPlaylistView(rec.Playlist),
		RecommendationID: rec.ID,
	})
}

// Regenerate handles GET /recommend/regenerate?recommendation_id=
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("recommendation_id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "recommendation_id is required")
		return
	}

	rec, err := h.svc.Regenerate(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgRecommendationInvalid)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, regenerateResponse{
		MoodQuery: rec.MoodQuery,
		Playlist:  toPlaylistView(rec.Playlist),
	})
}
