package rest

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
)

type weatherResponse struct {
	Lat         float64                  `json:"lat"`
	Lon         float64                  `json:"lon"`
	City        string                   `json:"city"`
	Description string                   `json:"description"`
	Temperature float64                  `json:"temperature"`
	Humidity    int                      `json:"humidity"`
	WindSpeed   float64                  `json:"wind_speed"`
	Mood        string                   `json:"mood"`
	Bucket      string                   `json:"bucket"`
	Keywords    []string                 `json:"keywords"`
	Scores      map[domain.Dimension]int `json:"scores"`
}

// Weather handles GET /api/weather/{city}
func (h *Handler) Weather(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(chi.URLParam(r, "city"))
	if city == "" {
		writeError(w, http.StatusBadRequest, "city is required")
		return
	}

	obs, profile, err := h.svc.Weather(r.Context(), city)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, weatherResponse{
		Lat:         obs.Location.Lat,
		Lon:         obs.Location.Lon,
		City:        obs.Location.Name,
		Description: obs.ConditionDescription,
		Temperature: obs.Temperature,
		Humidity:    obs.Humidity,
		WindSpeed:   obs.WindSpeed,
		Mood:        profile.Mood,
		Bucket:      profile.Bucket,
		Keywords:    profile.Keywords,
		Scores:      profile.Scores,
	})
}
