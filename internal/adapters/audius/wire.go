package audius

import "github.com/ewilliams-labs/moodcast/internal/core/domain"

const playlistURLPrefix = "https://audius.co/playlists/"

type searchResponse struct {
	Data []audiusPlaylist `json:"data"`
}

type audiusPlaylist struct {
	ID             string            `json:"id"`
	PlaylistName   string            `json:"playlist_name"`
	Description    string            `json:"description"`
	Artwork        map[string]string `json:"artwork"`
	TotalPlayCount *float64          `json:"total_play_count"`
	FavoriteCount  int               `json:"favorite_count"`
}

func mapPlaylistToDomain(p audiusPlaylist) domain.PlaylistCandidate {
	c := domain.PlaylistCandidate{
		ID:          p.ID,
		Title:       p.PlaylistName,
		Description: p.Description,
		ArtworkURL:  p.Artwork["480x480"],
		Provider:    providerName,
		Popularity:  p.TotalPlayCount,
	}
	if p.ID != "" {
		c.ExternalURL = playlistURLPrefix + p.ID
	}
	return c
}
