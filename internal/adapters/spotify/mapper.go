package spotify

import "github.com/ewilliams-labs/moodcast/internal/core/domain"

// mapPlaylistToDomain converts a Spotify playlist to a candidate.
// Spotify search exposes no popularity for playlists.
func mapPlaylistToDomain(sp spotifyPlaylist) domain.PlaylistCandidate {
	artwork := ""
	if len(sp.Images) > 0 {
		artwork = sp.Images[0].URL
	}

	return domain.PlaylistCandidate{
		ID:          sp.ID,
		Title:       sp.Name,
		Description: sp.Description,
		ArtworkURL:  artwork,
		ExternalURL: sp.ExternalURLs.Spotify,
		Provider:    providerName,
	}
}
