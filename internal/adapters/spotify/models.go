package spotify

// searchResponse is the playlist part of /v1/search. Spotify returns null
// for items it cannot serialize, hence the pointers.
type searchResponse struct {
	Playlists struct {
		Items []*spotifyPlaylist `json:"items"`
	} `json:"playlists"`
}

// spotifyPlaylist represents a simplified playlist object.
type spotifyPlaylist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Images       []spotifyImage `json:"images"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifyImage struct {
	URL string `json:"url"`
}
