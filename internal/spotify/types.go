package spotify

// Track is a search result that can be added to a playlist.
type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"` // Comma-separated artist names
	Album      string `json:"album"`
	URL        string `json:"url"`
	DurationMs int    `json:"duration_ms"`
}

// Playlist is a playlist created for the user.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Profile is the authenticated user's public profile.
type Profile struct {
	ID          string
	DisplayName string
	Email       string
}
