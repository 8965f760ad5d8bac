package formulae

type Video struct {
	ID              int64  `json:"id"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Summary         string `json:"summary"`
	Date            string `json:"date"`
	PublishFrom     int64  `json:"publishFrom"`
	MediaID         string `json:"mediaId"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	ImageURL        string `json:"imageUrl"`
	Language        string `json:"language"`
	TitleURLSegment string `json:"titleUrlSegment"`
	Tags            []*Tag `json:"tags"`
}

type Tag struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// PlayerAttributes are the data attributes scraped from the player page.
type PlayerAttributes struct {
	MediaID   string
	PlayerID  string
	AccountID string
	Title     string
	Date      string
	Thumbnail string
}
