package models

type Playlist struct {
	ContentID         string           `json:"id"`
	ContentURL        string           `json:"webpage_url"`
	ExtractorCodeName string           `json:"extractor"`
	Title             string           `json:"title"`
	Description       string           `json:"description,omitempty"`
	Entries           []*PlaylistEntry `json:"entries"`
}

type PlaylistEntry struct {
	ContentID string `json:"id"`
	URL       string `json:"url"`
	IEKey     string `json:"ie_key,omitempty"`
	Title     string `json:"title,omitempty"`

	// filled by the resolver unless running flat
	Media *Media `json:"media,omitempty"`
}

// AddEntry appends entry unless the playlist already holds it. Entries
// are the same when their content ids match, or their urls when either
// has no id.
func (playlist *Playlist) AddEntry(entry *PlaylistEntry) {
	for _, existing := range playlist.Entries {
		if existing.ContentID != "" && entry.ContentID != "" {
			if existing.ContentID == entry.ContentID {
				return
			}
			continue
		}
		if existing.URL == entry.URL {
			return
		}
	}
	playlist.Entries = append(playlist.Entries, entry)
}
