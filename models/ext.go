package models

import (
	"net/http"
	"regexp"

	"pitlane/enums"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Extractor struct {
	Name       string
	CodeName   string
	Type       enums.ExtractorType
	Category   enums.ExtractorCategory
	URLPattern *regexp.Regexp
	Host       []string
	IsRedirect bool
	IsHidden   bool

	Run func(*DownloadContext) (*ExtractorResponse, error)
}

type ExtractorResponse struct {
	Type      enums.ResultType
	MediaList []*Media
	Playlist  *Playlist

	URL   string // redirected URL
	IEKey string // code name of the extractor expected to handle URL
}

// Transparent returns the metadata carried by a url_transparent
// response, nil for any other kind of response.
func (response *ExtractorResponse) Transparent() *Media {
	if response.Type != enums.ResultTypeURLTransparent {
		return nil
	}
	if len(response.MediaList) == 0 {
		return nil
	}
	return response.MediaList[0]
}

func (extractor *Extractor) NewMedia(
	contentID string,
	contentURL string,
) *Media {
	return &Media{
		ContentID:         contentID,
		ContentURL:        contentURL,
		ExtractorCodeName: extractor.CodeName,
	}
}

func (extractor *Extractor) NewPlaylist(
	contentID string,
	contentURL string,
) *Playlist {
	return &Playlist{
		ContentID:         contentID,
		ContentURL:        contentURL,
		ExtractorCodeName: extractor.CodeName,
	}
}

type ExtractorConfig struct {
	HTTPProxy    string            `yaml:"http_proxy"`
	HTTPSProxy   string            `yaml:"https_proxy"`
	NoProxy      string            `yaml:"no_proxy"`
	EdgeProxyURL string            `yaml:"edge_proxy_url"`
	HTTP3        bool              `yaml:"http3"`
	RateLimit    float64           `yaml:"rate_limit"` // requests per second, 0 means unlimited
	IsDisabled   bool              `yaml:"disabled"`
	Args         map[string]string `yaml:"args"`
}

// Arg returns the extractor argument named key, or fallback
// when the config or the argument is missing.
func (cfg *ExtractorConfig) Arg(key string, fallback string) string {
	if cfg == nil || cfg.Args == nil {
		return fallback
	}
	if value, ok := cfg.Args[key]; ok && value != "" {
		return value
	}
	return fallback
}
