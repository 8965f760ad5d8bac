package formulae

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pitlane/models"
	"pitlane/util"

	"github.com/PuerkitoBio/goquery"
)

const seasonTagPrefix = "season:"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"20060102",
}

var playerPathPattern = regexp.MustCompile(`/(?P<lang>[a-z]{2})/video/boxset/player/(?P<id>[0-9]+)`)

// UnifiedDate turns the date formats served by the site into YYYYMMDD.
func UnifiedDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", fmt.Errorf("%w: empty date", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, date)
		if err == nil {
			return parsed.Format("20060102"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
}

// SeasonFromTags returns the number carried by the first season tag.
func SeasonFromTags(tags []*Tag) (int64, error) {
	for _, tag := range tags {
		if tag == nil || !strings.HasPrefix(tag.Label, seasonTagPrefix) {
			continue
		}
		suffix := strings.TrimPrefix(tag.Label, seasonTagPrefix)
		season, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil || season < 0 {
			return 0, fmt.Errorf("%w: bad label %q", ErrNoSeasonTag, tag.Label)
		}
		return season, nil
	}
	return 0, ErrNoSeasonTag
}

func TagLabels(tags []*Tag) []string {
	labels := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == nil || tag.Label == "" {
			continue
		}
		labels = append(labels, tag.Label)
	}
	return labels
}

// ParsePlayerPage reads the player data attributes of the video page.
func ParsePlayerPage(body []byte, id string) (*PlayerAttributes, error) {
	doc, err := util.ParseHTML(body)
	if err != nil {
		return nil, err
	}

	instance, ok := util.ExtractAttributes(util.ElementByID(doc, "video-player__instance--"+id))
	if !ok {
		return nil, fmt.Errorf("%w: video player instance", ErrMissingMarkup)
	}
	player, ok := util.ExtractAttributes(util.ElementByClass(doc, "video-player"))
	if !ok {
		return nil, fmt.Errorf("%w: video player", ErrMissingMarkup)
	}
	hero, ok := util.ExtractAttributes(util.ElementByClass(doc, "hero__info-wrapper"))
	if !ok {
		return nil, fmt.Errorf("%w: hero info", ErrMissingMarkup)
	}

	attributes := &PlayerAttributes{
		MediaID:   instance["data-video-id"],
		PlayerID:  instance["data-player"],
		AccountID: instance["data-account"],
		Title:     player["data-video-title"],
		Date:      hero["data-video-date"],
		Thumbnail: util.OGSearch(doc, "image"),
	}
	if attributes.MediaID == "" {
		return nil, fmt.Errorf("%w: data-video-id", ErrMissingMarkup)
	}
	if attributes.Title == "" {
		return nil, fmt.Errorf("%w: data-video-title", ErrMissingMarkup)
	}
	return attributes, nil
}

// ParseBoxsetPage builds the playlist of a boxset page. Every player link
// becomes one entry, in page order.
func ParseBoxsetPage(
	extractor *models.Extractor,
	body []byte,
	contentID string,
	contentURL string,
) (*models.Playlist, error) {
	doc, err := util.ParseHTML(body)
	if err != nil {
		return nil, err
	}

	title := util.ElementText(doc, ".boxset-hero__title")
	if title == "" {
		title = util.OGSearch(doc, "title")
	}
	if title == "" {
		return nil, fmt.Errorf("%w: boxset title", ErrMissingMarkup)
	}
	description := util.ElementText(doc, ".boxset-hero__description")
	if description == "" {
		description = util.OGSearch(doc, "description")
	}

	playlist := extractor.NewPlaylist(contentID, contentURL)
	playlist.Title = title
	playlist.Description = description

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		matches := playerPathPattern.FindStringSubmatch(href)
		if matches == nil {
			return
		}
		entryURL := util.AbsoluteURL(contentURL, util.FixURL(href))
		playlist.AddEntry(&models.PlaylistEntry{
			ContentID: matches[playerPathPattern.SubexpIndex("id")],
			URL:       entryURL,
			IEKey:     Extractor.CodeName,
			Title:     strings.Join(strings.Fields(sel.Text()), " "),
		})
	})
	return playlist, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
