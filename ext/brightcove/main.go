package brightcove

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"pitlane/enums"
	"pitlane/logger"
	"pitlane/models"
	"pitlane/util"
	"pitlane/util/networking"
	"pitlane/util/parser"

	"github.com/guregu/null/v6"
	"github.com/guregu/null/v6/zero"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	playerScriptURL = "https://players.brightcove.net/%s/%s_%s/index.min.js"
	playbackAPIURL  = "https://edge.api.brightcove.com/playback/v1/accounts/%s/videos/%s"
)

var Extractor = &models.Extractor{
	Name:       "Brightcove",
	CodeName:   "brightcove",
	Type:       enums.ExtractorTypeSingle,
	Category:   enums.ExtractorCategoryStreaming,
	URLPattern: regexp.MustCompile(`https?://players\.brightcove\.net/(?P<account_id>\d+)/(?P<player_id>[^/]+)_(?P<embed>[^/]+)/index\.html\?(?:[^#]*&)?videoId=(?P<id>(?:ref:)?[^&#]+)`),
	Host:       []string{"brightcove"},

	Run: func(ctx *models.DownloadContext) (*models.ExtractorResponse, error) {
		media, err := GetMedia(ctx)
		if err != nil {
			return nil, err
		}
		return &models.ExtractorResponse{
			Type:      enums.ResultTypeVideo,
			MediaList: []*models.Media{media},
		}, nil
	},
}

func GetMedia(ctx *models.DownloadContext) (*models.Media, error) {
	accountID := ctx.MatchedGroups["account_id"]
	playerID := ctx.MatchedGroups["player_id"]
	embed := ctx.MatchedGroups["embed"]

	policyKey, err := GetPolicyKey(ctx, accountID, playerID, embed)
	if err != nil {
		return nil, err
	}
	body, err := GetPlayback(ctx, accountID, ctx.MatchedContentID, policyKey)
	if err != nil {
		if err == ErrNoPolicyKey {
			// the player was republished with a new key
			storePolicyKey(policyCacheKey(accountID, playerID, embed), "")
		}
		return nil, err
	}
	video := gjson.ParseBytes(body)

	contentID := video.Get("id").String()
	if contentID == "" {
		contentID = ctx.MatchedContentID
	}
	media := ctx.Extractor.NewMedia(contentID, ctx.MatchedContentURL)
	media.Title = strings.TrimSpace(video.Get("name").String())
	media.Ext = "mp4"
	media.SetDescription(firstString(video, "description", "long_description"))
	media.SetThumbnail(firstString(video, "poster", "thumbnail"))

	uploaderID := video.Get("account_id").String()
	if uploaderID == "" {
		uploaderID = accountID
	}
	media.UploaderID = zero.StringFrom(uploaderID)

	if duration := video.Get("duration"); duration.Exists() && duration.Float() > 0 {
		media.Duration = null.FloatFrom(duration.Float() / 1000)
	}
	if uploadDate, timestamp, ok := UploadDate(video.Get("published_at").String()); ok {
		media.UploadDate = zero.StringFrom(uploadDate)
		media.Timestamp = null.IntFrom(timestamp)
	}
	video.Get("tags").ForEach(func(_, tag gjson.Result) bool {
		if tag.String() != "" {
			media.Tags = append(media.Tags, tag.String())
		}
		return true
	})

	formats, err := GetFormats(ctx, ParseSources(video))
	if err != nil {
		return nil, err
	}
	for _, format := range formats {
		if format.Duration == 0 && media.Duration.Valid {
			format.Duration = int64(media.Duration.Float64)
		}
		media.AddFormat(format)
	}
	zap.S().Debugf("brightcove %s: %d formats", contentID, len(formats))
	return media, nil
}

func GetPolicyKey(
	ctx *models.DownloadContext,
	accountID string,
	playerID string,
	embed string,
) (string, error) {
	key := policyCacheKey(accountID, playerID, embed)
	if policyKey, ok := cachedPolicyKey(key); ok {
		return policyKey, nil
	}

	client := networking.GetExtractorHTTPClient(ctx.Extractor)
	script, err := util.FetchBody(
		ctx.Ctx(),
		client,
		fmt.Sprintf(playerScriptURL, accountID, playerID, embed),
		nil,
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("failed to get player script: %w", err)
	}
	policyKey, err := FindPolicyKey(script)
	if err != nil {
		return "", err
	}
	storePolicyKey(key, policyKey)
	return policyKey, nil
}

func GetPlayback(
	ctx *models.DownloadContext,
	accountID string,
	videoID string,
	policyKey string,
) ([]byte, error) {
	client := networking.GetExtractorHTTPClient(ctx.Extractor)
	url := fmt.Sprintf(playbackAPIURL, accountID, videoID)

	resp, err := util.FetchPage(
		ctx.Ctx(),
		client,
		http.MethodGet,
		url,
		nil,
		map[string]string{
			"Accept": "application/json;pk=" + policyKey,
			"Origin": "https://players.brightcove.net",
		},
		nil,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// debugging
	logger.WriteFile("brightcove_playback_response", resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	playbackErr := ParsePlaybackError(body)
	if playbackErr == nil {
		return nil, &util.HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}
	zap.S().Debugf("playback error: %+v", playbackErr)
	switch {
	case playbackErr.Code == "VIDEO_NOT_FOUND":
		return nil, util.ErrUnavailable
	case playbackErr.Subcode == "CLIENT_GEO",
		playbackErr.Code == "ACCESS_DENIED":
		return nil, util.ErrGeoRestricted
	case playbackErr.Code == "INVALID_POLICY_KEY":
		return nil, ErrNoPolicyKey
	}
	return nil, fmt.Errorf("%w: %s: %s", ErrPlaybackFailed, playbackErr.Code, playbackErr.Message)
}

// GetFormats turns the playback sources into formats. Manifests that
// fail to load are skipped; only DRM sources left means ErrDRMProtected.
func GetFormats(
	ctx *models.DownloadContext,
	sources []*Source,
) ([]*models.MediaFormat, error) {
	if len(sources) == 0 {
		return nil, util.ErrUnavailable
	}
	client := networking.GetExtractorHTTPClient(ctx.Extractor)
	opts := &parser.ParseOptions{
		Headers: map[string]string{"Origin": "https://players.brightcove.net"},
	}

	var formats []*models.MediaFormat
	seen := make(map[string]bool)
	add := func(items ...*models.MediaFormat) {
		for _, format := range items {
			if seen[format.FormatID] {
				continue
			}
			seen[format.FormatID] = true
			formats = append(formats, format)
		}
	}

	var protected int
	for _, source := range preferHTTPS(sources) {
		if source.Protected {
			protected++
			continue
		}
		switch {
		case isHLS(source):
			items, err := parser.ParseM3U8FromURL(ctx.Ctx(), client, source.Src, opts)
			if err != nil {
				zap.S().Warnf("skipping hls manifest: %v", err)
				continue
			}
			add(items...)
		case isDASH(source):
			items, err := parser.ParseMPDFromURL(ctx.Ctx(), client, source.Src, opts)
			if err != nil {
				zap.S().Warnf("skipping dash manifest: %v", err)
				continue
			}
			add(items...)
		case isProgressive(source):
			add(progressiveFormat(source))
		}
	}

	if len(formats) == 0 && protected > 0 {
		return nil, util.ErrDRMProtected
	}
	if len(formats) == 0 {
		return nil, util.ErrUnavailable
	}
	return formats, nil
}

func firstString(result gjson.Result, paths ...string) string {
	for _, path := range paths {
		if value := strings.TrimSpace(result.Get(path).String()); value != "" {
			return value
		}
	}
	return ""
}
