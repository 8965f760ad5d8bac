package formulae

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"pitlane/config"
	"pitlane/enums"
	"pitlane/logger"
	"pitlane/models"
	"pitlane/util"
	"pitlane/util/networking"

	"github.com/bytedance/sonic"
	"github.com/guregu/null/v6"
	"github.com/guregu/null/v6/zero"
	"go.uber.org/zap"
)

const (
	apiBase = "https://api.formula-e.pulselive.com/content/formula-e/video/"

	brightcoveAccountID   = "6275361344001"
	brightcoveURLTemplate = "http://players.brightcove.net/" + brightcoveAccountID + "/default_default/index.html?videoId=%s"
	brightcoveIEKey       = "brightcove"

	sourceAPI     = "api"
	sourceWebpage = "webpage"
)

var apiHeaders = map[string]string{
	"Accept":  "application/json",
	"Origin":  "https://www.fiaformulae.com",
	"Referer": "https://www.fiaformulae.com/",
}

var Extractor = &models.Extractor{
	Name:       "Formula E",
	CodeName:   "formulae",
	Type:       enums.ExtractorTypeSingle,
	Category:   enums.ExtractorCategorySports,
	URLPattern: regexp.MustCompile(`https?://(?:www\.)?fiaformulae\.com/(?P<lang>[a-z]{2})/video/boxset/player/(?P<id>[0-9]+)\S*`),
	Host:       []string{"fiaformulae"},

	Run: func(ctx *models.DownloadContext) (*models.ExtractorResponse, error) {
		source := config.GetExtractorConfig(ctx.Extractor).Arg("source", sourceAPI)

		var media *models.Media
		var err error
		switch source {
		case sourceAPI:
			media, err = MediaFromAPI(ctx)
		case sourceWebpage:
			media, err = MediaFromWebpage(ctx)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
		}
		if err != nil {
			return nil, err
		}
		return &models.ExtractorResponse{
			Type:      enums.ResultTypeURLTransparent,
			MediaList: []*models.Media{media},
			URL:       fmt.Sprintf(brightcoveURLTemplate, media.ContentID),
			IEKey:     brightcoveIEKey,
		}, nil
	},
}

func MediaFromAPI(ctx *models.DownloadContext) (*models.Media, error) {
	video, err := GetVideo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	if video.MediaID == "" {
		return nil, fmt.Errorf("%w: mediaId", ErrMissingField)
	}
	if video.Title == "" {
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	}
	zap.S().Debugf("media id: %s", video.MediaID)

	// dates come in a few shapes, anything else fails the request
	uploadDate, err := UnifiedDate(video.Date)
	if err != nil {
		return nil, err
	}
	zap.S().Debugf("upload date: %s -> %s", video.Date, uploadDate)

	season, err := SeasonFromTags(video.Tags)
	if err != nil {
		return nil, err
	}
	zap.S().Debugf("season: %d", season)

	media := ctx.Extractor.NewMedia(video.MediaID, ctx.MatchedContentURL)
	media.Title = video.Title
	media.Ext = "mp4"
	media.UploadDate = zero.StringFrom(uploadDate)
	media.UploaderID = zero.StringFrom(brightcoveAccountID)
	media.Tags = TagLabels(video.Tags)
	media.SetSeason(season)
	media.SetThumbnail(firstNonEmpty(video.ThumbnailURL, video.ImageURL))
	media.SetDescription(firstNonEmpty(video.Description, video.Summary))
	if video.PublishFrom > 0 {
		media.Timestamp = null.IntFrom(video.PublishFrom / 1000)
	}
	return media, nil
}

func GetVideo(ctx *models.DownloadContext) (*Video, error) {
	client := networking.GetExtractorHTTPClient(ctx.Extractor)
	cookies := util.GetExtractorCookies(ctx.Extractor)

	lang := ctx.MatchedGroups["lang"]
	if lang == "" {
		lang = "en"
	}
	url := apiBase + strings.ToUpper(lang) + "/" + ctx.MatchedContentID

	resp, err := util.FetchPage(
		ctx.Ctx(),
		client,
		http.MethodGet,
		url,
		nil,
		apiHeaders,
		cookies,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// debugging
	logger.WriteFile("formulae_api_response", resp)

	if resp.StatusCode == http.StatusNotFound {
		return nil, util.ErrUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &util.HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}

	var video Video
	err = sonic.ConfigFastest.NewDecoder(resp.Body).Decode(&video)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &video, nil
}

func MediaFromWebpage(ctx *models.DownloadContext) (*models.Media, error) {
	client := networking.GetExtractorHTTPClient(ctx.Extractor)
	cookies := util.GetExtractorCookies(ctx.Extractor)

	body, err := util.FetchBody(
		ctx.Ctx(),
		client,
		ctx.MatchedContentURL,
		nil,
		cookies,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get webpage: %w", err)
	}

	attributes, err := ParsePlayerPage(body, ctx.MatchedContentID)
	if err != nil {
		return nil, err
	}
	zap.S().Debugf("player attributes: %+v", attributes)

	uploadDate, err := UnifiedDate(attributes.Date)
	if err != nil {
		return nil, err
	}

	media := ctx.Extractor.NewMedia(attributes.MediaID, ctx.MatchedContentURL)
	media.Title = attributes.Title
	media.Ext = "mp4"
	media.UploadDate = zero.StringFrom(uploadDate)
	media.UploaderID = zero.StringFrom(firstNonEmpty(attributes.AccountID, brightcoveAccountID))
	media.SetThumbnail(attributes.Thumbnail)
	return media, nil
}
