package formulae

import (
	"fmt"
	"regexp"

	"pitlane/enums"
	"pitlane/models"
	"pitlane/util"
	"pitlane/util/networking"

	"go.uber.org/zap"
)

var BoxsetExtractor = &models.Extractor{
	Name:       "Formula E Boxset",
	CodeName:   "formulae_boxset",
	Type:       enums.ExtractorTypePlaylist,
	Category:   enums.ExtractorCategorySports,
	URLPattern: regexp.MustCompile(`https?://(?:www\.)?fiaformulae\.com/(?P<lang>[a-z]{2})/video/boxset/(?P<id>[0-9]+)[^\s]*`),
	Host:       []string{"fiaformulae"},

	Run: func(ctx *models.DownloadContext) (*models.ExtractorResponse, error) {
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
			return nil, fmt.Errorf("failed to get boxset page: %w", err)
		}

		playlist, err := ParseBoxsetPage(
			ctx.Extractor,
			body,
			ctx.MatchedContentID,
			ctx.MatchedContentURL,
		)
		if err != nil {
			return nil, err
		}
		zap.S().Debugf("boxset %s: %d entries", playlist.ContentID, len(playlist.Entries))

		return &models.ExtractorResponse{
			Type:     enums.ResultTypePlaylist,
			Playlist: playlist,
		}, nil
	},
}
