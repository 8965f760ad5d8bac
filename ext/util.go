package ext

import (
	"slices"

	"pitlane/config"
	"pitlane/models"
	"pitlane/util"

	"go.uber.org/zap"
)

var maxRedirects = 5

// CtxByURL matches url against the enabled extractors. Redirect
// extractors are run on the spot and their target matched again.
// It returns nil, nil when no extractor supports url.
func CtxByURL(url string) (*models.DownloadContext, error) {
	var redirectCount int

	currentURL := url

	for {
		ctx := matchURL(currentURL, false)
		if ctx == nil {
			return nil, nil
		}
		if !ctx.Extractor.IsRedirect {
			return ctx, nil
		}
		if redirectCount >= maxRedirects {
			return nil, util.ErrTooManyRedirects
		}

		response, err := ctx.Extractor.Run(ctx)
		if err != nil {
			return nil, err
		}
		if response == nil || response.URL == "" {
			return nil, util.ErrMissingRedirectURL
		}
		zap.S().Debugf("%s redirected to %s", ctx.Extractor.CodeName, response.URL)

		currentURL = response.URL
		redirectCount++
	}
}

func ByCodeName(codeName string) *models.Extractor {
	for _, extractor := range List {
		if extractor.CodeName == codeName {
			return extractor
		}
	}
	return nil
}

// CtxByExtractor matches url against a single extractor, nil when the
// pattern does not match or the extractor is disabled.
func CtxByExtractor(extractor *models.Extractor, url string) *models.DownloadContext {
	if extractor == nil || config.IsExtractorDisabled(extractor) {
		return nil
	}
	return newContext(extractor, url)
}

func matchURL(url string, includeDisabled bool) *models.DownloadContext {
	baseHost, err := util.ExtractBaseHost(url)
	if err != nil {
		zap.S().Debugf("failed to get base host of %s: %v", url, err)
		return nil
	}
	for _, extractor := range List {
		if !slices.Contains(extractor.Host, baseHost) {
			continue
		}
		if !includeDisabled && config.IsExtractorDisabled(extractor) {
			continue
		}
		if ctx := newContext(extractor, url); ctx != nil {
			return ctx
		}
	}
	return nil
}

func newContext(extractor *models.Extractor, url string) *models.DownloadContext {
	matches := extractor.URLPattern.FindStringSubmatch(url)
	if len(matches) == 0 {
		return nil
	}

	groupNames := extractor.URLPattern.SubexpNames()
	groups := make(map[string]string)
	for i, name := range groupNames {
		if name != "" {
			groups[name] = matches[i]
		}
	}
	groups["match"] = matches[0]

	return &models.DownloadContext{
		MatchedContentID:  groups["id"],
		MatchedContentURL: groups["match"],
		MatchedGroups:     groups,
		Extractor:         extractor,
	}
}
