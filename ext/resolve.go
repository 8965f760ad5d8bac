package ext

import (
	"context"
	"fmt"

	"pitlane/config"
	"pitlane/database"
	"pitlane/enums"
	"pitlane/models"
	"pitlane/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ResolveOptions struct {
	// FlatPlaylist leaves playlist entries unresolved.
	FlatPlaylist bool
	// Concurrency bounds the playlist entries resolved at once.
	Concurrency int
	// NoCache skips the metadata cache for reads and writes.
	NoCache bool
}

func (opts *ResolveOptions) ensure() *ResolveOptions {
	if opts == nil {
		opts = &ResolveOptions{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = config.Env.Concurrency
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return opts
}

// Resolve turns url into a video or playlist response, following
// url and url_transparent results along the way.
func Resolve(
	ctx context.Context,
	url string,
	opts *ResolveOptions,
) (*models.ExtractorResponse, error) {
	dlCtx, err := CtxByURL(url)
	if err != nil {
		return nil, err
	}
	if dlCtx == nil {
		if matchURL(url, true) != nil {
			return nil, util.ErrExtractorDisabled
		}
		return nil, util.ErrUnsupportedURL
	}
	return ResolveCtx(ctx, dlCtx, opts)
}

func ResolveCtx(
	ctx context.Context,
	dlCtx *models.DownloadContext,
	opts *ResolveOptions,
) (*models.ExtractorResponse, error) {
	opts = opts.ensure()

	useCache := !opts.NoCache && config.Env.Caching && database.IsStarted()
	cacheCodeName := dlCtx.Extractor.CodeName
	cacheContentID := dlCtx.MatchedContentID

	if useCache && dlCtx.Extractor.Type == enums.ExtractorTypeSingle {
		cached, err := database.GetMedia(cacheCodeName, cacheContentID)
		if err != nil {
			zap.S().Warnf("failed to read cache: %v", err)
		} else if next := formatsContext(cached); next != nil {
			zap.S().Debugf("cache hit for %s:%s", cacheCodeName, cacheContentID)
			return resolveCached(ctx, next, cached, opts)
		}
	}

	// metadata of every url_transparent hop, outermost first
	var transparent []*models.Media

	for redirects := 0; ; {
		dlCtx.Context = ctx
		zap.S().Debugf("running %s on %s", dlCtx.Extractor.CodeName, dlCtx.MatchedContentURL)

		response, err := dlCtx.Extractor.Run(dlCtx)
		if err != nil {
			return nil, err
		}
		if response == nil {
			return nil, util.ErrEmptyResponse
		}

		switch response.Type {
		case enums.ResultTypeVideo:
			if len(response.MediaList) == 0 {
				return nil, util.ErrEmptyResponse
			}
			media := response.MediaList[0]
			mergeTransparent(media, transparent)
			// only metadata gathered before the last hop is worth caching
			if useCache && len(transparent) > 0 {
				row := *media
				row.FormatsURL = dlCtx.MatchedContentURL
				row.FormatsExtractor = dlCtx.Extractor.CodeName
				if err := database.StoreMedia(cacheCodeName, cacheContentID, &row); err != nil {
					zap.S().Warnf("failed to store cache: %v", err)
				}
			}
			return &models.ExtractorResponse{
				Type:      enums.ResultTypeVideo,
				MediaList: []*models.Media{media},
			}, nil

		case enums.ResultTypePlaylist:
			if response.Playlist == nil {
				return nil, util.ErrEmptyResponse
			}
			if !opts.FlatPlaylist {
				if err := resolveEntries(ctx, response.Playlist, opts); err != nil {
					return nil, err
				}
			}
			return response, nil

		case enums.ResultTypeURL, enums.ResultTypeURLTransparent:
			if response.URL == "" {
				return nil, util.ErrMissingRedirectURL
			}
			if outer := response.Transparent(); outer != nil {
				transparent = append(transparent, outer)
			}
			if redirects >= maxRedirects {
				return nil, util.ErrTooManyRedirects
			}
			redirects++

			next := nextContext(response)
			if next != nil {
				dlCtx = next
				continue
			}
			if response.Type == enums.ResultTypeURL {
				return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedURL, response.URL)
			}
			// nobody can take over, hand back what is known so far
			zap.S().Debugf("no extractor for %s, returning transparent result", response.URL)
			media := &models.Media{}
			mergeTransparent(media, transparent)
			return &models.ExtractorResponse{
				Type:      enums.ResultTypeURLTransparent,
				MediaList: []*models.Media{media},
				URL:       response.URL,
				IEKey:     response.IEKey,
			}, nil

		default:
			return nil, fmt.Errorf("%w: %q", util.ErrUnknownResultType, response.Type)
		}
	}
}

// formatsContext points back at the extractor that produced the
// formats of a cached record, nil when it cannot be run.
func formatsContext(cached *models.Media) *models.DownloadContext {
	if cached == nil || cached.FormatsURL == "" {
		return nil
	}
	return CtxByExtractor(ByCodeName(cached.FormatsExtractor), cached.FormatsURL)
}

// resolveCached runs the formats hop again, its urls are signed and
// expire, and lays the cached metadata over the fresh result.
func resolveCached(
	ctx context.Context,
	next *models.DownloadContext,
	cached *models.Media,
	opts *ResolveOptions,
) (*models.ExtractorResponse, error) {
	response, err := ResolveCtx(ctx, next, &ResolveOptions{
		Concurrency: opts.Concurrency,
		NoCache:     true,
	})
	if err != nil {
		return nil, err
	}
	if response.Type != enums.ResultTypeVideo {
		return nil, fmt.Errorf("%w: %q", util.ErrUnknownResultType, response.Type)
	}
	media := response.MediaList[0]
	media.MergeTransparent(cached)
	return response, nil
}

// nextContext picks the extractor for a redirect, by IEKey when set.
func nextContext(response *models.ExtractorResponse) *models.DownloadContext {
	if response.IEKey != "" {
		return CtxByExtractor(ByCodeName(response.IEKey), response.URL)
	}
	ctx, err := CtxByURL(response.URL)
	if err != nil {
		zap.S().Debugf("failed to match %s: %v", response.URL, err)
		return nil
	}
	return ctx
}

// mergeTransparent applies the innermost record first so the
// outermost one wins.
func mergeTransparent(media *models.Media, transparent []*models.Media) {
	for i := len(transparent) - 1; i >= 0; i-- {
		media.MergeTransparent(transparent[i])
	}
}

func resolveEntries(
	ctx context.Context,
	playlist *models.Playlist,
	opts *ResolveOptions,
) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Concurrency)

	for _, entry := range playlist.Entries {
		group.Go(func() error {
			var dlCtx *models.DownloadContext
			if entry.IEKey != "" {
				dlCtx = CtxByExtractor(ByCodeName(entry.IEKey), entry.URL)
			}
			if dlCtx == nil {
				var err error
				dlCtx, err = CtxByURL(entry.URL)
				if err != nil {
					return err
				}
			}
			if dlCtx == nil {
				return fmt.Errorf("%w: %s", util.ErrUnsupportedURL, entry.URL)
			}
			response, err := ResolveCtx(groupCtx, dlCtx, opts)
			if err != nil {
				return fmt.Errorf("failed to resolve entry %s: %w", entry.URL, err)
			}
			if len(response.MediaList) > 0 {
				entry.Media = response.MediaList[0]
			}
			return nil
		})
	}
	return group.Wait()
}
