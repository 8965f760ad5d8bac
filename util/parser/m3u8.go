package parser

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"pitlane/enums"
	"pitlane/models"
	"pitlane/util"

	"github.com/grafov/m3u8"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func ParseM3U8FromURL(
	ctx context.Context,
	client models.HTTPClient,
	playlistURL string,
	opts *ParseOptions,
) ([]*models.MediaFormat, error) {
	opts = opts.ensure()
	body, err := fetchManifest(ctx, client, playlistURL, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch m3u8 content: %w", err)
	}
	return ParseM3U8Content(ctx, client, body, playlistURL, opts)
}

func ParseM3U8Content(
	ctx context.Context,
	client models.HTTPClient,
	content []byte,
	baseURL string,
	opts *ParseOptions,
) ([]*models.MediaFormat, error) {
	opts = opts.ensure()
	baseURLObj, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	buf := bytes.NewBuffer(content)
	playlist, listType, err := m3u8.DecodeFrom(buf, true)
	if err != nil {
		return nil, fmt.Errorf("failed parsing m3u8: %w", err)
	}

	switch listType {
	case m3u8.MASTER:
		formats := parseMasterPlaylist(
			playlist.(*m3u8.MasterPlaylist),
			baseURLObj,
		)
		if opts.FetchChildren {
			fillFromChildren(ctx, client, formats, opts)
		}
		return formats, nil
	case m3u8.MEDIA:
		return []*models.MediaFormat{
			parseMediaPlaylist(
				playlist.(*m3u8.MediaPlaylist),
				baseURLObj,
			),
		}, nil
	}

	return nil, errors.New("unsupported m3u8 playlist type")
}

func parseMasterPlaylist(
	playlist *m3u8.MasterPlaylist,
	baseURL *url.URL,
) []*models.MediaFormat {
	formats := make([]*models.MediaFormat, 0, len(playlist.Variants)*2)

	seenAlternatives := make(map[string]bool)
	for _, variant := range playlist.Variants {
		if variant == nil || variant.URI == "" {
			continue
		}
		for _, alt := range variant.Alternatives {
			if alt == nil || seenAlternatives[alt.GroupId+alt.URI] {
				continue
			}
			seenAlternatives[alt.GroupId+alt.URI] = true
			format := parseAlternative(playlist.Variants, alt, baseURL)
			if format != nil {
				formats = append(formats, format)
			}
		}
		width, height := getResolution(variant.Resolution)
		mediaType, videoCodec, audioCodec := parseVariantType(variant)
		if variant.Audio != "" && videoCodec != "" {
			// audio is carried by a separate rendition
			audioCodec = ""
		}
		formats = append(formats, &models.MediaFormat{
			FormatID:   fmt.Sprintf("hls-%d", variant.Bandwidth/1000),
			Type:       mediaType,
			VideoCodec: videoCodec,
			AudioCodec: audioCodec,
			Bitrate:    int64(variant.Bandwidth),
			Width:      width,
			Height:     height,
			URL:        []string{resolveURL(baseURL, variant.URI)},
		})
	}
	return formats
}

func parseMediaPlaylist(
	playlist *m3u8.MediaPlaylist,
	baseURL *url.URL,
) *models.MediaFormat {
	segments := make([]string, 0, len(playlist.Segments))

	format := &models.MediaFormat{
		FormatID: "hls",
		URL:      []string{baseURL.String()},
	}
	if playlist.Map != nil && playlist.Map.URI != "" {
		format.InitSegment = resolveURL(baseURL, playlist.Map.URI)
	}

	var totalDuration float64
	for _, segment := range playlist.Segments {
		if segment == nil || segment.URI == "" {
			continue
		}
		segments = append(segments, resolveURL(baseURL, segment.URI))
		totalDuration += segment.Duration
	}
	format.Segments = segments
	format.Duration = int64(totalDuration)
	return format
}

func parseAlternative(
	variants []*m3u8.Variant,
	alternative *m3u8.Alternative,
	baseURL *url.URL,
) *models.MediaFormat {
	if alternative.URI == "" || alternative.Type != "AUDIO" {
		return nil
	}
	formatID := "hls-audio-" + alternative.GroupId
	if alternative.Name != "" {
		formatID += "-" + alternative.Name
	}
	return &models.MediaFormat{
		FormatID:   formatID,
		Type:       enums.MediaTypeAudio,
		AudioCodec: getAudioAlternativeCodec(variants, alternative),
		URL:        []string{resolveURL(baseURL, alternative.URI)},
	}
}

func getAudioAlternativeCodec(
	variants []*m3u8.Variant,
	alt *m3u8.Alternative,
) enums.MediaCodec {
	for _, variant := range variants {
		if variant == nil || variant.Audio != alt.GroupId {
			continue
		}
		if audioCodec := getAudioCodec(variant.Codecs); audioCodec != "" {
			return audioCodec
		}
	}
	return ""
}

// fillFromChildren fetches the playlist behind every format and copies
// its segments and duration. Failures only cost the extra details.
func fillFromChildren(
	ctx context.Context,
	client models.HTTPClient,
	formats []*models.MediaFormat,
	opts *ParseOptions,
) {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(opts.MaxConcurrency)

	for _, format := range formats {
		group.Go(func() error {
			childURL := format.URL[0]
			content, err := fetchManifest(groupCtx, client, childURL, opts)
			if err != nil {
				zap.S().Debugf("skipping child playlist %s: %v", childURL, err)
				return nil
			}
			childURLObj, err := url.Parse(childURL)
			if err != nil {
				return nil
			}
			playlist, listType, err := m3u8.DecodeFrom(bytes.NewBuffer(content), true)
			if err != nil || listType != m3u8.MEDIA {
				zap.S().Debugf("skipping child playlist %s: not a media playlist", childURL)
				return nil
			}
			child := parseMediaPlaylist(playlist.(*m3u8.MediaPlaylist), childURLObj)
			format.Segments = child.Segments
			format.InitSegment = child.InitSegment
			if child.Duration > 0 {
				format.Duration = child.Duration
			}
			return nil
		})
	}
	_ = group.Wait()
}

func fetchManifest(
	ctx context.Context,
	client models.HTTPClient,
	manifestURL string,
	opts *ParseOptions,
) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	return util.FetchBody(fetchCtx, client, manifestURL, opts.Headers, nil)
}

func getResolution(
	resolution string,
) (int64, int64) {
	var width, height int
	if _, err := fmt.Sscanf(resolution, "%dx%d", &width, &height); err == nil {
		return int64(width), int64(height)
	}
	return 0, 0
}

func parseVariantType(
	variant *m3u8.Variant,
) (enums.MediaType, enums.MediaCodec, enums.MediaCodec) {
	var mediaType enums.MediaType

	videoCodec := getVideoCodec(variant.Codecs)
	audioCodec := getAudioCodec(variant.Codecs)

	switch {
	case videoCodec != "", variant.Resolution != "":
		mediaType = enums.MediaTypeVideo
	case audioCodec != "":
		mediaType = enums.MediaTypeAudio
	}

	return mediaType, videoCodec, audioCodec
}
