package parser

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"pitlane/enums"
	"pitlane/models"

	"github.com/pkg/errors"
	"github.com/unki2aut/go-mpd"
	"github.com/unki2aut/go-xsd-types"
	"go.uber.org/zap"
)

var segmentTemplateRE = regexp.MustCompile(`\$([A-Za-z]+)(?:\%0(\d+)d)?\$`)

func ParseMPDFromURL(
	ctx context.Context,
	client models.HTTPClient,
	manifestURL string,
	opts *ParseOptions,
) ([]*models.MediaFormat, error) {
	opts = opts.ensure()
	body, err := fetchManifest(ctx, client, manifestURL, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch MPD content: %w", err)
	}
	return ParseMPDContent(body, manifestURL)
}

func ParseMPDContent(content []byte, baseURL string) ([]*models.MediaFormat, error) {
	baseURLObj, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	mpdDoc := &mpd.MPD{}
	if err := mpdDoc.Decode(content); err != nil {
		return nil, fmt.Errorf("failed parsing MPD: %w", err)
	}
	if len(mpdDoc.Period) == 0 {
		return nil, errors.New("no periods found in mpd")
	}

	// only the first period, multi period manifests are ads or live
	period := mpdDoc.Period[0]
	if len(period.AdaptationSets) == 0 {
		return nil, errors.New("no adaptation sets found in period")
	}

	periodBaseURL := resolveBaseURL(resolveBaseURL(baseURLObj, mpdDoc.BaseURL), period.BaseURL)

	var formats []*models.MediaFormat
	for _, adaptationSet := range period.AdaptationSets {
		if adaptationSet == nil || len(adaptationSet.Representations) == 0 {
			continue
		}
		if len(adaptationSet.ContentProtections) > 0 {
			zap.S().Debug("skipping protected adaptation set")
			continue
		}
		adaptationBaseURL := resolveBaseURL(periodBaseURL, adaptationSet.BaseURL)
		for _, representation := range adaptationSet.Representations {
			if representation.ID == nil || representation.Bandwidth == nil {
				continue
			}
			format := processRepresentation(
				representation, adaptationSet,
				adaptationBaseURL, mpdDoc,
			)
			formats = append(formats, format)
		}
	}
	return formats, nil
}

func processRepresentation(
	representation mpd.Representation,
	adaptationSet *mpd.AdaptationSet,
	baseURL *url.URL,
	mpdDoc *mpd.MPD,
) *models.MediaFormat {
	mediaType, videoCodec, audioCodec := parseAdaptationSetType(adaptationSet, representation)
	representationBaseURL := resolveBaseURL(baseURL, representation.BaseURL)

	var width, height int64
	if representation.Width != nil {
		width = int64(*representation.Width)
	}
	if representation.Height != nil {
		height = int64(*representation.Height)
	}

	format := &models.MediaFormat{
		FormatID:   fmt.Sprintf("dash-%s", *representation.ID),
		Type:       mediaType,
		VideoCodec: videoCodec,
		AudioCodec: audioCodec,
		Bitrate:    int64(*representation.Bandwidth),
		Width:      width,
		Height:     height,
		URL:        []string{representationBaseURL.String()},
		Duration:   getTotalDurationSeconds(mpdDoc.MediaPresentationDuration),
	}

	segmentTemplate := representation.SegmentTemplate
	if segmentTemplate == nil {
		segmentTemplate = adaptationSet.SegmentTemplate
	}
	if segmentTemplate != nil {
		if segmentTemplate.Initialization != nil {
			initURL := expandSegmentTemplate(*segmentTemplate.Initialization, representation, 0, 0)
			format.InitSegment = resolveURL(representationBaseURL, initURL)
		}
		switch {
		case segmentTemplate.SegmentTimeline != nil:
			format.Segments = extractTimelineSegments(segmentTemplate, representation, representationBaseURL)
		case segmentTemplate.Media != nil:
			count := calculateSegmentCount(segmentTemplate, format.Duration)
			format.Segments = extractTemplateSegments(segmentTemplate, representation, representationBaseURL, count)
		}
	}
	return format
}

func extractTimelineSegments(
	segmentTemplate *mpd.SegmentTemplate,
	representation mpd.Representation,
	baseURL *url.URL,
) []string {
	var segments []string
	if segmentTemplate.Media == nil || len(segmentTemplate.SegmentTimeline.S) == 0 {
		return segments
	}

	segmentNumber := uint64(1)
	if segmentTemplate.StartNumber != nil {
		segmentNumber = *segmentTemplate.StartNumber
	}
	var currentTime uint64

	for _, s := range segmentTemplate.SegmentTimeline.S {
		if s.T != nil {
			currentTime = *s.T
		}
		repeatCount := int64(0)
		if s.R != nil {
			repeatCount = *s.R
		}
		for i := int64(0); i <= repeatCount; i++ {
			mediaURL := expandSegmentTemplate(*segmentTemplate.Media, representation, segmentNumber, currentTime)
			segments = append(segments, resolveURL(baseURL, mediaURL))
			currentTime += s.D
			segmentNumber++
		}
	}
	return segments
}

func extractTemplateSegments(
	segmentTemplate *mpd.SegmentTemplate,
	representation mpd.Representation,
	baseURL *url.URL,
	segmentCount int,
) []string {
	segments := make([]string, 0, segmentCount)

	startNumber := uint64(1)
	if segmentTemplate.StartNumber != nil {
		startNumber = *segmentTemplate.StartNumber
	}
	for i := range segmentCount {
		mediaURL := expandSegmentTemplate(*segmentTemplate.Media, representation, startNumber+uint64(i), 0)
		segments = append(segments, resolveURL(baseURL, mediaURL))
	}
	return segments
}

func calculateSegmentCount(segmentTemplate *mpd.SegmentTemplate, totalDurationSeconds int64) int {
	segmentDurationSeconds := 10.0
	if segmentTemplate.Duration != nil && segmentTemplate.Timescale != nil && *segmentTemplate.Timescale > 0 {
		segmentDurationSeconds = float64(*segmentTemplate.Duration) / float64(*segmentTemplate.Timescale)
	}
	if totalDurationSeconds > 0 && segmentDurationSeconds > 0 {
		return int(math.Ceil(float64(totalDurationSeconds) / segmentDurationSeconds))
	}
	return 1
}

func expandSegmentTemplate(template string, representation mpd.Representation, number, time uint64) string {
	return segmentTemplateRE.ReplaceAllStringFunc(template, func(match string) string {
		submatch := segmentTemplateRE.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		width := 0
		if len(submatch) > 2 && submatch[2] != "" {
			width, _ = strconv.Atoi(submatch[2])
		}

		switch submatch[1] {
		case "RepresentationID":
			if representation.ID != nil {
				return *representation.ID
			}
		case "Number":
			if width > 0 {
				return fmt.Sprintf("%0*d", width, number)
			}
			return strconv.FormatUint(number, 10)
		case "Time":
			if width > 0 {
				return fmt.Sprintf("%0*d", width, time)
			}
			return strconv.FormatUint(time, 10)
		case "Bandwidth":
			if representation.Bandwidth != nil {
				return strconv.FormatUint(*representation.Bandwidth, 10)
			}
		}
		return match
	})
}

func getTotalDurationSeconds(duration *xsd.Duration) int64 {
	if duration == nil {
		return 0
	}
	total := float64(duration.Hours)*3600 +
		float64(duration.Minutes)*60 +
		float64(duration.Seconds)
	return int64(total)
}

func parseAdaptationSetType(
	adaptationSet *mpd.AdaptationSet,
	representation mpd.Representation,
) (enums.MediaType, enums.MediaCodec, enums.MediaCodec) {
	var codecs string
	if representation.Codecs != nil {
		codecs = *representation.Codecs
	} else if adaptationSet.Codecs != nil {
		codecs = *adaptationSet.Codecs
	}

	videoCodec := getVideoCodec(codecs)
	audioCodec := getAudioCodec(codecs)

	mimeType := strings.ToLower(adaptationSet.MimeType)
	var mediaType enums.MediaType

	switch {
	case strings.HasPrefix(mimeType, "video/") || videoCodec != "":
		mediaType = enums.MediaTypeVideo
	case strings.HasPrefix(mimeType, "audio/") || audioCodec != "":
		mediaType = enums.MediaTypeAudio
	case adaptationSet.ContentType != nil:
		switch strings.ToLower(*adaptationSet.ContentType) {
		case "video":
			mediaType = enums.MediaTypeVideo
		case "audio":
			mediaType = enums.MediaTypeAudio
		}
	}

	return mediaType, videoCodec, audioCodec
}

func resolveBaseURL(baseURL *url.URL, baseURLs []*mpd.BaseURL) *url.URL {
	if len(baseURLs) > 0 && baseURLs[0] != nil && baseURLs[0].Value != "" {
		if resolved, err := url.Parse(baseURLs[0].Value); err == nil {
			return baseURL.ResolveReference(resolved)
		}
	}
	return baseURL
}
