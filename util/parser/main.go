package parser

import (
	"net/url"
	"strings"
	"time"

	"pitlane/enums"
)

const (
	defaultFetchTimeout  = 30 * time.Second
	maxConcurrentFetches = 4
)

type ParseOptions struct {
	// FetchChildren fetches variant and rendition playlists to
	// fill in durations and segments.
	FetchChildren  bool
	MaxConcurrency int
	Timeout        time.Duration
	Headers        map[string]string
}

func DefaultParseOptions() *ParseOptions {
	return &ParseOptions{
		FetchChildren:  true,
		MaxConcurrency: maxConcurrentFetches,
		Timeout:        defaultFetchTimeout,
	}
}

func (opts *ParseOptions) ensure() *ParseOptions {
	if opts == nil {
		return DefaultParseOptions()
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = maxConcurrentFetches
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultFetchTimeout
	}
	return opts
}

func getVideoCodec(codecs string) enums.MediaCodec {
	codecs = strings.ToLower(codecs)
	switch {
	case strings.Contains(codecs, "avc") || strings.Contains(codecs, "h264"):
		return enums.MediaCodecAVC
	case strings.Contains(codecs, "hvc") || strings.Contains(codecs, "h265") || strings.Contains(codecs, "hev1"):
		return enums.MediaCodecHEVC
	case strings.Contains(codecs, "av01"):
		return enums.MediaCodecAV1
	case strings.Contains(codecs, "vp9") || strings.Contains(codecs, "vp09"):
		return enums.MediaCodecVP9
	case strings.Contains(codecs, "vp8"):
		return enums.MediaCodecVP8
	default:
		return ""
	}
}

func getAudioCodec(codecs string) enums.MediaCodec {
	codecs = strings.ToLower(codecs)
	switch {
	case strings.Contains(codecs, "mp4a"):
		return enums.MediaCodecAAC
	case strings.Contains(codecs, "opus"):
		return enums.MediaCodecOpus
	case strings.Contains(codecs, "mp3"):
		return enums.MediaCodecMP3
	case strings.Contains(codecs, "flac"):
		return enums.MediaCodecFLAC
	case strings.Contains(codecs, "vorbis"):
		return enums.MediaCodecVorbis
	default:
		return ""
	}
}

// GetVideoCodec maps a codec name as sites spell it ("H264", "avc1.64001f")
// to a MediaCodec.
func GetVideoCodec(codecs string) enums.MediaCodec {
	return getVideoCodec(codecs)
}

func resolveURL(base *url.URL, uri string) string {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri
	}
	ref, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return base.ResolveReference(ref).String()
}
