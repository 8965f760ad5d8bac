package brightcove

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"pitlane/enums"
	"pitlane/models"
	"pitlane/util/parser"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var (
	policyKeyPattern = regexp.MustCompile(`policyKey\s*:\s*["']([^"']+)["']`)

	policyKeys   = make(map[string]string)
	policyKeysMu sync.Mutex
)

func policyCacheKey(accountID, playerID, embed string) string {
	return accountID + "/" + playerID + "_" + embed
}

func cachedPolicyKey(key string) (string, bool) {
	policyKeysMu.Lock()
	defer policyKeysMu.Unlock()
	policyKey, ok := policyKeys[key]
	return policyKey, ok
}

func storePolicyKey(key string, policyKey string) {
	policyKeysMu.Lock()
	defer policyKeysMu.Unlock()
	if policyKey == "" {
		delete(policyKeys, key)
		return
	}
	policyKeys[key] = policyKey
}

// FindPolicyKey extracts the policy key from a player script.
func FindPolicyKey(script []byte) (string, error) {
	matches := policyKeyPattern.FindSubmatch(script)
	if matches == nil {
		return "", ErrNoPolicyKey
	}
	return string(matches[1]), nil
}

func ParsePlaybackError(body []byte) *PlaybackError {
	result := gjson.ParseBytes(body)
	if result.IsArray() {
		result = result.Get("0")
	}
	code := result.Get("error_code").String()
	if code == "" {
		return nil
	}
	return &PlaybackError{
		Code:    code,
		Subcode: result.Get("error_subcode").String(),
		Message: result.Get("message").String(),
	}
}

func ParseSources(video gjson.Result) []*Source {
	var sources []*Source
	video.Get("sources").ForEach(func(_, value gjson.Result) bool {
		src := value.Get("src").String()
		if src == "" {
			src = value.Get("streaming_src").String()
		}
		if src == "" {
			return true
		}
		sources = append(sources, &Source{
			Src:        src,
			Type:       value.Get("type").String(),
			Container:  value.Get("container").String(),
			Codec:      value.Get("codec").String(),
			Width:      value.Get("width").Int(),
			Height:     value.Get("height").Int(),
			AvgBitrate: value.Get("avg_bitrate").Int(),
			Size:       value.Get("size").Int(),
			Duration:   value.Get("duration").Int(),
			Protected:  len(value.Get("key_systems").Map()) > 0,
		})
		return true
	})
	return sources
}

func isHLS(source *Source) bool {
	switch strings.ToLower(source.Type) {
	case "application/x-mpegurl", "application/vnd.apple.mpegurl":
		return true
	}
	return strings.Contains(source.Src, ".m3u8")
}

func isDASH(source *Source) bool {
	return strings.ToLower(source.Type) == "application/dash+xml" ||
		strings.Contains(source.Src, ".mpd")
}

func isProgressive(source *Source) bool {
	return strings.EqualFold(source.Container, "MP4") ||
		strings.EqualFold(source.Type, "video/mp4")
}

// preferHTTPS drops plain http sources that also come over https.
func preferHTTPS(sources []*Source) []*Source {
	secure := make(map[string]bool)
	for _, source := range sources {
		if rest, ok := strings.CutPrefix(source.Src, "https://"); ok {
			secure[rest] = true
		}
	}
	filtered := make([]*Source, 0, len(sources))
	for _, source := range sources {
		if rest, ok := strings.CutPrefix(source.Src, "http://"); ok && secure[rest] {
			continue
		}
		filtered = append(filtered, source)
	}
	return filtered
}

func progressiveFormat(source *Source) *models.MediaFormat {
	bitrate := source.AvgBitrate
	formatID := "mp4"
	switch {
	case source.Height > 0:
		formatID = fmt.Sprintf("mp4-%dp", source.Height)
	case bitrate > 0:
		formatID = fmt.Sprintf("mp4-%d", bitrate/1000)
	}
	videoCodec := parser.GetVideoCodec(source.Codec)
	if videoCodec == "" {
		videoCodec = enums.MediaCodecAVC
	}
	return &models.MediaFormat{
		Type:       enums.MediaTypeVideo,
		FormatID:   formatID,
		VideoCodec: videoCodec,
		AudioCodec: enums.MediaCodecAAC,
		Width:      source.Width,
		Height:     source.Height,
		Bitrate:    bitrate,
		FileSize:   source.Size,
		Duration:   source.Duration / 1000,
		URL:        []string{source.Src},
	}
}

// UploadDate converts a published_at value to YYYYMMDD and unix seconds.
func UploadDate(publishedAt string) (string, int64, bool) {
	if publishedAt == "" {
		return "", 0, false
	}
	parsed, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		zap.S().Debugf("bad published_at %q: %v", publishedAt, err)
		return "", 0, false
	}
	parsed = parsed.UTC()
	return parsed.Format("20060102"), parsed.Unix(), true
}
