package brightcove

import (
	"testing"

	"pitlane/enums"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestFindPolicyKey(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		expected string
	}{
		{"double quotes", `{policyKey:"BCpkA-1"}`, "BCpkA-1"},
		{"single quotes", `{policyKey: 'BCpkA-2'}`, "BCpkA-2"},
		{"json style", `{"accountId":"1",policyKey : "BCpkA-3"}`, "BCpkA-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := FindPolicyKey([]byte(tt.script))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, key)
		})
	}

	_, err := FindPolicyKey([]byte(`{accountId:"1"}`))
	assert.ErrorIs(t, err, ErrNoPolicyKey)
}

func TestParsePlaybackError(t *testing.T) {
	playbackErr := ParsePlaybackError([]byte(
		`[{"error_code":"ACCESS_DENIED","error_subcode":"CLIENT_GEO","message":"forbidden"}]`,
	))
	require.NotNil(t, playbackErr)
	assert.Equal(t, "ACCESS_DENIED", playbackErr.Code)
	assert.Equal(t, "CLIENT_GEO", playbackErr.Subcode)
	assert.Equal(t, "forbidden", playbackErr.Message)

	playbackErr = ParsePlaybackError([]byte(`{"error_code":"VIDEO_NOT_FOUND"}`))
	require.NotNil(t, playbackErr)
	assert.Equal(t, "VIDEO_NOT_FOUND", playbackErr.Code)

	assert.Nil(t, ParsePlaybackError([]byte(`{"id":"1"}`)))
	assert.Nil(t, ParsePlaybackError([]byte(`not json`)))
}

func TestParseSources(t *testing.T) {
	video := gjson.Parse(`{"sources":[
		{"type":"application/x-mpegURL","src":"https://a/master.m3u8"},
		{"type":"application/dash+xml","src":"https://a/manifest.mpd","key_systems":{"com.widevine.alpha":{}}},
		{"container":"MP4","codec":"H264","width":640,"height":360,"avg_bitrate":800000,"size":1000,"duration":5000,"src":"https://a/low.mp4"},
		{"container":"MP4","codec":"H264","streaming_src":"rtmp://a/stream"},
		{"type":"video/mp4"}
	]}`)

	sources := ParseSources(video)
	require.Len(t, sources, 4)

	assert.True(t, isHLS(sources[0]))
	assert.False(t, sources[0].Protected)

	assert.True(t, isDASH(sources[1]))
	assert.True(t, sources[1].Protected)

	assert.True(t, isProgressive(sources[2]))
	assert.Equal(t, int64(640), sources[2].Width)
	assert.Equal(t, int64(360), sources[2].Height)
	assert.Equal(t, int64(800000), sources[2].AvgBitrate)
	assert.Equal(t, int64(5000), sources[2].Duration)

	assert.Equal(t, "rtmp://a/stream", sources[3].Src)
}

func TestPreferHTTPS(t *testing.T) {
	sources := []*Source{
		{Src: "http://a/master.m3u8"},
		{Src: "https://a/master.m3u8"},
		{Src: "http://b/only-plain.mp4"},
	}
	filtered := preferHTTPS(sources)
	require.Len(t, filtered, 2)
	assert.Equal(t, "https://a/master.m3u8", filtered[0].Src)
	assert.Equal(t, "http://b/only-plain.mp4", filtered[1].Src)
}

func TestProgressiveFormat(t *testing.T) {
	format := progressiveFormat(&Source{
		Src:        "https://a/high.mp4",
		Container:  "MP4",
		Codec:      "H264",
		Width:      1920,
		Height:     1080,
		AvgBitrate: 5000000,
		Size:       2048,
		Duration:   10500,
	})
	assert.Equal(t, "mp4-1080p", format.FormatID)
	assert.Equal(t, enums.MediaTypeVideo, format.Type)
	assert.Equal(t, enums.MediaCodecAVC, format.VideoCodec)
	assert.Equal(t, enums.MediaCodecAAC, format.AudioCodec)
	assert.Equal(t, int64(10), format.Duration)
	assert.Equal(t, int64(2048), format.FileSize)
	assert.Equal(t, []string{"https://a/high.mp4"}, format.URL)

	assert.Equal(t, "mp4-800", progressiveFormat(&Source{AvgBitrate: 800000}).FormatID)
	assert.Equal(t, "mp4", progressiveFormat(&Source{}).FormatID)
	assert.Equal(t, enums.MediaCodecHEVC, progressiveFormat(&Source{Codec: "H265"}).VideoCodec)
}

func TestUploadDate(t *testing.T) {
	date, timestamp, ok := UploadDate("2023-11-27T09:34:41.000Z")
	require.True(t, ok)
	assert.Equal(t, "20231127", date)
	assert.Equal(t, int64(1701077681), timestamp)

	date, _, ok = UploadDate("2023-11-27T23:30:00-05:00")
	require.True(t, ok)
	assert.Equal(t, "20231128", date)

	_, _, ok = UploadDate("")
	assert.False(t, ok)
	_, _, ok = UploadDate("last week")
	assert.False(t, ok)
}
