package parser

import (
	"testing"

	"pitlane/enums"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unki2aut/go-mpd"
)

const testMPDURL = "https://manifest.example.com/race/manifest.mpd"

const testTemplateMPD = `<?xml version="1.0" encoding="UTF-8"?>
<MPD xmlns="urn:mpeg:dash:schema:mpd:2011" type="static" mediaPresentationDuration="PT36M58.667S" minBufferTime="PT2S" profiles="urn:mpeg:dash:profile:isoff-live:2011">
  <Period id="0" start="PT0S">
    <AdaptationSet mimeType="video/mp4" segmentAlignment="true" startWithSAP="1">
      <SegmentTemplate timescale="1000" duration="10000" startNumber="1" initialization="video/$RepresentationID$/init.mp4" media="video/$RepresentationID$/seg-$Number%05d$.m4s"/>
      <Representation id="v720" bandwidth="2400000" codecs="avc1.64001f" width="1280" height="720"/>
    </AdaptationSet>
    <AdaptationSet mimeType="audio/mp4" lang="en" segmentAlignment="true">
      <SegmentTemplate timescale="1000" duration="10000" startNumber="1" initialization="audio/$RepresentationID$/init.mp4" media="audio/$RepresentationID$/seg-$Number$.m4s"/>
      <Representation id="a128" bandwidth="128000" codecs="mp4a.40.2"/>
    </AdaptationSet>
    <AdaptationSet mimeType="video/mp4">
      <ContentProtection schemeIdUri="urn:mpeg:dash:mp4protection:2011" value="cenc"/>
      <Representation id="drm" bandwidth="5000000" codecs="avc1.640028"/>
    </AdaptationSet>
  </Period>
</MPD>`

const testTimelineMPD = `<?xml version="1.0" encoding="UTF-8"?>
<MPD xmlns="urn:mpeg:dash:schema:mpd:2011" type="static" mediaPresentationDuration="PT14S" minBufferTime="PT2S">
  <BaseURL>https://cdn.example.com/race/</BaseURL>
  <Period id="0">
    <AdaptationSet mimeType="video/mp4">
      <SegmentTemplate timescale="1000" initialization="init-$RepresentationID$.mp4" media="seg-$RepresentationID$-$Time$.m4s">
        <SegmentTimeline>
          <S t="0" d="4000" r="2"/>
          <S d="2000"/>
        </SegmentTimeline>
      </SegmentTemplate>
      <Representation id="v1" bandwidth="800000" codecs="avc1.4d401f" width="640" height="360"/>
    </AdaptationSet>
  </Period>
</MPD>`

func TestParseMPDContentTemplate(t *testing.T) {
	formats, err := ParseMPDContent([]byte(testTemplateMPD), testMPDURL)
	require.NoError(t, err)
	require.Len(t, formats, 2, "protected adaptation sets are skipped")

	video := formats[0]
	assert.Equal(t, "dash-v720", video.FormatID)
	assert.Equal(t, enums.MediaTypeVideo, video.Type)
	assert.Equal(t, enums.MediaCodecAVC, video.VideoCodec)
	assert.Equal(t, int64(2400000), video.Bitrate)
	assert.Equal(t, int64(1280), video.Width)
	assert.Equal(t, int64(720), video.Height)
	assert.Equal(t, int64(2218), video.Duration)
	assert.Equal(t, "https://manifest.example.com/race/video/v720/init.mp4", video.InitSegment)
	require.Len(t, video.Segments, 222)
	assert.Equal(t, "https://manifest.example.com/race/video/v720/seg-00001.m4s", video.Segments[0])
	assert.Equal(t, "https://manifest.example.com/race/video/v720/seg-00222.m4s", video.Segments[221])

	audio := formats[1]
	assert.Equal(t, "dash-a128", audio.FormatID)
	assert.Equal(t, enums.MediaTypeAudio, audio.Type)
	assert.Equal(t, enums.MediaCodecAAC, audio.AudioCodec)
	assert.Equal(t, "https://manifest.example.com/race/audio/a128/seg-1.m4s", audio.Segments[0])
}

func TestParseMPDContentTimeline(t *testing.T) {
	formats, err := ParseMPDContent([]byte(testTimelineMPD), testMPDURL)
	require.NoError(t, err)
	require.Len(t, formats, 1)

	format := formats[0]
	assert.Equal(t, int64(14), format.Duration)
	assert.Equal(t, "https://cdn.example.com/race/init-v1.mp4", format.InitSegment)
	assert.Equal(t, []string{
		"https://cdn.example.com/race/seg-v1-0.m4s",
		"https://cdn.example.com/race/seg-v1-4000.m4s",
		"https://cdn.example.com/race/seg-v1-8000.m4s",
		"https://cdn.example.com/race/seg-v1-12000.m4s",
	}, format.Segments)
}

func TestParseMPDContentInvalid(t *testing.T) {
	_, err := ParseMPDContent([]byte("not xml"), testMPDURL)
	assert.Error(t, err)

	_, err = ParseMPDContent([]byte(`<MPD xmlns="urn:mpeg:dash:schema:mpd:2011" type="static"></MPD>`), testMPDURL)
	assert.ErrorContains(t, err, "no periods")
}

func TestExpandSegmentTemplate(t *testing.T) {
	id := "v720"
	bandwidth := uint64(2400000)
	representation := mpd.Representation{ID: &id, Bandwidth: &bandwidth}

	assert.Equal(t,
		"v720/2400000/seg-7-900.m4s",
		expandSegmentTemplate("$RepresentationID$/$Bandwidth$/seg-$Number$-$Time$.m4s", representation, 7, 900),
	)
	assert.Equal(t, "seg-007.m4s", expandSegmentTemplate("seg-$Number%03d$.m4s", representation, 7, 0))
	assert.Equal(t, "seg-$Unknown$.m4s", expandSegmentTemplate("seg-$Unknown$.m4s", representation, 7, 0))
}
