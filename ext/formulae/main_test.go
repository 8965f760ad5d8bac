package formulae

import (
	"net/http"
	"testing"

	"pitlane/config"
	"pitlane/enums"
	"pitlane/internal/testutil"
	"pitlane/models"
	"pitlane/util"
	"pitlane/util/networking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPlayerURL = "https://www.fiaformulae.com/en/video/boxset/player/485168/full-race-2014-beijing-e-prix-round-1"
	testBoxsetURL = "https://www.fiaformulae.com/en/video/boxset/1/season-1"
	testThumbnail = "https://resources.formula-e.pulselive.com/formula-e/photo/2023/11/29/60afbb09-3a08-4983-b8ec-1aebd165ca62/RR_S1_BEIIJING.jpg"
)

func newRouter(t *testing.T, extractor *models.Extractor) *testutil.Router {
	t.Helper()
	router := testutil.NewRouter()
	networking.SetExtractorHTTPClient(extractor.CodeName, router)
	t.Cleanup(func() {
		networking.ResetExtractorClients()
		config.SetExtractorConfig(extractor.CodeName, nil)
	})
	return router
}

func newContext(t *testing.T, extractor *models.Extractor, url string) *models.DownloadContext {
	t.Helper()
	matches := extractor.URLPattern.FindStringSubmatch(url)
	require.NotNil(t, matches, "url should match %s", extractor.CodeName)
	groups := make(map[string]string)
	for i, name := range extractor.URLPattern.SubexpNames() {
		if name != "" {
			groups[name] = matches[i]
		}
	}
	return &models.DownloadContext{
		MatchedContentID:  groups["id"],
		MatchedContentURL: matches[0],
		MatchedGroups:     groups,
		Extractor:         extractor,
	}
}

func useSource(source string) {
	config.SetExtractorConfig(Extractor.CodeName, &models.ExtractorConfig{
		Args: map[string]string{"source": source},
	})
}

func TestURLPatterns(t *testing.T) {
	tests := []struct {
		url    string
		player bool
		boxset bool
		id     string
	}{
		{testPlayerURL, true, false, "485168"},
		{"http://fiaformulae.com/en/video/boxset/player/485168", true, false, "485168"},
		{"https://www.fiaformulae.com/de/video/boxset/player/485168/slug?autoplay=1", true, false, "485168"},
		{testBoxsetURL, false, true, "1"},
		{"https://www.fiaformulae.com/en/video/boxset/12", false, true, "12"},
		{"https://www.fiaformulae.com/en/news/485168", false, false, ""},
		{"https://www.fiaformulae.com/en/video/boxset/player/abc", false, false, ""},
		{"https://www.example.com/en/video/boxset/player/485168", false, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			playerMatch := Extractor.URLPattern.FindStringSubmatch(tt.url)
			boxsetMatch := BoxsetExtractor.URLPattern.FindStringSubmatch(tt.url)
			assert.Equal(t, tt.player, playerMatch != nil)
			assert.Equal(t, tt.boxset, boxsetMatch != nil)
			if playerMatch != nil {
				assert.Equal(t, tt.id, playerMatch[Extractor.URLPattern.SubexpIndex("id")])
			}
			if boxsetMatch != nil {
				assert.Equal(t, tt.id, boxsetMatch[BoxsetExtractor.URLPattern.SubexpIndex("id")])
			}
		})
	}
}

func TestRunAPISource(t *testing.T) {
	router := newRouter(t, Extractor)
	router.Handle("api.formula-e.pulselive.com", testutil.Serve(
		http.StatusOK, "application/json", testutil.Fixture(t, "video.json"),
	))

	response, err := Extractor.Run(newContext(t, Extractor, testPlayerURL))
	require.NoError(t, err)

	assert.Equal(t, enums.ResultTypeURLTransparent, response.Type)
	assert.Equal(t, "brightcove", response.IEKey)
	assert.Equal(t,
		"http://players.brightcove.net/6275361344001/default_default/index.html?videoId=6341829932112",
		response.URL,
	)

	media := response.Transparent()
	require.NotNil(t, media)
	assert.Equal(t, "6341829932112", media.ContentID)
	assert.Equal(t, testPlayerURL, media.ContentURL)
	assert.Equal(t, "formulae", media.ExtractorCodeName)
	assert.Equal(t, "FULL RACE: 2014 Beijing E-Prix, Round 1", media.Title)
	assert.Equal(t, "mp4", media.Ext)
	assert.Equal(t, "20231127", media.UploadDate.String)
	assert.Equal(t, "6275361344001", media.UploaderID.String)
	assert.Equal(t, int64(1701077681), media.Timestamp.Int64)
	assert.Equal(t, testThumbnail, media.Thumbnail.String)
	assert.Equal(t, "Relive the first ever Formula E race on the streets of Beijing.", media.Description.String)
	assert.Equal(t, int64(1), media.SeasonNumber.Int64)
	assert.Equal(t, "Season 1", media.Season.String)
	assert.Len(t, media.Tags, 8)
	assert.Contains(t, media.Tags, "season:1")
	assert.False(t, media.Duration.Valid, "duration is left to the player")

	requests := router.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "/content/formula-e/video/EN/485168", requests[0].URL.Path)
	assert.Equal(t, "application/json", requests[0].Header.Get("Accept"))
}

func TestRunAPISourceIsDeterministic(t *testing.T) {
	router := newRouter(t, Extractor)
	router.Handle("api.formula-e.pulselive.com", testutil.Serve(
		http.StatusOK, "application/json", testutil.Fixture(t, "video.json"),
	))

	first, err := Extractor.Run(newContext(t, Extractor, testPlayerURL))
	require.NoError(t, err)
	second, err := Extractor.Run(newContext(t, Extractor, testPlayerURL))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first.Transparent(), second.Transparent())
}

func TestRunAPISourceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		err    error
	}{
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"error":"not found"}`,
			err:    util.ErrUnavailable,
		},
		{
			name:   "no season tag",
			status: http.StatusOK,
			body:   `{"title":"t","mediaId":"1","date":"2023-11-27","tags":[{"label":"content:registered"}]}`,
			err:    ErrNoSeasonTag,
		},
		{
			name:   "bad season suffix",
			status: http.StatusOK,
			body:   `{"title":"t","mediaId":"1","date":"2023-11-27","tags":[{"label":"season:one"}]}`,
			err:    ErrNoSeasonTag,
		},
		{
			name:   "bad date",
			status: http.StatusOK,
			body:   `{"title":"t","mediaId":"1","date":"27 November","tags":[{"label":"season:1"}]}`,
			err:    ErrInvalidDate,
		},
		{
			name:   "no media id",
			status: http.StatusOK,
			body:   `{"title":"t","date":"2023-11-27","tags":[{"label":"season:1"}]}`,
			err:    ErrMissingField,
		},
		{
			name:   "no title",
			status: http.StatusOK,
			body:   `{"mediaId":"1","date":"2023-11-27","tags":[{"label":"season:1"}]}`,
			err:    ErrMissingField,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, Extractor)
			router.Handle("api.formula-e.pulselive.com", testutil.Serve(
				tt.status, "application/json", []byte(tt.body),
			))
			_, err := Extractor.Run(newContext(t, Extractor, testPlayerURL))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRunAPISourceServerError(t *testing.T) {
	router := newRouter(t, Extractor)
	router.Handle("api.formula-e.pulselive.com", testutil.Serve(
		http.StatusBadGateway, "text/plain", []byte("bad gateway"),
	))

	_, err := Extractor.Run(newContext(t, Extractor, testPlayerURL))
	var statusErr *util.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestRunWebpageSource(t *testing.T) {
	router := newRouter(t, Extractor)
	useSource("webpage")
	router.Handle("www.fiaformulae.com", testutil.Serve(
		http.StatusOK, "text/html", testutil.Fixture(t, "player.html"),
	))

	response, err := Extractor.Run(newContext(t, Extractor, testPlayerURL))
	require.NoError(t, err)

	assert.Equal(t, enums.ResultTypeURLTransparent, response.Type)
	assert.Equal(t, "brightcove", response.IEKey)
	assert.Equal(t,
		"http://players.brightcove.net/6275361344001/default_default/index.html?videoId=6341829932112",
		response.URL,
	)

	media := response.Transparent()
	require.NotNil(t, media)
	assert.Equal(t, "6341829932112", media.ContentID)
	assert.Equal(t, "FULL RACE: 2014 Beijing E-Prix, Round 1", media.Title)
	assert.Equal(t, "mp4", media.Ext)
	assert.Equal(t, "20231127", media.UploadDate.String)
	assert.Equal(t, "6275361344001", media.UploaderID.String)
	assert.Equal(t, testThumbnail, media.Thumbnail.String)
	assert.Empty(t, media.Tags)
	assert.False(t, media.SeasonNumber.Valid)

	requests := router.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, testPlayerURL, requests[0].URL.String())
}

func TestRunWebpageSourceMissingMarkup(t *testing.T) {
	router := newRouter(t, Extractor)
	useSource("webpage")
	router.Handle("www.fiaformulae.com", testutil.Serve(
		http.StatusOK, "text/html", []byte("<html><body><p>maintenance</p></body></html>"),
	))

	_, err := Extractor.Run(newContext(t, Extractor, testPlayerURL))
	assert.ErrorIs(t, err, ErrMissingMarkup)
}

func TestRunUnknownSource(t *testing.T) {
	router := newRouter(t, Extractor)
	useSource("rss")

	_, err := Extractor.Run(newContext(t, Extractor, testPlayerURL))
	assert.ErrorIs(t, err, ErrUnknownSource)
	assert.Empty(t, router.Requests())
}

func TestBoxsetRun(t *testing.T) {
	router := newRouter(t, BoxsetExtractor)
	router.Handle("www.fiaformulae.com", testutil.Serve(
		http.StatusOK, "text/html", testutil.Fixture(t, "boxset.html"),
	))

	response, err := BoxsetExtractor.Run(newContext(t, BoxsetExtractor, testBoxsetURL))
	require.NoError(t, err)
	assert.Equal(t, enums.ResultTypePlaylist, response.Type)

	playlist := response.Playlist
	require.NotNil(t, playlist)
	assert.Equal(t, "1", playlist.ContentID)
	assert.Equal(t, "formulae_boxset", playlist.ExtractorCodeName)
	assert.Equal(t, "Season 1 Boxset", playlist.Title)
	assert.Len(t, playlist.Entries, 3)
}

func TestBoxsetRunNotFound(t *testing.T) {
	router := newRouter(t, BoxsetExtractor)
	router.Handle("www.fiaformulae.com", testutil.Serve(
		http.StatusNotFound, "text/html", []byte("not found"),
	))

	_, err := BoxsetExtractor.Run(newContext(t, BoxsetExtractor, testBoxsetURL))
	var statusErr *util.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}
