package util

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"pitlane/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPage(t *testing.T) {
	router := testutil.NewRouter()
	router.HandleFunc("www.fiaformulae.com", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ChromeUA, r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		cookie, err := r.Cookie("session")
		require.NoError(t, err)
		assert.Equal(t, "abc", cookie.Value)
		w.WriteHeader(http.StatusCreated)
	})

	resp, err := FetchPage(
		context.Background(),
		router,
		http.MethodPost,
		"https://www.fiaformulae.com/api",
		strings.NewReader("{}"),
		map[string]string{"Accept": "application/json"},
		[]*http.Cookie{{Name: "session", Value: "abc"}},
	)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestFetchPageKeepsUserAgent(t *testing.T) {
	router := testutil.NewRouter()
	router.HandleFunc("a.example.com", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pitlane-test", r.Header.Get("User-Agent"))
	})

	resp, err := FetchPage(
		context.Background(), router, http.MethodGet, "https://a.example.com/",
		nil, map[string]string{"User-Agent": "pitlane-test"}, nil,
	)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestFetchBody(t *testing.T) {
	router := testutil.NewRouter()
	router.Handle("a.example.com", testutil.Serve(http.StatusOK, "text/plain", []byte("hello")))
	router.Handle("b.example.com", testutil.Serve(http.StatusForbidden, "text/plain", []byte("no")))

	body, err := FetchBody(context.Background(), router, "https://a.example.com/x", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	_, err = FetchBody(context.Background(), router, "https://b.example.com/x", nil, nil)
	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "https://b.example.com/x", statusErr.URL)

	_, err = FetchBody(context.Background(), router, "https://c.example.com/x", nil, nil)
	assert.ErrorContains(t, err, "failed to send request")
}

func TestFetchBodyCanceled(t *testing.T) {
	router := testutil.NewRouter()
	router.Handle("a.example.com", testutil.Serve(http.StatusOK, "text/plain", []byte("hello")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FetchBody(ctx, router, "https://a.example.com/x", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
