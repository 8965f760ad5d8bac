package util

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"pitlane/models"
	"pitlane/util/networking"
)

const ChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36"

func FetchPage(
	ctx context.Context,
	client models.HTTPClient,
	method string,
	url string,
	body io.Reader,
	headers map[string]string,
	cookies []*http.Cookie,
) (*http.Response, error) {
	if client == nil {
		client = networking.GetDefaultHTTPClient()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", ChromeUA)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// FetchBody is FetchPage for GET requests whose body is read whole.
// Any status other than 200 is turned into an HTTPStatusError.
func FetchBody(
	ctx context.Context,
	client models.HTTPClient,
	url string,
	headers map[string]string,
	cookies []*http.Cookie,
) ([]byte, error) {
	resp, err := FetchPage(ctx, client, http.MethodGet, url, nil, headers, cookies)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
