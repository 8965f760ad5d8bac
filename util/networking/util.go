package networking

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pitlane/models"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

func configureProxyTransport(
	transport *http.Transport,
	cfg *models.ExtractorConfig,
) {
	httpProxyURL := parseProxyURL(cfg.HTTPProxy)
	httpsProxyURL := parseProxyURL(cfg.HTTPSProxy)
	if httpProxyURL == nil && httpsProxyURL == nil {
		return
	}
	noProxyList := parseNoProxyList(cfg.NoProxy)
	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		if shouldBypassProxy(req.URL.Hostname(), noProxyList) {
			return nil, nil
		}
		return pickProxy(req.URL.Scheme, httpProxyURL, httpsProxyURL), nil
	}
}

func parseProxyURL(rawURL string) *url.URL {
	if rawURL == "" {
		return nil
	}
	proxyURL, err := url.Parse(rawURL)
	if err != nil || proxyURL.Host == "" {
		zap.S().Warnf("invalid proxy URL '%s': %v", rawURL, err)
		return nil
	}
	return proxyURL
}

// pickProxy prefers the proxy matching the scheme, then any proxy set.
func pickProxy(scheme string, httpProxyURL, httpsProxyURL *url.URL) *url.URL {
	switch {
	case scheme == "https" && httpsProxyURL != nil:
		return httpsProxyURL
	case scheme == "http" && httpProxyURL != nil:
		return httpProxyURL
	case httpsProxyURL != nil:
		return httpsProxyURL
	default:
		return httpProxyURL
	}
}

func parseNoProxyList(noProxy string) []string {
	if noProxy == "" {
		return nil
	}
	list := strings.Split(noProxy, ",")
	for i := range list {
		list[i] = strings.ToLower(strings.TrimSpace(list[i]))
	}
	return list
}

func shouldBypassProxy(host string, noProxyList []string) bool {
	host = strings.ToLower(host)
	for _, p := range noProxyList {
		switch {
		case p == "":
			continue
		case p == "*", p == host:
			return true
		case strings.HasPrefix(p, ".") && strings.HasSuffix(host, p):
			return true
		}
	}
	return false
}

func copyHeaders(source, destination http.Header) {
	for name, values := range source {
		for _, value := range values {
			destination.Add(name, value)
		}
	}
}

func parseProxyResponse(proxyResp *http.Response, originalReq *http.Request) (*http.Response, error) {
	if proxyResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edge proxy answered %s", proxyResp.Status)
	}

	var response models.EdgeProxyResponse
	decoder := sonic.ConfigFastest.NewDecoder(proxyResp.Body)
	if err := decoder.Decode(&response); err != nil {
		return nil, fmt.Errorf("error parsing proxy response: %w", err)
	}

	resp := &http.Response{
		StatusCode: response.StatusCode,
		Status:     strconv.Itoa(response.StatusCode) + " " + http.StatusText(response.StatusCode),
		Body:       io.NopCloser(bytes.NewBufferString(response.Text)),
		Header:     make(http.Header),
		Request:    originalReq,
	}

	if response.URL != "" {
		parsedResponseURL, err := url.Parse(response.URL)
		if err != nil {
			return nil, fmt.Errorf("error parsing response URL: %w", err)
		}
		resp.Request = originalReq.Clone(originalReq.Context())
		resp.Request.URL = parsedResponseURL
	}

	for name, value := range response.Headers {
		resp.Header.Set(name, value)
	}

	for _, cookie := range response.Cookies {
		resp.Header.Add("Set-Cookie", cookie)
	}

	return resp, nil
}
