package util

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"
)

func GetLastError(err error) error {
	var lastErr = err
	for {
		unwrapped := errors.Unwrap(lastErr)
		if unwrapped == nil {
			break
		}
		lastErr = unwrapped
	}
	return lastErr
}

func FixURL(url string) string {
	return strings.ReplaceAll(url, "&amp;", "&")
}

// ExtractBaseHost returns the registrable label of a URL's host,
// "fiaformulae" for https://www.fiaformulae.com/en.
func ExtractBaseHost(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}
	host := parsedURL.Hostname()
	if host == "" {
		return "", errors.New("url has no host")
	}
	etld, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("failed to get eTLD+1: %w", err)
	}
	parts := strings.Split(etld, ".")
	if len(parts) == 0 {
		return "", errors.New("invalid domain structure")
	}
	return parts[0], nil
}

// AbsoluteURL resolves ref against base, returning ref untouched
// when either cannot be parsed.
func AbsoluteURL(base string, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
