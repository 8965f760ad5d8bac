package util

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"pitlane/config"
	"pitlane/models"

	"github.com/aki237/nscjar"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	cookiesCache = make(map[string][]*http.Cookie)
	cookiesMu    sync.Mutex
)

// GetExtractorCookies loads cookies/<codename>.txt when present.
// A missing file is not an error: most extractors need no cookies.
func GetExtractorCookies(extractor *models.Extractor) []*http.Cookie {
	cookies, err := ParseCookieFile(extractor.CodeName + ".txt")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			zap.S().Warnf("failed to load cookies for %s: %v", extractor.CodeName, err)
		}
		return nil
	}
	return cookies
}

func ParseCookieFile(fileName string) ([]*http.Cookie, error) {
	cookiesMu.Lock()
	defer cookiesMu.Unlock()

	cachedCookies, ok := cookiesCache[fileName]
	if ok {
		return cachedCookies, nil
	}
	cookiePath := filepath.Join(config.Env.CookiesDirectory, fileName)
	cookieFile, err := os.Open(cookiePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cookie file: %w", err)
	}
	defer cookieFile.Close()

	var parser nscjar.Parser
	cookies, err := parser.Unmarshal(cookieFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cookie file: %w", err)
	}
	cookiesCache[fileName] = cookies
	return cookies, nil
}
