package logger

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"pitlane/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WriteFile dumps the body of resp under the debug directory when
// DEBUG_DUMP is on. The body is restored so callers can still read it.
func WriteFile(name string, resp *http.Response) {
	if !config.Env.DebugDump || resp == nil || resp.Body == nil {
		return
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		zap.S().Warnf("failed to read body for dump %s: %v", name, err)
		return
	}
	if err := os.MkdirAll(config.Env.DebugDirectory, 0o755); err != nil {
		zap.S().Warnf("failed to create debug directory: %v", err)
		return
	}
	fileName := fmt.Sprintf("%s_%s.txt", name, uuid.NewString())
	filePath := filepath.Join(config.Env.DebugDirectory, fileName)
	if err := os.WriteFile(filePath, body, 0o644); err != nil {
		zap.S().Warnf("failed to write dump %s: %v", filePath, err)
		return
	}
	zap.S().Debugf("dumped %s response to %s", name, filePath)
}
