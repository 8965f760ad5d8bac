package cli

import (
	"fmt"
	"maps"
	"strings"

	"pitlane/config"
	"pitlane/ext"
	"pitlane/models"
	"pitlane/util/networking"
)

// ApplyExtractorArg sets one extractor argument given as
// codename:key=value on top of the loaded extractor config.
func ApplyExtractorArg(raw string) error {
	codeName, pair, ok := strings.Cut(raw, ":")
	if !ok || codeName == "" {
		return fmt.Errorf("invalid extractor argument %q, expected codename:key=value", raw)
	}
	key, value, ok := strings.Cut(pair, "=")
	if !ok || key == "" {
		return fmt.Errorf("invalid extractor argument %q, expected codename:key=value", raw)
	}
	extractor := ext.ByCodeName(codeName)
	if extractor == nil {
		return fmt.Errorf("unknown extractor %q", codeName)
	}

	cfg := &models.ExtractorConfig{}
	if current := config.GetExtractorConfig(extractor); current != nil {
		*cfg = *current
	}
	args := make(map[string]string, len(cfg.Args)+1)
	maps.Copy(args, cfg.Args)
	args[strings.TrimSpace(key)] = strings.TrimSpace(value)
	cfg.Args = args

	config.SetExtractorConfig(codeName, cfg)
	networking.ResetExtractorClients()
	return nil
}
