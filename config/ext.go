package config

import (
	"fmt"
	"maps"
	"os"
	"sync"

	"pitlane/models"

	"gopkg.in/yaml.v3"
)

var (
	extractorConfigs   = make(map[string]*models.ExtractorConfig)
	extractorConfigsMu sync.RWMutex
)

func LoadExtractorConfigs(configPath string) error {
	configs := make(map[string]*models.ExtractorConfig)

	_, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		setExtractorConfigs(configs)
		return nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed reading config file: %w", err)
	}

	var rawConfig map[string]*models.ExtractorConfig

	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return fmt.Errorf("failed parsing config file: %w", err)
	}
	for codeName, cfg := range rawConfig {
		if cfg == nil {
			// "brightcove:" with nothing below it
			cfg = &models.ExtractorConfig{}
		}
		configs[codeName] = cfg
	}
	setExtractorConfigs(configs)

	return nil
}

func setExtractorConfigs(configs map[string]*models.ExtractorConfig) {
	extractorConfigsMu.Lock()
	defer extractorConfigsMu.Unlock()
	extractorConfigs = make(map[string]*models.ExtractorConfig, len(configs))
	maps.Copy(extractorConfigs, configs)
}

func GetExtractorConfig(extractor *models.Extractor) *models.ExtractorConfig {
	extractorConfigsMu.RLock()
	defer extractorConfigsMu.RUnlock()
	if cfg, exists := extractorConfigs[extractor.CodeName]; exists {
		return cfg
	}
	return nil
}

// SetExtractorConfig replaces the config of a single extractor,
// a nil cfg removes it.
func SetExtractorConfig(codeName string, cfg *models.ExtractorConfig) {
	extractorConfigsMu.Lock()
	defer extractorConfigsMu.Unlock()
	if cfg == nil {
		delete(extractorConfigs, codeName)
		return
	}
	extractorConfigs[codeName] = cfg
}

func IsExtractorDisabled(extractor *models.Extractor) bool {
	cfg := GetExtractorConfig(extractor)
	return cfg != nil && cfg.IsDisabled
}
