package config

import "fmt"

func Load() error {
	if err := LoadEnv(); err != nil {
		return fmt.Errorf("failed to load env: %w", err)
	}
	if err := LoadExtractorConfigs(Env.ExtractorConfigPath); err != nil {
		return fmt.Errorf("failed to load extractor configs: %w", err)
	}
	return nil
}
