package cli

import (
	"testing"

	"pitlane/config"
	"pitlane/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyExtractorArg(t *testing.T) {
	current := &models.ExtractorConfig{RateLimit: 2, Args: map[string]string{"lang": "fr"}}
	config.SetExtractorConfig("formulae", current)
	t.Cleanup(func() {
		config.SetExtractorConfig("formulae", nil)
	})

	require.NoError(t, ApplyExtractorArg("formulae: source = webpage "))

	cfg := config.GetExtractorConfig(&models.Extractor{CodeName: "formulae"})
	require.NotNil(t, cfg)
	assert.Equal(t, "webpage", cfg.Arg("source", "api"))
	assert.Equal(t, "fr", cfg.Arg("lang", ""))
	assert.InDelta(t, 2.0, cfg.RateLimit, 0)

	// the loaded config is left untouched
	_, ok := current.Args["source"]
	assert.False(t, ok)
}

func TestApplyExtractorArgWithoutConfig(t *testing.T) {
	config.SetExtractorConfig("brightcove", nil)
	t.Cleanup(func() {
		config.SetExtractorConfig("brightcove", nil)
	})

	require.NoError(t, ApplyExtractorArg("brightcove:player=default"))
	cfg := config.GetExtractorConfig(&models.Extractor{CodeName: "brightcove"})
	require.NotNil(t, cfg)
	assert.Equal(t, "default", cfg.Args["player"])
}

func TestApplyExtractorArgInvalid(t *testing.T) {
	for _, raw := range []string{"", "formulae", ":source=api", "formulae:source", "formulae:=api"} {
		assert.ErrorContains(t, ApplyExtractorArg(raw), "invalid extractor argument", raw)
	}
	assert.ErrorContains(t, ApplyExtractorArg("vimeo:source=api"), "unknown extractor")
}
