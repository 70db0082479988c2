package cfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithNoFileReturnsDefaults(t *testing.T) {
	viper.Reset()

	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestLoadMergesTOMLFileOverDefaults(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	path := filepath.Join(dir, "fusellm.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[llm]
default-model = "custom-model"

[workers]
priority = 8
`), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-model", got.LLM.DefaultModel)
	assert.Equal(t, uint32(8), got.Workers.Priority)
	assert.Equal(t, "http://127.0.0.1:8081/v1", got.LLM.BaseURL, "unset keys keep their Default() value")
}

func TestLoadWithMissingFileFallsBackToDefaults(t *testing.T) {
	viper.Reset()

	got, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadSeedsGlobalFromTopLevelSettingsKeys(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	path := filepath.Join(dir, "fusellm.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_model = "seeded-model"
system_prompt = "be terse"

[llm]
default-model = "flag-model"

[models.gpt-4]
temperature = 0.5
`), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "seeded-model", got.Global.DefaultModel)
	require.NotNil(t, got.Global.SystemPrompt)
	assert.Equal(t, "be terse", *got.Global.SystemPrompt)
	require.Contains(t, got.Global.Models, "gpt-4")
	require.NotNil(t, got.Global.Models["gpt-4"].Temperature)
	assert.Equal(t, 0.5, *got.Global.Models["gpt-4"].Temperature)
	assert.Equal(t, "flag-model", got.LLM.DefaultModel, "the llm. section is decoded separately by viper")
}
