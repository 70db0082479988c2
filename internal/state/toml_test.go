package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfigRoundTrip(t *testing.T) {
	temp := 0.8
	sys := "be concise"
	g := GlobalConfig{
		DefaultModel: "gpt-4",
		SystemPrompt: &sys,
		Temperature:  &temp,
		Models: map[string]ModelOverride{
			"gpt-3.5": {Temperature: &temp},
		},
	}

	text, err := EncodeGlobalConfig(g)
	require.NoError(t, err)

	got, err := DecodeGlobalConfig(text)
	require.NoError(t, err)
	assert.Equal(t, g.DefaultModel, got.DefaultModel)
	require.NotNil(t, got.SystemPrompt)
	assert.Equal(t, sys, *got.SystemPrompt)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, temp, *got.Temperature)
}

func TestDecodeGlobalConfigPreservesUnknownKeysInRaw(t *testing.T) {
	got, err := DecodeGlobalConfig(`default_model = "gpt-4"
future_field = "kept"
`)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", got.DefaultModel)
	assert.Equal(t, "kept", got.Raw["future_field"])
}

func TestDecodeGlobalConfigRejectsMalformedTOML(t *testing.T) {
	_, err := DecodeGlobalConfig("not = [valid toml")
	assert.Error(t, err)
}

func TestConversationConfigRoundTrip(t *testing.T) {
	c := ConversationConfig{Model: "gpt-4"}
	text, err := EncodeConversationConfig(c)
	require.NoError(t, err)

	got, err := DecodeConversationConfig(text)
	require.NoError(t, err)
	assert.Equal(t, c.Model, got.Model)
}

func TestModelOverrideRoundTrip(t *testing.T) {
	temp := 1.1
	ov := ModelOverride{Temperature: &temp}
	text, err := EncodeModelOverride(ov)
	require.NoError(t, err)

	got, err := DecodeModelOverride(text)
	require.NoError(t, err)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, temp, *got.Temperature)
}

func TestValidateTemperature(t *testing.T) {
	inRange := 1.5
	tooHigh := 5.0
	tooLow := -0.1

	assert.NoError(t, ValidateTemperature(nil))
	assert.NoError(t, ValidateTemperature(&inRange))
	assert.Error(t, ValidateTemperature(&tooHigh))
	assert.Error(t, ValidateTemperature(&tooLow))
}
