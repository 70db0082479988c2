package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeGlobalOnlyIsLeftIdentity(t *testing.T) {
	temp := 0.7
	sys := "be terse"
	g := GlobalConfig{DefaultModel: "default-model", SystemPrompt: &sys, Temperature: &temp}

	eff := g.Merge("default-model", ConversationConfig{})
	assert.Equal(t, "default-model", eff.Model)
	assert.Equal(t, "be terse", eff.SystemPrompt)
	assert.Equal(t, &temp, eff.Temperature)
}

func TestMergeModelOverrideAppliesBeforeConversation(t *testing.T) {
	globalTemp := 0.5
	modelTemp := 0.9
	g := GlobalConfig{
		Temperature: &globalTemp,
		Models: map[string]ModelOverride{
			"m1": {Temperature: &modelTemp},
		},
	}

	eff := g.Merge("m1", ConversationConfig{})
	assert.Equal(t, &modelTemp, eff.Temperature)
}

func TestMergeConversationOverridesWin(t *testing.T) {
	globalSys := "global"
	modelSys := "model"
	convSys := "conversation"
	g := GlobalConfig{
		SystemPrompt: &globalSys,
		Models: map[string]ModelOverride{
			"m1": {SystemPrompt: &modelSys},
		},
	}

	eff := g.Merge("m1", ConversationConfig{SystemPrompt: &convSys})
	assert.Equal(t, "conversation", eff.SystemPrompt)
}

func TestMergeConversationModelOverridesDefault(t *testing.T) {
	g := GlobalConfig{DefaultModel: "default-model"}
	eff := g.Merge("default-model", ConversationConfig{Model: "picked-model"})
	assert.Equal(t, "picked-model", eff.Model)
}

func TestMergeNilPointersNeverOverwriteNonNil(t *testing.T) {
	globalTemp := 0.5
	g := GlobalConfig{Temperature: &globalTemp}
	eff := g.Merge("m1", ConversationConfig{})
	assert.Equal(t, &globalTemp, eff.Temperature)
}
