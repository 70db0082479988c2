package state

import (
	"bytes"

	"github.com/BurntSushi/toml"

	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

// EncodeGlobalConfig renders g as TOML text, the format `/config/settings`
// reads back.
func EncodeGlobalConfig(g GlobalConfig) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(g); err != nil {
		return "", vfserr.InvalidInputf("encoding global config: %s", err)
	}
	return buf.String(), nil
}

// DecodeGlobalConfig parses TOML text written to `/config/settings`.
// Validation (e.g. temperature bounds) happens in the caller, which has
// access to the vfserr taxonomy's InvalidInput classification.
func DecodeGlobalConfig(text string) (GlobalConfig, error) {
	var raw map[string]interface{}
	if _, err := toml.Decode(text, &raw); err != nil {
		return GlobalConfig{}, vfserr.InvalidInputf("parsing global config: %s", err)
	}
	var g GlobalConfig
	if _, err := toml.Decode(text, &g); err != nil {
		return GlobalConfig{}, vfserr.InvalidInputf("parsing global config: %s", err)
	}
	g.Raw = raw
	return g, nil
}

// EncodeConversationConfig renders a conversation's config overlay as the
// TOML aggregate surfaced at `.../config/settings`.
func EncodeConversationConfig(c ConversationConfig) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return "", vfserr.InvalidInputf("encoding conversation config: %s", err)
	}
	return buf.String(), nil
}

// DecodeConversationConfig parses TOML written to
// `/conversations/<id>/config/settings`.
func DecodeConversationConfig(text string) (ConversationConfig, error) {
	var c ConversationConfig
	if _, err := toml.Decode(text, &c); err != nil {
		return ConversationConfig{}, vfserr.InvalidInputf("parsing conversation config: %s", err)
	}
	return c, nil
}

// EncodeModelOverride renders a single model's override block as TOML,
// the format `/config/models/<name>/settings` reads back.
func EncodeModelOverride(ov ModelOverride) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(ov); err != nil {
		return "", vfserr.InvalidInputf("encoding model override: %s", err)
	}
	return buf.String(), nil
}

// DecodeModelOverride parses TOML written to
// `/config/models/<name>/settings`.
func DecodeModelOverride(text string) (ModelOverride, error) {
	var ov ModelOverride
	if _, err := toml.Decode(text, &ov); err != nil {
		return ModelOverride{}, vfserr.InvalidInputf("parsing model override: %s", err)
	}
	return ov, nil
}

// ValidateTemperature enforces the documented bound (0.0-2.0 inclusive,
// following the common chat-completion convention): a temperature of 5.0
// is rejected with InvalidInput, per the spec's config-validation
// scenario.
func ValidateTemperature(t *float64) error {
	if t == nil {
		return nil
	}
	if *t < 0.0 || *t > 2.0 {
		return vfserr.InvalidInputf("temperature %.2f out of range [0.0, 2.0]", *t)
	}
	return nil
}
