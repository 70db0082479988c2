package state

// ModelOverride is the per-model slice of a GlobalConfig: the settings a
// model-specific override may replace in the default config.
type ModelOverride struct {
	SystemPrompt *string  `toml:"system_prompt,omitempty"`
	Temperature  *float64 `toml:"temperature,omitempty"`
}

// GlobalConfig is the typed view of the snapshot at /config/settings.
// Raw holds the full decoded key map, including keys this type doesn't
// know about. EncodeGlobalConfig writes only the typed fields, so keys
// that exist only in Raw are not rendered back at /config/settings.
type GlobalConfig struct {
	DefaultModel string                    `toml:"default_model"`
	SystemPrompt *string                   `toml:"system_prompt,omitempty"`
	Temperature  *float64                  `toml:"temperature,omitempty"`
	Models       map[string]ModelOverride  `toml:"models,omitempty"`

	Raw map[string]interface{} `toml:"-"`
}

// ConversationConfig is the per-conversation config overlay: the last,
// most-specific layer of the effective-config merge.
type ConversationConfig struct {
	Model        string   `toml:"model,omitempty"`
	SystemPrompt *string  `toml:"system_prompt,omitempty"`
	Temperature  *float64 `toml:"temperature,omitempty"`
}

// EffectiveConfig is the fully merged configuration used for a single LLM
// call: global default config, overridden by global model-specific
// settings, overridden by conversation-specific settings. Later sources
// replace Some-valued fields only — a nil pointer never overwrites a
// non-nil one.
type EffectiveConfig struct {
	Model        string
	SystemPrompt string
	Temperature  *float64
}

// Merge computes the effective config for model against g, applying any
// per-model override in g.Models, then the conversation overlay conv.
func (g GlobalConfig) Merge(model string, conv ConversationConfig) EffectiveConfig {
	eff := EffectiveConfig{Model: model}
	if g.SystemPrompt != nil {
		eff.SystemPrompt = *g.SystemPrompt
	}
	eff.Temperature = g.Temperature

	if ov, ok := g.Models[model]; ok {
		if ov.SystemPrompt != nil {
			eff.SystemPrompt = *ov.SystemPrompt
		}
		if ov.Temperature != nil {
			eff.Temperature = ov.Temperature
		}
	}

	if conv.Model != "" {
		eff.Model = conv.Model
	}
	if conv.SystemPrompt != nil {
		eff.SystemPrompt = *conv.SystemPrompt
	}
	if conv.Temperature != nil {
		eff.Temperature = conv.Temperature
	}

	return eff
}
