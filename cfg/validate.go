package cfg

import (
	"fmt"

	"github.com/Delta-in-hub/FuseLLM/internal/state"
)

// Validate returns a non-nil error if config cannot be used to mount.
func Validate(config *Config) error {
	if config.MountPoint == "" {
		return fmt.Errorf("mount-point is required")
	}
	if err := state.ValidateTemperature(config.Global.Temperature); err != nil {
		return fmt.Errorf("global settings: %w", err)
	}
	for name, ov := range config.Global.Models {
		if err := state.ValidateTemperature(ov.Temperature); err != nil {
			return fmt.Errorf("global settings: model %q: %w", name, err)
		}
	}
	if config.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base-url is required")
	}
	if config.Search.Addr == "" {
		return fmt.Errorf("search.addr is required")
	}
	if config.Search.Network != "tcp" && config.Search.Network != "unix" {
		return fmt.Errorf("search.network must be tcp or unix, got %q", config.Search.Network)
	}
	if config.Workers.Priority == 0 && config.Workers.Normal == 0 {
		return fmt.Errorf("workers.priority and workers.normal cannot both be zero")
	}
	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", config.Logging.Format)
	}
	return nil
}
