package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"

	"github.com/Delta-in-hub/FuseLLM/internal/state"
)

// Load merges Default() with an optional TOML config file at path
// (skipped if empty or missing) and whatever flags BindFlags already
// bound into viper. The mount point is filled in separately by the
// caller (it arrives as a positional argument, not a flag bound here),
// so Load does not call Validate; the caller must do that once the
// mount point is known.
//
// The same file is also decoded a second time as a state.GlobalConfig
// (its top-level default_model/system_prompt/temperature/models keys,
// distinct from the llm./search./... sections above) to seed Global, the
// snapshot /config/settings starts from at mount. A file with no such
// keys decodes to a zero GlobalConfig, same as having no file at all.
func Load(path string) (Config, error) {
	config := Default()

	v := viper.GetViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, err
			}
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}

	if path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			global, err := state.DecodeGlobalConfig(string(raw))
			if err != nil {
				return Config{}, fmt.Errorf("parsing global settings from %s: %w", path, err)
			}
			config.Global = global
		}
	}

	return config, nil
}
