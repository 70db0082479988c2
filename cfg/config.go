// Package cfg defines FuseLLM's mount configuration: the flags, config
// file, and defaults that cmd/mount binds together via viper before the
// dispatcher, ports, and async bridge are constructed.
package cfg

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Delta-in-hub/FuseLLM/internal/state"
)

// Config is the fully resolved mount configuration, one section per
// concern. Every field except Global has a flag and a config-file key
// (kebab-case in TOML, the equivalent camel-free mapstructure tag here).
// Flag and key share a name, except logging.format, logging.severity and
// metrics.addr, whose flags are log-format, log-severity and metrics-addr.
type Config struct {
	MountPoint string `mapstructure:"mount-point"`
	Foreground bool   `mapstructure:"foreground"`

	LLM     LLMConfig     `mapstructure:"llm"`
	Search  SearchConfig  `mapstructure:"search"`
	Workers WorkersConfig `mapstructure:"workers"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Global seeds the mount-time snapshot handlers serve at
	// /config/settings: system_prompt, temperature, and per-model
	// overrides, decoded from the same config file's top-level keys in
	// state.GlobalConfig's own TOML shape (the shape /config/settings
	// itself reads and writes). Not bound to any flag — an operator who
	// wants these set without editing a file writes to /config/settings
	// after mounting. Excluded from viper's Unmarshal; Load populates it
	// separately via state.DecodeGlobalConfig.
	Global state.GlobalConfig `mapstructure:"-"`
}

// LLMConfig configures the LLM Port's HTTP client.
type LLMConfig struct {
	BaseURL       string  `mapstructure:"base-url"`
	APIKey        string  `mapstructure:"api-key"`
	DefaultModel  string  `mapstructure:"default-model"`
	ReqsPerSecond float64 `mapstructure:"reqs-per-second"`
}

// SearchConfig configures the Search Port's socket client.
type SearchConfig struct {
	Network       string  `mapstructure:"network"`
	Addr          string  `mapstructure:"addr"`
	ReqsPerSecond float64 `mapstructure:"reqs-per-second"`
}

// WorkersConfig sizes the Async Bridge's two queues.
type WorkersConfig struct {
	Priority uint32 `mapstructure:"priority"`
	Normal   uint32 `mapstructure:"normal"`
}

// LoggingConfig selects the logger's format and severity.
type LoggingConfig struct {
	Format   string `mapstructure:"format"`
	Severity string `mapstructure:"severity"`
}

// MetricsConfig controls the optional Prometheus HTTP endpoint. An empty
// Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// BindFlags registers every Config field as a pflag and binds it into
// viper under the matching key, so precedence ends up flag > config file
// > default.
func BindFlags(flagSet *pflag.FlagSet) error {
	flagSet.String("mount-point", "", "Directory to mount FuseLLM at.")
	flagSet.Bool("foreground", false, "Has no effect: fusellm always serves the mount in the foreground.")

	flagSet.String("llm.base-url", "", "Base URL of the OpenAI-compatible chat endpoint.")
	flagSet.String("llm.api-key", "", "Bearer token for the chat endpoint.")
	flagSet.String("llm.default-model", "", "Model name used when no override applies.")
	flagSet.Float64("llm.reqs-per-second", 2, "Rate limit applied to the LLM port.")

	flagSet.String("search.network", "tcp", "Network for the search service socket: tcp or unix.")
	flagSet.String("search.addr", "", "Address of the search service.")
	flagSet.Float64("search.reqs-per-second", 5, "Rate limit applied to the search port.")

	flagSet.Uint32("workers.priority", 4, "Priority-queue worker count in the async bridge.")
	flagSet.Uint32("workers.normal", 2, "Normal-queue worker count in the async bridge.")

	flagSet.String("log-format", "text", "Log format: text or json.")
	flagSet.String("log-severity", "info", "Log severity: trace, debug, info, warning, error.")

	flagSet.String("metrics-addr", "", "Address to serve /metrics on; empty disables it.")

	for _, pair := range [][2]string{
		{"mount-point", "mount-point"},
		{"foreground", "foreground"},
		{"llm.base-url", "llm.base-url"},
		{"llm.api-key", "llm.api-key"},
		{"llm.default-model", "llm.default-model"},
		{"llm.reqs-per-second", "llm.reqs-per-second"},
		{"search.network", "search.network"},
		{"search.addr", "search.addr"},
		{"search.reqs-per-second", "search.reqs-per-second"},
		{"workers.priority", "workers.priority"},
		{"workers.normal", "workers.normal"},
		{"logging.format", "log-format"},
		{"logging.severity", "log-severity"},
		{"metrics.addr", "metrics-addr"},
	} {
		key, flag := pair[0], pair[1]
		if err := viper.BindPFlag(key, flagSet.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

// ShutdownGracePeriod is a five-second drain bound for in-flight async
// jobs at unmount. Nothing reads it: asyncbridge's Pool.Stop cancels the
// pool's context and returns at once, without waiting for running jobs.
const ShutdownGracePeriod = 5 * time.Second
