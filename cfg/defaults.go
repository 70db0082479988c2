package cfg

// Default returns the configuration used before any flag or config file is
// applied: a usable local setup pointed at loopback services.
func Default() Config {
	return Config{
		Foreground: false,
		LLM: LLMConfig{
			BaseURL:       "http://127.0.0.1:8081/v1",
			DefaultModel:  "default",
			ReqsPerSecond: 2,
		},
		Search: SearchConfig{
			Network:       "tcp",
			Addr:          "127.0.0.1:8082",
			ReqsPerSecond: 5,
		},
		Workers: WorkersConfig{
			Priority: 4,
			Normal:   2,
		},
		Logging: LoggingConfig{
			Format:   "text",
			Severity: "info",
		},
	}
}
