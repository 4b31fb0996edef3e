// internal/config/normalize.go
package config

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Bus.Adapter == "" {
		cfg.Bus.Adapter = "ftdi"
	}

	// port and pin names only matter for registry lookups
	if cfg.Bus.Adapter == "ftdi" {
		cfg.Bus.Port = ""
		cfg.Bus.CSPin = ""
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Poll durations left at zero fall back to driver defaults.
}
