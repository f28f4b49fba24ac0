package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:                   ":8080",
			ShutdownTimeoutSeconds: 5,
		},
		Store: StoreConfig{
			Driver: StorePostgres,
			S3: S3Config{
				Prefix: "records",
				Region: "eu-central-1",
			},
		},
		Cache: CacheConfig{
			TTLSeconds: 600,
			Prefix:     "market",
		},
		Dashboard: DashboardConfig{
			Location:         "Europe/Berlin",
			DefaultPreset:    "30days",
			DefaultDimension: "channel",
		},
		Sections: SectionsConfig{
			Order:            []string{"usage", "errors", "response_times"},
			DebounceMS:       150,
			MinRatio:         0.25,
			HeaderOffset:     80,
			ViewportFraction: 0.3,
			FrameIntervalMS:  16,
		},
	}
}
