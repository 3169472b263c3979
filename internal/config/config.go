// Package config handles fxconv configuration loading.
package config

// Config holds tool-wide defaults, overridable per invocation by flags.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Listing ListingConfig `yaml:"listing"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds default conversion settings.
type ConvertConfig struct {
	Sort     string `yaml:"sort"`     // none, distance, material
	Revision string `yaml:"revision"` // id_0_c, effects
}

// ListingConfig holds BSP/GZS import settings.
type ListingConfig struct {
	Codepage string `yaml:"codepage"` // cp437, cp1252, utf8
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			Sort:     "none",
			Revision: "id_0_c",
		},
		Listing: ListingConfig{
			Codepage: "cp437",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
