package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads the YAML file at path (skipped when path is empty) and applies
// APP_* environment overrides on top of built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can override it even when
// the YAML file doesn't mention it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "recent-repos")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "prod")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output_target", "stderr")
	v.SetDefault("logger.time_field", "ts")
	v.SetDefault("logger.time_format", "rfc3339nano")
	v.SetDefault("logger.env", "prod")
	v.SetDefault("logger.with_caller", false)
	v.SetDefault("logger.stacktrace", false)
	v.SetDefault("logger.stacktrace_min_level", "error")
	v.SetDefault("logger.service_name", "recent-repos")
	v.SetDefault("logger.service_version", "0.1.0")
	v.SetDefault("logger.debug_file", "")

	v.SetDefault("github.base_url", "https://api.github.com/")
	v.SetDefault("github.user_agent", "recent-repos")
	v.SetDefault("github.timeout", "30s")

	v.SetDefault("page.marker_tag", "repos")
	v.SetDefault("page.user_attr", "data-user")
	v.SetDefault("page.cutoff_attr", "data-update")
	v.SetDefault("page.container_id", "repos")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.pages_dir", "pages")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "60s")
}
