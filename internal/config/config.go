// Package config loads application settings from YAML and APP_* environment variables.
package config

import (
	"net"
	"strconv"
	"time"

	"github.com/maxviazov/recent-repos/internal/logger"
)

type Config struct {
	App    AppConfig           `mapstructure:"app"`
	Logger logger.LoggerConfig `mapstructure:"logger"`
	GitHub GitHubConfig        `mapstructure:"github"`
	Page   PageConfig          `mapstructure:"page"`
	Server ServerConfig        `mapstructure:"server"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env" validate:"oneof=dev staging prod test"`
}

// GitHubConfig points the fetcher at the repository-listing API.
type GitHubConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// PageConfig names the markers and the render container inside a page.
type PageConfig struct {
	MarkerTag   string `mapstructure:"marker_tag" validate:"required"`
	UserAttr    string `mapstructure:"user_attr" validate:"required"`
	CutoffAttr  string `mapstructure:"cutoff_attr" validate:"required"`
	ContainerID string `mapstructure:"container_id" validate:"required"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	PagesDir     string        `mapstructure:"pages_dir"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
